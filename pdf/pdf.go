// Package pdf produces the downloadable PDF surfaces: a vector layout
// of a single quote document, a paginated raster of a captured preview,
// and the plain table export of a quote list.
package pdf

import (
	"fmt"
	"os"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/johnfercher/maroto/v2/pkg/repository"

	"github.com/cwhuang/quote-app/document"
)

// FontPath points at a TTF with coverage for the glyphs documents use
// (CJK included). Empty falls back to the built-in core fonts.
var FontPath = os.Getenv("PDF_FONT_PATH")

const fontFamily = "document"

func newMaroto() (core.Maroto, error) {
	builder := config.NewBuilder().
		WithLeftMargin(12).
		WithTopMargin(14).
		WithRightMargin(12)

	if FontPath != "" {
		fonts, err := repository.New().
			AddUTF8Font(fontFamily, fontstyle.Normal, FontPath).
			AddUTF8Font(fontFamily, fontstyle.Bold, FontPath).
			AddUTF8Font(fontFamily, fontstyle.Italic, FontPath).
			AddUTF8Font(fontFamily, fontstyle.BoldItalic, FontPath).
			Load()
		if err != nil {
			return nil, fmt.Errorf("load pdf font %s: %w", FontPath, err)
		}
		builder = builder.
			WithCustomFonts(fonts).
			WithDefaultFont(&props.Font{Family: fontFamily})
	}

	return maroto.New(builder.Build()), nil
}

// QuotePDF lays a built document out as a vector PDF. Section order and
// content mirror the HTML rendering; only the interaction chrome is
// absent, as on any export surface.
func QuotePDF(doc document.Document) ([]byte, error) {
	m, err := newMaroto()
	if err != nil {
		return nil, err
	}

	addQuoteHeader(m, doc)
	addQuoteParties(m, doc)
	addQuoteItems(m, doc)
	addQuoteTotals(m, doc)
	addQuoteBank(m, doc)
	addQuoteNotes(m, doc)
	addQuoteFooter(m, doc)

	generated, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate quote pdf: %w", err)
	}
	return generated.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, doc document.Document) {
	companyTexts := []core.Component{
		text.New(doc.Company.Name, props.Text{Size: 14, Style: fontstyle.Bold}),
	}
	top := 7.0
	for _, f := range doc.Company.Lines {
		companyTexts = append(companyTexts, text.New(fieldLine(f), props.Text{Size: 8, Top: top}))
		top += 4
	}

	m.AddRow(26,
		col.New(7).Add(companyTexts...),
		col.New(5).Add(
			text.New(doc.Title, props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Right}),
		),
	)
	m.AddRow(4, line.NewCol(12))
}

func addQuoteParties(m core.Maroto, doc document.Document) {
	customerTexts := []core.Component{
		text.New(doc.Customer.Heading, props.Text{Size: 8, Style: fontstyle.Bold}),
		text.New(doc.Customer.Name, props.Text{Size: 11, Style: fontstyle.Bold, Top: 5}),
	}
	top := 11.0
	for _, f := range doc.Customer.Lines {
		customerTexts = append(customerTexts, text.New(fieldLine(f), props.Text{Size: 9, Top: top}))
		top += 4.5
	}

	metaTexts := []core.Component{
		text.New(fieldLine(doc.Meta.Number), props.Text{Size: 9, Align: align.Right}),
		text.New(fieldLine(doc.Meta.Date), props.Text{Size: 9, Top: 4.5, Align: align.Right}),
	}
	top = 9.0
	for _, f := range []document.Field{doc.Meta.ValidUntil, doc.Meta.Staff} {
		if f.Value == "" {
			continue
		}
		metaTexts = append(metaTexts, text.New(fieldLine(f), props.Text{Size: 9, Top: top, Align: align.Right}))
		top += 4.5
	}

	m.AddRow(32,
		col.New(7).Add(customerTexts...),
		col.New(5).Add(metaTexts...),
	)
}

func addQuoteItems(m core.Maroto, doc document.Document) {
	items := doc.Items
	m.AddRow(7,
		headerCol(3, items.NameLabel, align.Left),
		headerCol(3, items.DescriptionLabel, align.Left),
		headerCol(1, items.QuantityLabel, align.Right),
		headerCol(1, items.UnitLabel, align.Left),
		headerCol(2, items.UnitPriceLabel, align.Right),
		headerCol(2, items.AmountLabel, align.Right),
	)
	m.AddRow(2, line.NewCol(12))

	if len(items.Rows) == 0 {
		m.AddRow(10,
			col.New(12).Add(text.New(items.Empty, props.Text{Size: 9, Align: align.Center})),
		)
		return
	}

	for _, row := range items.Rows {
		m.AddRow(8,
			bodyCol(3, row.Name, align.Left),
			bodyCol(3, document.PlainText(row.Description), align.Left),
			bodyCol(1, row.Quantity, align.Right),
			bodyCol(1, row.Unit, align.Left),
			bodyCol(2, row.UnitPrice, align.Right),
			bodyCol(2, row.Amount, align.Right),
		)
	}
	m.AddRow(2, line.NewCol(12))
}

func addQuoteTotals(m core.Maroto, doc document.Document) {
	rows := []struct {
		field document.Field
		style fontstyle.Type
		size  float64
	}{
		{doc.Totals.Subtotal, fontstyle.Normal, 9},
		{doc.Totals.Tax, fontstyle.Normal, 9},
		{doc.Totals.Total, fontstyle.Bold, 11},
	}
	for _, r := range rows {
		m.AddRow(6,
			col.New(6),
			col.New(3).Add(text.New(r.field.Label, props.Text{Size: r.size, Style: r.style, Align: align.Right})),
			col.New(3).Add(text.New(r.field.Value, props.Text{Size: r.size, Style: r.style, Align: align.Right})),
		)
	}
}

func addQuoteBank(m core.Maroto, doc document.Document) {
	if !doc.Bank.Present {
		return
	}
	m.AddRow(8,
		col.New(12).Add(text.New(doc.Bank.Heading, props.Text{Size: 9, Style: fontstyle.Bold, Top: 2})),
	)
	for _, f := range doc.Bank.Lines {
		m.AddRow(5,
			col.New(12).Add(text.New(fieldLine(f), props.Text{Size: 9})),
		)
	}
}

func addQuoteNotes(m core.Maroto, doc document.Document) {
	if !doc.Notes.Present {
		return
	}
	m.AddRow(8,
		col.New(12).Add(text.New(doc.Notes.Heading, props.Text{Size: 9, Style: fontstyle.Bold, Top: 2})),
	)
	for _, lineText := range doc.Notes.Lines {
		m.AddRow(5,
			col.New(12).Add(text.New(lineText, props.Text{Size: 9})),
		)
	}
}

func addQuoteFooter(m core.Maroto, doc document.Document) {
	m.AddRow(10,
		col.New(12).Add(
			text.New(fieldLine(doc.Footer.GeneratedAt), props.Text{
				Size:  8,
				Top:   4,
				Align: align.Right,
				Color: &props.Color{Red: 128, Green: 128, Blue: 128},
			}),
		),
	)
}

func headerCol(width int, label string, a align.Type) core.Col {
	return col.New(width).Add(text.New(label, props.Text{Size: 9, Style: fontstyle.Bold, Align: a}))
}

func bodyCol(width int, value string, a align.Type) core.Col {
	return col.New(width).Add(text.New(value, props.Text{Size: 9, Align: a}))
}

func fieldLine(f document.Field) string {
	if f.Label == "" {
		return f.Value
	}
	return f.Label + "：" + f.Value
}

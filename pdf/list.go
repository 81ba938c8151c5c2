package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/cwhuang/quote-app/document"
	"github.com/cwhuang/quote-app/i18n"
)

// ListRow is one line of the quote list export. Status carries the
// already translated label.
type ListRow struct {
	Number   string
	Customer string
	Contact  string
	Date     string
	Total    float64
	Status   string
}

// listBottomY is the Y cursor threshold that forces a page break.
const listBottomY = 270.0

// QuoteListPDF renders the quote list as a plain table: one row per
// quote, a repeated column header after each page break, and a trailing
// summary with the row count and the summed totals. No rasterization is
// involved.
func QuoteListPDF(lang string, rows []ListRow, generatedAt time.Time) ([]byte, error) {
	t := func(code string) string { return i18n.T(lang, code) }

	doc := gofpdf.New("P", "mm", "A4", "")
	family := "Helvetica"
	if FontPath != "" {
		family = fontFamily
		doc.AddUTF8Font(family, "", FontPath)
		doc.AddUTF8Font(family, "B", FontPath)
	}
	doc.SetMargins(12, 14, 12)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	doc.SetFont(family, "B", 14)
	doc.CellFormat(0, 10, t("list.title"), "", 1, "C", false, 0, "")
	doc.Ln(2)

	type column struct {
		label string
		width float64
		align string
	}
	columns := []column{
		{t("list.number"), 32, "L"},
		{t("list.customer"), 50, "L"},
		{t("list.contact"), 28, "L"},
		{t("list.date"), 24, "L"},
		{t("list.total"), 28, "R"},
		{t("list.status"), 24, "C"},
	}

	writeHeader := func() {
		doc.SetFont(family, "B", 9)
		for _, c := range columns {
			doc.CellFormat(c.width, 7, c.label, "B", 0, c.align, false, 0, "")
		}
		doc.Ln(-1)
	}
	writeHeader()

	var sum float64
	doc.SetFont(family, "", 9)
	for _, row := range rows {
		if doc.GetY() > listBottomY {
			doc.AddPage()
			writeHeader()
			doc.SetFont(family, "", 9)
		}
		cells := []string{row.Number, row.Customer, row.Contact, row.Date, document.FormatNTD(row.Total), row.Status}
		for i, c := range columns {
			doc.CellFormat(c.width, 7, cells[i], "B", 0, c.align, false, 0, "")
		}
		doc.Ln(-1)
		sum += row.Total
	}

	if doc.GetY() > listBottomY {
		doc.AddPage()
	}
	doc.Ln(3)
	doc.SetFont(family, "B", 10)
	summary := fmt.Sprintf("%s: %d    %s: %s", t("list.count"), len(rows), t("list.sum"), document.FormatNTD(sum))
	doc.CellFormat(0, 8, summary, "", 1, "R", false, 0, "")

	doc.SetFont(family, "", 8)
	doc.SetTextColor(128, 128, 128)
	doc.CellFormat(0, 6, t("document.generated_at")+"："+generatedAt.Format("2006-01-02 15:04"), "", 1, "R", false, 0, "")

	var out bytes.Buffer
	if err := doc.Output(&out); err != nil {
		return nil, fmt.Errorf("quote list pdf: %w", err)
	}
	return out.Bytes(), nil
}

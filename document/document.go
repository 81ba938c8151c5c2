package document

import (
	"html/template"
	"strings"
	"time"

	"github.com/cwhuang/quote-app/i18n"
	"github.com/cwhuang/quote-app/internal/services"
)

// Options selects the language and mode a document is built for.
type Options struct {
	Lang     string
	ReadOnly bool
	Now      time.Time
}

// Image is an optional embedded asset. Data is empty when the asset was
// never uploaded; renderers then show a labeled placeholder box instead.
// Only data: URIs are accepted so the rendered HTML stays self-contained.
type Image struct {
	Data        template.URL
	Placeholder string
}

// Present reports whether the asset has real image data.
func (im Image) Present() bool { return im.Data != "" }

// Field is a labeled display value. Rows with an empty Value are skipped
// by the renderers.
type Field struct {
	Label string
	Value string
}

// ItemRow is one line of the item table with every cell already
// formatted for display.
type ItemRow struct {
	Name        string
	Description []Run
	Quantity    string
	Unit        string
	UnitPrice   string
	Amount      string
}

// CompanySection is the letterhead: logo plus the issuing company's
// contact lines.
type CompanySection struct {
	Logo  Image
	Name  string
	Lines []Field
}

// MetaSection identifies the document: number, dates and the staff
// member responsible.
type MetaSection struct {
	Number     Field
	Date       Field
	ValidUntil Field
	Staff      Field
}

// CustomerSection is the addressee block. Unknown is set when the
// customer row no longer resolves; Name then carries the fallback label.
type CustomerSection struct {
	Heading string
	Name    string
	Unknown bool
	Lines   []Field
}

// ItemsSection is the line-item table. Empty carries the label shown
// when the quote has no items.
type ItemsSection struct {
	NameLabel        string
	DescriptionLabel string
	QuantityLabel    string
	UnitLabel        string
	UnitPriceLabel   string
	AmountLabel      string
	Rows             []ItemRow
	Empty            string
}

// TotalsSection is the stamp image beside the money summary.
type TotalsSection struct {
	Stamp    Image
	Subtotal Field
	Tax      Field
	Total    Field
}

// BankSection is the optional remittance block.
type BankSection struct {
	Present bool
	Heading string
	Image   Image
	Lines   []Field
}

// NotesSection is the optional free-form notes block.
type NotesSection struct {
	Present bool
	Heading string
	Lines   []string
}

// FooterSection closes the document with the generation timestamp.
type FooterSection struct {
	GeneratedAt Field
}

// Document is the canonical visual definition of one quote. Every
// rendering surface (on-screen preview, print, HTML export, PDF export)
// consumes this same structure, so a value built once renders
// identically everywhere.
type Document struct {
	Lang     string
	Title    string
	ReadOnly bool

	// ExportHidden suppresses elements flagged as non-printable chrome
	// (upload hints, action affordances) while a capture is running.
	// Toggle it through HideExportExcluded so it always flips back.
	ExportHidden bool

	UploadHint string
	EditHint   string

	Company  CompanySection
	Meta     MetaSection
	Customer CustomerSection
	Items    ItemsSection
	Totals   TotalsSection
	Bank     BankSection
	Notes    NotesSection
	Footer   FooterSection
}

// HideExportExcluded hides interaction-only chrome and returns a restore
// function. Callers must run restore on every exit path, error paths
// included.
func (d *Document) HideExportExcluded() (restore func()) {
	prev := d.ExportHidden
	d.ExportHidden = true
	return func() { d.ExportHidden = prev }
}

// ShowsChrome reports whether edit affordances are visible right now.
func (d *Document) ShowsChrome() bool {
	return !d.ReadOnly && !d.ExportHidden
}

// Build assembles the canonical document from a quote aggregate and the
// stored branding and bank-display settings. Line amounts and totals are
// recomputed from quantity and unit price here; the stored columns are
// never trusted for display. Missing relations degrade to fallback
// labels, missing assets to placeholders. Build never fails.
func Build(agg services.QuoteAggregate, branding services.CompanyBranding, display services.BankDisplay, opts Options) Document {
	lang := opts.Lang
	if lang == "" {
		lang = i18n.DefaultLang
	}
	t := func(code string) string { return i18n.T(lang, code) }
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	doc := Document{
		Lang:       lang,
		Title:      t("document.title"),
		ReadOnly:   opts.ReadOnly,
		UploadHint: t("document.upload_hint"),
		EditHint:   t("document.edit_hint"),
	}

	doc.Company = CompanySection{
		Logo: Image{Data: imageData(branding.LogoImage), Placeholder: t("document.placeholder.logo")},
		Name: branding.Name,
		Lines: fields(
			Field{Value: branding.Address},
			Field{Label: t("document.phone"), Value: branding.Phone},
			Field{Label: t("document.email"), Value: branding.Email},
			Field{Label: t("document.tax_id"), Value: branding.TaxID},
		),
	}

	q := agg.Quote
	doc.Meta = MetaSection{
		Number: Field{Label: t("document.quote_number"), Value: q.Number},
		Date:   Field{Label: t("document.quote_date"), Value: q.QuoteDate.Format("2006-01-02")},
	}
	if q.ValidUntil != nil {
		doc.Meta.ValidUntil = Field{Label: t("document.valid_until"), Value: q.ValidUntil.Format("2006-01-02")}
	}
	if agg.Staff.OK {
		staff := agg.Staff.Value.Name
		if title := agg.Staff.Value.Title; title != "" {
			staff += " " + title
		}
		doc.Meta.Staff = Field{Label: t("document.staff"), Value: staff}
	}

	doc.Customer = buildCustomer(agg, t)
	doc.Items = buildItems(agg, t)

	subtotal, tax, total := services.ComputeTotals(agg.Items, q.TaxRate)
	doc.Totals = TotalsSection{
		Stamp:    Image{Data: imageData(branding.StampImage), Placeholder: t("document.placeholder.stamp")},
		Subtotal: Field{Label: t("document.subtotal"), Value: FormatNTD(subtotal)},
		Tax:      Field{Label: t("document.tax") + " (" + FormatPercent(q.TaxRate) + ")", Value: FormatNTD(tax)},
		Total:    Field{Label: t("document.total"), Value: FormatNTD(total)},
	}

	doc.Bank = buildBank(agg, display, t)

	if notes := strings.TrimSpace(q.Notes); notes != "" {
		doc.Notes = NotesSection{
			Present: true,
			Heading: t("document.notes"),
			Lines:   strings.Split(notes, "\n"),
		}
	}

	doc.Footer = FooterSection{
		GeneratedAt: Field{Label: t("document.generated_at"), Value: now.Format("2006-01-02 15:04")},
	}
	return doc
}

func buildCustomer(agg services.QuoteAggregate, t func(string) string) CustomerSection {
	sec := CustomerSection{Heading: t("document.customer")}
	if !agg.Customer.OK {
		sec.Unknown = true
		sec.Name = t("document.unknown_customer")
		if contact := agg.Quote.ContactPerson; contact != "" {
			sec.Lines = fields(Field{Label: t("document.contact"), Value: contact})
		}
		return sec
	}
	c := agg.Customer.Value
	contact := agg.Quote.ContactPerson
	if contact == "" {
		contact = c.ContactPerson
	}
	sec.Name = c.CompanyName
	sec.Lines = fields(
		Field{Label: t("document.contact"), Value: contact},
		Field{Label: t("document.phone"), Value: c.Phone},
		Field{Label: t("document.email"), Value: c.Email},
		Field{Label: t("document.address"), Value: c.Address},
	)
	return sec
}

func buildItems(agg services.QuoteAggregate, t func(string) string) ItemsSection {
	sec := ItemsSection{
		NameLabel:        t("document.item.name"),
		DescriptionLabel: t("document.item.description"),
		QuantityLabel:    t("document.item.quantity"),
		UnitLabel:        t("document.item.unit"),
		UnitPriceLabel:   t("document.item.unit_price"),
		AmountLabel:      t("document.item.amount"),
	}
	for _, it := range agg.Items {
		sec.Rows = append(sec.Rows, ItemRow{
			Name:        it.ProductName,
			Description: BoldRuns(it.Description),
			Quantity:    FormatQuantity(it.Quantity),
			Unit:        it.Unit,
			UnitPrice:   FormatNTD(it.UnitPrice),
			Amount:      FormatNTD(services.LineAmount(it.Quantity, it.UnitPrice)),
		})
	}
	if len(sec.Rows) == 0 {
		sec.Empty = t("document.no_items")
	}
	return sec
}

func buildBank(agg services.QuoteAggregate, display services.BankDisplay, t func(string) string) BankSection {
	sec := BankSection{
		Heading: t("document.bank"),
		Image:   Image{Data: imageData(display.Image), Placeholder: t("document.placeholder.bank")},
	}
	if agg.Quote.BankID == nil {
		return sec
	}
	sec.Present = true
	if !agg.Bank.OK {
		return sec
	}
	b := agg.Bank.Value
	sec.Lines = fields(
		Field{Label: t("document.bank.bank_name"), Value: b.BankName},
		Field{Label: t("document.bank.branch"), Value: b.BranchName},
		Field{Label: t("document.bank.account_name"), Value: b.AccountName},
		Field{Label: t("document.bank.account_number"), Value: b.AccountNumber},
	)
	if display.ShowSwift && b.SwiftCode != "" {
		sec.Lines = append(sec.Lines, Field{Label: t("document.bank.swift"), Value: b.SwiftCode})
	}
	return sec
}

// fields drops entries whose value is empty.
func fields(fs ...Field) []Field {
	out := make([]Field, 0, len(fs))
	for _, f := range fs {
		if f.Value != "" {
			out = append(out, f)
		}
	}
	return out
}

// imageData admits only data: URIs. Anything else would break the
// self-contained guarantee of the exported HTML, so it is treated as a
// missing asset.
func imageData(s string) template.URL {
	if strings.HasPrefix(s, "data:image/") {
		return template.URL(s)
	}
	return ""
}

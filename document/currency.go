package document

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ntd = message.NewPrinter(language.TraditionalChinese)

// FormatNTD renders a monetary amount as New Taiwan dollars with
// thousands grouping, e.g. NT$1,234,567.5. Whole amounts drop the
// fraction entirely. Every money figure shown on a document goes
// through here so grouping stays consistent across surfaces.
func FormatNTD(v float64) string {
	return "NT$" + ntd.Sprint(number.Decimal(v,
		number.MinFractionDigits(0),
		number.MaxFractionDigits(2),
	))
}

// FormatQuantity renders an item quantity without trailing zeros.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatPercent renders a tax rate for the totals row, e.g. 5% or 2.5%.
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

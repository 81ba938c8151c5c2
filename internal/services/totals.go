package services

import (
	"github.com/cwhuang/quote-app/internal/models"
)

// DefaultTaxRate is the tax rate percentage applied when none is given.
const DefaultTaxRate = 5.0

// The totals functions below are the only place subtotal, tax and total
// are derived. The create/update path, the live form preview and the
// document renderer all go through them so the three contexts can never
// disagree on the same inputs.
//
// Amounts accumulate at full float64 precision; rounding happens only at
// display time in the money formatter.

// LineAmount computes one line's amount.
func LineAmount(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}

// Subtotal sums line amounts in slice order.
func Subtotal(items []models.QuoteItem) float64 {
	var sum float64
	for _, it := range items {
		sum += LineAmount(it.Quantity, it.UnitPrice)
	}
	return sum
}

// TaxAmount computes the tax portion from a subtotal and a percentage rate.
func TaxAmount(subtotal, taxRatePercent float64) float64 {
	return subtotal * (taxRatePercent / 100)
}

// Total combines subtotal and tax amount.
func Total(subtotal, taxAmount float64) float64 {
	return subtotal + taxAmount
}

// ComputeTotals derives all three figures for an item list at once.
func ComputeTotals(items []models.QuoteItem, taxRatePercent float64) (subtotal, tax, total float64) {
	subtotal = Subtotal(items)
	tax = TaxAmount(subtotal, taxRatePercent)
	total = Total(subtotal, tax)
	return subtotal, tax, total
}

// ItemFromProduct copies a product template into a fresh line item. The
// copy is complete and untied: later edits to the product do not affect
// the item, and whatever was previously entered on the row is replaced.
func ItemFromProduct(p models.Product, quantity float64) models.QuoteItem {
	id := p.ID
	return models.QuoteItem{
		ProductID:   &id,
		ProductName: p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Quantity:    quantity,
		UnitPrice:   p.DefaultPrice,
		Amount:      LineAmount(quantity, p.DefaultPrice),
	}
}

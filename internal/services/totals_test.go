package services

import (
	"testing"

	"github.com/cwhuang/quote-app/internal/models"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < epsilon && diff > -epsilon
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.QuoteItem
		taxRate      float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name: "two items at 5 percent",
			items: []models.QuoteItem{
				{Quantity: 2, UnitPrice: 100},
				{Quantity: 1, UnitPrice: 50},
			},
			taxRate:      5,
			wantSubtotal: 250,
			wantTax:      12.5,
			wantTotal:    262.5,
		},
		{
			name:         "empty items",
			items:        nil,
			taxRate:      5,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name: "zero rate",
			items: []models.QuoteItem{
				{Quantity: 3, UnitPrice: 99.9},
			},
			taxRate:      0,
			wantSubtotal: 299.7,
			wantTax:      0,
			wantTotal:    299.7,
		},
		{
			name: "hundred percent rate",
			items: []models.QuoteItem{
				{Quantity: 1, UnitPrice: 80},
			},
			taxRate:      100,
			wantSubtotal: 80,
			wantTax:      80,
			wantTotal:    160,
		},
		{
			name: "fractional quantity",
			items: []models.QuoteItem{
				{Quantity: 0.5, UnitPrice: 199},
				{Quantity: 2.25, UnitPrice: 40},
			},
			taxRate:      5,
			wantSubtotal: 189.5,
			wantTax:      9.475,
			wantTotal:    198.975,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal, tax, total := ComputeTotals(tt.items, tt.taxRate)
			if !almostEqual(subtotal, tt.wantSubtotal) {
				t.Errorf("subtotal = %f, want %f", subtotal, tt.wantSubtotal)
			}
			if !almostEqual(tax, tt.wantTax) {
				t.Errorf("tax = %f, want %f", tax, tt.wantTax)
			}
			if !almostEqual(total, tt.wantTotal) {
				t.Errorf("total = %f, want %f", total, tt.wantTotal)
			}
		})
	}
}

func TestSubtotal_SumsInOrderAtFullPrecision(t *testing.T) {
	items := []models.QuoteItem{
		{Quantity: 1.1, UnitPrice: 1.1},
		{Quantity: 2.2, UnitPrice: 2.2},
	}
	want := 1.1*1.1 + 2.2*2.2
	if got := Subtotal(items); got != want {
		t.Errorf("Subtotal() = %v, want exact %v", got, want)
	}
}

func TestItemFromProduct(t *testing.T) {
	p := models.Product{Name: "安裝工程", Description: "含基本配線", Unit: "件", DefaultPrice: 300}
	p.ID = 12

	item := ItemFromProduct(p, 1)

	if item.ProductID == nil || *item.ProductID != 12 {
		t.Fatalf("ProductID not copied: %v", item.ProductID)
	}
	if item.ProductName != "安裝工程" || item.Unit != "件" {
		t.Errorf("template fields not copied: %+v", item)
	}
	if item.UnitPrice != 300 || item.Amount != 300 {
		t.Errorf("price fields = (%f, %f), want (300, 300)", item.UnitPrice, item.Amount)
	}

	// the copy is untied from the template
	p.DefaultPrice = 999
	if item.UnitPrice != 300 {
		t.Errorf("item price changed after product edit")
	}
}

func TestItemFromProduct_ReplacesPreviousRowValues(t *testing.T) {
	p := models.Product{Name: "顧問服務", Unit: "時", DefaultPrice: 1500}
	p.ID = 3

	// simulate a row that had manual values before the product was selected
	row := models.QuoteItem{ProductName: "手動項目", Unit: "式", UnitPrice: 42, Quantity: 1}
	row = ItemFromProduct(p, row.Quantity)

	if row.ProductName != "顧問服務" || row.Unit != "時" || row.UnitPrice != 1500 {
		t.Errorf("row kept stale values: %+v", row)
	}
	if !almostEqual(row.Amount, 1500) {
		t.Errorf("amount = %f, want 1500", row.Amount)
	}
}

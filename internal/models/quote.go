package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// QuoteStatus represents the lifecycle status of a quote. There is no
// enforced transition graph: any status may be set to any other, only
// membership is validated.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected:
		return true
	}
	return false
}

// LabelCode returns the i18n message code for the status label.
func (s QuoteStatus) LabelCode() string {
	return "quote.status." + string(s)
}

// Quote is a priced offer composed of ordered line items. Customer, staff
// and bank rows are referenced, never owned: deleting a quote leaves them
// untouched, and a quote keeps rendering (with placeholder labels) if a
// referenced row disappears later.
type Quote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	// Number format: Q + YYYYMMDD + 3-digit per-user daily sequence.
	// Not backed by a uniqueness constraint.
	Number string `gorm:"size:50;index" json:"quote_number"`

	CustomerID uint      `gorm:"index;not null" json:"customer_id"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	StaffID *uint  `gorm:"index" json:"staff_id,omitempty"`
	Staff   *Staff `gorm:"foreignKey:StaffID" json:"staff,omitempty"`

	BankID *uint `gorm:"index" json:"bank_id,omitempty"`
	Bank   *Bank `gorm:"foreignKey:BankID" json:"bank,omitempty"`

	ContactPerson string     `gorm:"size:100" json:"contact_person,omitempty"`
	QuoteDate     time.Time  `gorm:"not null" json:"quote_date"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`

	// Totals are derived from the items in services and stored for listing
	// and filtering; the document renderer recomputes them on display.
	Subtotal  float64 `json:"subtotal"`
	TaxRate   float64 `gorm:"default:5" json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`

	Status QuoteStatus `gorm:"size:20;default:'draft';index" json:"status"`
	Notes  string      `gorm:"type:text" json:"notes,omitempty"`

	Items []QuoteItem `gorm:"foreignKey:QuoteID" json:"items,omitempty"`
}

// GetUserID implements the policy.Ownable interface.
func (q *Quote) GetUserID() uint {
	return q.UserID
}

// QuoteItem is a single priced row within a quote. Product fields are
// copied in at selection time; ProductID only records which template was
// used.
type QuoteItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	QuoteID uint   `gorm:"index;not null" json:"quote_id"`
	Quote   *Quote `gorm:"foreignKey:QuoteID" json:"-"`

	ProductID *uint `gorm:"index" json:"product_id,omitempty"`

	ProductName string  `gorm:"size:255;not null" json:"product_name"`
	Description string  `gorm:"size:1000" json:"description,omitempty"`
	Quantity    float64 `gorm:"not null;default:1" json:"quantity"`
	Unit        string  `gorm:"size:50" json:"unit,omitempty"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`

	// Amount is always quantity * unit_price, recomputed on every write.
	// Persisted because the store has no computed columns.
	Amount float64 `gorm:"not null" json:"amount"`

	// SortOrder fixes display order. Assigned at creation as the current
	// list index; not renumbered on delete.
	SortOrder int `gorm:"not null;default:0" json:"sort_order"`
}

// GenerateQuoteNumber generates the next quote number for one user and day.
// Format: QYYYYMMDDNNN (e.g. Q20250115001). The sequence counts existing
// numbers sharing the day prefix, so it restarts at 001 each day.
func GenerateQuoteNumber(db *gorm.DB, userID uint, date time.Time) (string, error) {
	prefix := "Q" + date.Format("20060102")
	var count int64
	err := db.Model(&Quote{}).
		Where("user_id = ? AND number LIKE ?", userID, prefix+"%").
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%03d", prefix, count+1), nil
}

package models

import "time"

// Bank is a remittance account shown in the quote document's payment block.
type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	BankName      string `gorm:"size:255;not null" json:"bank_name"`
	AccountName   string `gorm:"size:255;not null" json:"account_name"`
	AccountNumber string `gorm:"size:100;not null" json:"account_number"`
	BranchName    string `gorm:"size:255" json:"branch_name,omitempty"`
	SwiftCode     string `gorm:"size:50" json:"swift_code,omitempty"`
	Notes         string `gorm:"size:500" json:"notes,omitempty"`
}

// GetUserID implements the policy.Ownable interface.
func (b *Bank) GetUserID() uint {
	return b.UserID
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a reusable line-item template. Selecting a product copies its
// name, unit and default price into a quote item; no live link is kept
// afterward, so items survive later product edits or deletion. Products are
// soft-deleted to disappear from pickers without touching history.
type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name         string  `gorm:"size:255;not null;index" json:"name"`
	Description  string  `gorm:"size:500" json:"description,omitempty"`
	Unit         string  `gorm:"size:50" json:"unit,omitempty"`
	DefaultPrice float64 `gorm:"not null;default:0" json:"default_price"`
}

// GetUserID implements the policy.Ownable interface.
func (p *Product) GetUserID() uint {
	return p.UserID
}

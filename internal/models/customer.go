package models

import "time"

// Customer is a company a quote can be addressed to.
type Customer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	CompanyName   string `gorm:"size:255;not null;index" json:"company_name"`
	ContactPerson string `gorm:"size:100" json:"contact_person,omitempty"`
	Phone         string `gorm:"size:50" json:"phone,omitempty"`
	Email         string `gorm:"size:255" json:"email,omitempty"`
	Address       string `gorm:"size:500" json:"address,omitempty"`
}

// GetUserID implements the policy.Ownable interface.
func (c *Customer) GetUserID() uint {
	return c.UserID
}

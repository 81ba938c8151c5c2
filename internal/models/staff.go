package models

import "time"

// Staff is a person who can be named as the one responsible for a quote.
type Staff struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Title string `gorm:"size:100" json:"title,omitempty"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`
	Email string `gorm:"size:255" json:"email,omitempty"`
}

// GetUserID implements the policy.Ownable interface.
func (s *Staff) GetUserID() uint {
	return s.UserID
}

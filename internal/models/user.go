package models

import "time"

// User represents an authenticated user in the system.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"` // Hashed, never exposed in JSON
}

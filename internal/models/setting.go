package models

import "time"

// Setting is a key-value row holding one JSON blob. Used for the two
// process-wide display settings (company branding, bank display), read at
// render time, last writer wins.
type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

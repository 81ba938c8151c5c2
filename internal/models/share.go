package models

import "time"

// QuoteShare grants unauthenticated read-only access to one quote through
// an opaque token. A share is valid iff it is active and not past its
// expiry. Shares are never reactivated: sharing again mints a new token.
type QuoteShare struct {
	ShareID   string    `gorm:"primaryKey;size:36" json:"share_id"`
	CreatedAt time.Time `json:"created_at"`

	QuoteID uint   `gorm:"index;not null" json:"quote_id"`
	Quote   *Quote `gorm:"foreignKey:QuoteID" json:"-"`

	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// ValidAt reports whether the share resolves at the given instant.
func (s *QuoteShare) ValidAt(now time.Time) bool {
	if !s.IsActive {
		return false
	}
	if s.ExpiresAt != nil && !s.ExpiresAt.After(now) {
		return false
	}
	return true
}

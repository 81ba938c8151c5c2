package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cwhuang/quote-app/internal/models"
)

// ErrShareNotFound covers unknown, deactivated and expired tokens alike.
// The three causes are deliberately indistinguishable to the caller.
var ErrShareNotFound = errors.New("share not found or expired")

// ShareService manages public share tokens and resolves them to read-only
// quote aggregates.
type ShareService struct {
	db     *gorm.DB
	quotes *QuoteService
	now    func() time.Time
}

func NewShareService(db *gorm.DB, quotes *QuoteService) *ShareService {
	return &ShareService{db: db, quotes: quotes, now: time.Now}
}

// Create mints a new share token for one of the user's quotes. Tokens are
// never reused: sharing the same quote twice yields two distinct tokens.
func (s *ShareService) Create(ctx context.Context, userID, quoteID uint, expiresAt *time.Time) (*models.QuoteShare, error) {
	var quote models.Quote
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", quoteID, userID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("load quote: %w", err)
	}
	share := models.QuoteShare{
		ShareID:   uuid.NewString(),
		QuoteID:   quote.ID,
		IsActive:  true,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&share).Error; err != nil {
		return nil, fmt.Errorf("create share: %w", err)
	}
	return &share, nil
}

// List returns all shares of one of the user's quotes, newest first.
func (s *ShareService) List(ctx context.Context, userID, quoteID uint) ([]models.QuoteShare, error) {
	var quote models.Quote
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", quoteID, userID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("load quote: %w", err)
	}
	var shares []models.QuoteShare
	if err := s.db.WithContext(ctx).Where("quote_id = ?", quoteID).Order("created_at DESC").Find(&shares).Error; err != nil {
		return nil, fmt.Errorf("list shares: %w", err)
	}
	return shares, nil
}

// Deactivate turns a share off. There is no way back: resolving the token
// afterwards behaves exactly like a token that never existed.
func (s *ShareService) Deactivate(ctx context.Context, userID uint, shareID string) error {
	var share models.QuoteShare
	if err := s.db.WithContext(ctx).Where("share_id = ?", shareID).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShareNotFound
		}
		return fmt.Errorf("load share: %w", err)
	}
	// ownership check through the quote
	var quote models.Quote
	if err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", share.QuoteID, userID).First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShareNotFound
		}
		return fmt.Errorf("load quote: %w", err)
	}
	return s.db.WithContext(ctx).Model(&share).Update("is_active", false).Error
}

// Resolve maps a public token to a read-only aggregate. It runs without
// any session and performs its own fetches. Unknown, inactive and expired
// tokens all resolve to ErrShareNotFound and nothing is ever mutated.
func (s *ShareService) Resolve(ctx context.Context, token string) (QuoteAggregate, error) {
	var share models.QuoteShare
	if err := s.db.WithContext(ctx).Where("share_id = ?", token).First(&share).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuoteAggregate{}, ErrShareNotFound
		}
		return QuoteAggregate{}, fmt.Errorf("load share: %w", err)
	}
	if !share.ValidAt(s.now()) {
		return QuoteAggregate{}, ErrShareNotFound
	}
	var quote models.Quote
	if err := s.db.WithContext(ctx).First(&quote, share.QuoteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuoteAggregate{}, ErrShareNotFound
		}
		return QuoteAggregate{}, fmt.Errorf("load quote: %w", err)
	}
	return s.quotes.loadAggregate(ctx, quote)
}

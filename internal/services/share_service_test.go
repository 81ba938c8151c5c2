package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cwhuang/quote-app/internal/models"
)

func TestShareService_CreateAndResolve(t *testing.T) {
	db := setupServiceTestDB(t)
	user, customer, staff, bank := seedQuoteFixtures(t, db)
	quotes := NewQuoteService(db)
	shares := NewShareService(db, quotes)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, user.ID, validQuoteInput(customer, staff, bank))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	share, err := shares.Create(ctx, user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("create share: %v", err)
	}
	if share.ShareID == "" || !share.IsActive {
		t.Fatalf("unexpected share: %+v", share)
	}

	agg, err := shares.Resolve(ctx, share.ShareID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if agg.Quote.ID != quote.ID {
		t.Errorf("resolved quote = %d, want %d", agg.Quote.ID, quote.ID)
	}
	if len(agg.Items) != 2 {
		t.Errorf("resolved items = %d, want 2", len(agg.Items))
	}
	if !agg.Customer.OK {
		t.Errorf("customer should resolve")
	}

	// two shares of the same quote never reuse a token
	second, err := shares.Create(ctx, user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("second share: %v", err)
	}
	if second.ShareID == share.ShareID {
		t.Errorf("token reused")
	}
}

func TestShareService_InvalidTokensIndistinguishable(t *testing.T) {
	db := setupServiceTestDB(t)
	user, customer, staff, bank := seedQuoteFixtures(t, db)
	quotes := NewQuoteService(db)
	shares := NewShareService(db, quotes)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, user.ID, validQuoteInput(customer, staff, bank))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	shares.now = func() time.Time { return now }

	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	// expired even though still active
	expired := models.QuoteShare{ShareID: "expired-token", QuoteID: quote.ID, IsActive: true, ExpiresAt: &past}
	// deactivated even though expiry is in the future
	inactive := models.QuoteShare{ShareID: "inactive-token", QuoteID: quote.ID, IsActive: false, ExpiresAt: &future}
	for _, s := range []models.QuoteShare{expired, inactive} {
		if err := db.Create(&s).Error; err != nil {
			t.Fatalf("share fixture: %v", err)
		}
	}

	for _, token := range []string{"expired-token", "inactive-token", "never-existed"} {
		_, err := shares.Resolve(ctx, token)
		if !errors.Is(err, ErrShareNotFound) {
			t.Errorf("Resolve(%q) = %v, want ErrShareNotFound", token, err)
		}
	}
}

func TestShareService_Deactivate(t *testing.T) {
	db := setupServiceTestDB(t)
	user, customer, staff, bank := seedQuoteFixtures(t, db)
	quotes := NewQuoteService(db)
	shares := NewShareService(db, quotes)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, user.ID, validQuoteInput(customer, staff, bank))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	share, err := shares.Create(ctx, user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("create share: %v", err)
	}

	// only the owner may deactivate
	if err := shares.Deactivate(ctx, user.ID+1, share.ShareID); !errors.Is(err, ErrShareNotFound) {
		t.Fatalf("foreign deactivate = %v, want ErrShareNotFound", err)
	}
	if err := shares.Deactivate(ctx, user.ID, share.ShareID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if _, err := shares.Resolve(ctx, share.ShareID); !errors.Is(err, ErrShareNotFound) {
		t.Fatalf("resolve after deactivate = %v, want ErrShareNotFound", err)
	}

	// deactivation is permanent; a new share gets a new token
	again, err := shares.Create(ctx, user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("re-share: %v", err)
	}
	if again.ShareID == share.ShareID {
		t.Errorf("token must not be reused after deactivation")
	}
}

func TestShareService_ResolveSurvivesMissingCustomer(t *testing.T) {
	db := setupServiceTestDB(t)
	user, customer, staff, bank := seedQuoteFixtures(t, db)
	quotes := NewQuoteService(db)
	shares := NewShareService(db, quotes)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, user.ID, validQuoteInput(customer, staff, bank))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}
	share, err := shares.Create(ctx, user.ID, quote.ID, nil)
	if err != nil {
		t.Fatalf("create share: %v", err)
	}
	if err := db.Delete(&models.Customer{}, customer.ID).Error; err != nil {
		t.Fatalf("delete customer: %v", err)
	}

	agg, err := shares.Resolve(ctx, share.ShareID)
	if err != nil {
		t.Fatalf("resolve must tolerate missing customer: %v", err)
	}
	if agg.Customer.OK {
		t.Errorf("customer should be unresolved")
	}
}

func TestShareService_CreateRejectsForeignQuote(t *testing.T) {
	db := setupServiceTestDB(t)
	user, customer, staff, bank := seedQuoteFixtures(t, db)
	quotes := NewQuoteService(db)
	shares := NewShareService(db, quotes)
	ctx := context.Background()

	quote, err := quotes.Create(ctx, user.ID, validQuoteInput(customer, staff, bank))
	if err != nil {
		t.Fatalf("create quote: %v", err)
	}

	if _, err := shares.Create(ctx, user.ID+1, quote.ID, nil); !errors.Is(err, ErrQuoteNotFound) {
		t.Fatalf("foreign share create = %v, want ErrQuoteNotFound", err)
	}
}

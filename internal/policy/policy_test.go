package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/cwhuang/quote-app/auth"
	"github.com/cwhuang/quote-app/internal/models"
)

func authedCtx(userID uint) context.Context {
	return auth.WithUserID(context.Background(), userID)
}

func TestOwnershipPolicy(t *testing.T) {
	p := OwnershipPolicy{}
	ctx := context.Background()

	customer := &models.Customer{UserID: 7}
	if !p.Can(ctx, 7, ActionView, customer) {
		t.Error("owner must be allowed")
	}
	if p.Can(ctx, 8, ActionView, customer) {
		t.Error("non-owner must be denied")
	}
	if !p.Can(ctx, 7, ActionCreate, nil) {
		t.Error("nil resource (create/list) must be allowed")
	}
	if p.Can(ctx, 7, ActionView, struct{}{}) {
		t.Error("resources without an owner must be denied")
	}
}

func TestGateAuthorize(t *testing.T) {
	g := NewAppGate()
	quote := &models.Quote{UserID: 3}

	if err := g.Authorize(authedCtx(3), ActionUpdate, "quote", quote); err != nil {
		t.Errorf("owner denied: %v", err)
	}
	if err := g.Authorize(authedCtx(4), ActionUpdate, "quote", quote); !errors.Is(err, ErrDenied) {
		t.Errorf("foreign user: err = %v, want ErrDenied", err)
	}
	if err := g.Authorize(context.Background(), ActionView, "quote", quote); !errors.Is(err, ErrDenied) {
		t.Errorf("unauthenticated: err = %v, want ErrDenied", err)
	}
	if err := g.Authorize(authedCtx(3), ActionView, "unknown", quote); !errors.Is(err, ErrNoPolicyDefined) {
		t.Errorf("unregistered resource: err = %v, want ErrNoPolicyDefined", err)
	}
	if !g.Can(authedCtx(3), ActionDelete, "quote", quote) {
		t.Error("Can must mirror Authorize")
	}
}

func TestAppGateCoversResources(t *testing.T) {
	g := NewAppGate()
	resources := map[string]Ownable{
		"customer": &models.Customer{UserID: 5},
		"product":  &models.Product{UserID: 5},
		"staff":    &models.Staff{UserID: 5},
		"bank":     &models.Bank{UserID: 5},
		"quote":    &models.Quote{UserID: 5},
	}
	for name, res := range resources {
		if err := g.Authorize(authedCtx(5), ActionView, name, res); err != nil {
			t.Errorf("%s: owner denied: %v", name, err)
		}
		if err := g.Authorize(authedCtx(6), ActionView, name, res); err == nil {
			t.Errorf("%s: foreign user allowed", name)
		}
	}
}

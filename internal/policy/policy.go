// Package policy is the authorization checkpoint: every resource row is
// owned by the user who created it, and only that user may see or touch
// it. Policies are registered per resource type on a Gate; handlers call
// Authorize after loading a row and before acting on it.
package policy

import (
	"context"
	"errors"

	"github.com/cwhuang/quote-app/auth"
)

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Sentinel errors returned by Gate.Authorize.
var (
	ErrDenied          = errors.New("denied")
	ErrNoPolicyDefined = errors.New("no policy defined for resource")
)

// Ownable is implemented by models that carry their owner's user id.
type Ownable interface {
	GetUserID() uint
}

// Policy decides whether a user may perform an action on a resource.
// For list/create, resource may be nil (context-only check).
type Policy interface {
	Can(ctx context.Context, userID uint, action Action, resource any) bool
}

// OwnershipPolicy allows an action iff the resource belongs to the user.
// Resources that do not implement Ownable are denied, so a forgotten
// GetUserID never opens a row to everyone.
type OwnershipPolicy struct{}

func (OwnershipPolicy) Can(_ context.Context, userID uint, _ Action, resource any) bool {
	if resource == nil {
		return true
	}
	ownable, ok := resource.(Ownable)
	if !ok {
		return false
	}
	return ownable.GetUserID() == userID
}

// Gate is the registry of per-resource policies.
type Gate struct {
	policies map[string]Policy
}

func NewGate() *Gate {
	return &Gate{policies: make(map[string]Policy)}
}

// Register adds a policy for a resource type, replacing any existing one.
func (g *Gate) Register(resourceType string, p Policy) {
	g.policies[resourceType] = p
}

// Authorize checks the current user against the resource. The user comes
// from the request context; an unauthenticated context is always denied,
// and so is a resource type nobody registered a policy for.
func (g *Gate) Authorize(ctx context.Context, action Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok || userID == 0 {
		return ErrDenied
	}
	p, ok := g.policies[resourceType]
	if !ok {
		return ErrNoPolicyDefined
	}
	if !p.Can(ctx, userID, action, resource) {
		return ErrDenied
	}
	return nil
}

// Can is Authorize with a bool result.
func (g *Gate) Can(ctx context.Context, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, action, resourceType, resource) == nil
}

// NewAppGate returns the gate with the application's resource types
// registered under the ownership rule.
func NewAppGate() *Gate {
	g := NewGate()
	owned := OwnershipPolicy{}
	for _, resource := range []string{"customer", "product", "staff", "bank", "quote"} {
		g.Register(resource, owned)
	}
	return g
}

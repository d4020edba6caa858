// Package auth defines the authorization contract the order engine consumes.
// The engine only cares whether a check passes; how grants are stored is an
// implementation concern.
package auth

import (
	"context"
	"fmt"
	"sync"

	dErrors "orderflow/pkg/domain-errors"
	"orderflow/pkg/requestcontext"
)

// Scope narrows a permission check to a shop.
type Scope struct {
	ShopID string
}

// Authorizer answers capability checks for the calling account. A nil error
// means the action is allowed.
type Authorizer interface {
	ValidatePermissions(ctx context.Context, resource, action string, scope Scope) error
}

// ErrAccessDenied is returned on every failed check so callers cannot probe
// which part of the check failed.
var ErrAccessDenied = dErrors.New(dErrors.CodeForbidden, "access denied")

// StaticAuthorizer grants actions from an in-memory capability map keyed by
// account id. Grants are shop-scoped; an empty shop id in a grant matches
// any scope.
type StaticAuthorizer struct {
	mu     sync.RWMutex
	grants map[string][]grant
}

type grant struct {
	action string
	shopID string
}

func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{grants: make(map[string][]grant)}
}

// Grant allows accountID to perform action within shopID. Pass an empty
// shopID for a global grant.
func (a *StaticAuthorizer) Grant(accountID, action, shopID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.grants[accountID] = append(a.grants[accountID], grant{action: action, shopID: shopID})
}

func (a *StaticAuthorizer) ValidatePermissions(ctx context.Context, resource, action string, scope Scope) error {
	accountID := requestcontext.UserID(ctx)
	if accountID == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no authenticated account")
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, g := range a.grants[accountID] {
		if g.action != action {
			continue
		}
		if g.shopID == "" || g.shopID == scope.ShopID {
			return nil
		}
	}
	return fmt.Errorf("%s on %s: %w", action, resource, ErrAccessDenied)
}

package operator

import (
	"context"

	dErrors "orderflow/pkg/domain-errors"
)

var (
	// ErrGroupNotFound keeps group lookups consistent across implementations.
	ErrGroupNotFound = dErrors.New(dErrors.CodeNotFound, "group not found")

	// ErrAccountNotFound covers both a missing account and an account that
	// is not a member of the requested group; callers cannot distinguish
	// the two, which avoids leaking membership information.
	ErrAccountNotFound = dErrors.New(dErrors.CodeNotFound, "account with provided role does not exist")
)

// GroupStore looks up role groups within a shop.
type GroupStore interface {
	FindByIDAndShop(ctx context.Context, groupID, shopID string) (*Group, error)
}

// AccountStore looks up accounts constrained by group membership.
type AccountStore interface {
	FindByIDInGroup(ctx context.Context, accountID, groupID string) (*Account, error)
}

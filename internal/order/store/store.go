package store

import (
	"context"

	"orderflow/internal/order/models"
	dErrors "orderflow/pkg/domain-errors"
)

var (
	// ErrNotFound keeps storage-specific 404s consistent across the
	// in-memory and postgres implementations.
	ErrNotFound = dErrors.New(dErrors.CodeNotFound, "order not found")

	// ErrNoEffect is returned when a conditional update matched the order
	// but the driver reported zero documents modified. Callers must treat
	// this as a failed write, never as success.
	ErrNoEffect = dErrors.New(dErrors.CodeInternal, "order update had no effect")
)

// OrderStore is the single-document atomic persistence contract the engine
// relies on. UpdateOne applies the whole patch conditionally by order id so
// concurrent transitions serialize at the storage layer.
type OrderStore interface {
	FindByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOne(ctx context.Context, id string, patch *models.Patch) (*models.Order, error)
	Insert(ctx context.Context, order *models.Order) error
}

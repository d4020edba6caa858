package store

import (
	"context"
	"sync"

	"orderflow/internal/order/models"
	dErrors "orderflow/pkg/domain-errors"
)

// InMemory keeps orders in a mutex-guarded map. It favors clarity over
// performance and backs unit tests and local runs; patch application happens
// under the write lock, which gives the same single-document atomicity the
// postgres implementation gets from a conditional UPDATE.
type InMemory struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	writes int
}

func NewInMemory() *InMemory {
	return &InMemory{orders: make(map[string]*models.Order)}
}

func (s *InMemory) Insert(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; ok {
		return dErrors.New(dErrors.CodeConflict, "order already exists")
	}
	s.orders[order.ID] = order.Clone()
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if order, ok := s.orders[id]; ok {
		return order.Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *InMemory) UpdateOne(_ context.Context, id string, patch *models.Patch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(order)
	s.writes++
	return order.Clone(), nil
}

// Writes reports how many conditional updates have been applied. Tests use
// it to assert the zero-store-write properties of the engine.
func (s *InMemory) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/order/models"
	dErrors "orderflow/pkg/domain-errors"
)

func newStoredOrder(id string) *models.Order {
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	return &models.Order{
		ID:        id,
		ShopID:    "shop-1",
		Email:     "buyer@example.com",
		Workflow:  models.Workflow{Status: models.StatusNew, History: []string{models.StatusNew}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInMemory_FindByID(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Insert(ctx, newStoredOrder("o1")))

	order, err := s.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)

	_, err = s.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemory_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Insert(ctx, newStoredOrder("o1")))

	err := s.Insert(ctx, newStoredOrder("o1"))
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestInMemory_UpdateOne(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Insert(ctx, newStoredOrder("o1")))

	status := models.StatusShipped
	updated, err := s.UpdateOne(ctx, "o1", &models.Patch{
		Status:         &status,
		AppendWorkflow: true,
		UpdatedAt:      time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusShipped, updated.Workflow.Status)
	assert.Equal(t, []string{models.StatusNew, models.StatusShipped}, updated.Workflow.History)
	assert.Equal(t, 1, s.Writes())

	_, err = s.UpdateOne(ctx, "missing", &models.Patch{UpdatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Writes())
}

func TestInMemory_UpdateDoesNotAliasCaller(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Insert(ctx, newStoredOrder("o1")))

	updated, err := s.UpdateOne(ctx, "o1", &models.Patch{
		Notes:     []models.Note{{Content: "leave at door", AuthorID: "acct-1"}},
		UpdatedAt: time.Now(),
	})
	require.NoError(t, err)

	updated.Notes[0].Content = "mutated by caller"
	reread, err := s.FindByID(ctx, "o1")
	require.NoError(t, err)
	assert.Equal(t, "leave at door", reread.Notes[0].Content)
}

func TestInMemory_ConcurrentUpdatesSerialize(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	require.NoError(t, s.Insert(ctx, newStoredOrder("o1")))

	var wg sync.WaitGroup
	statuses := []string{models.StatusProcessing, models.StatusShipped, models.StatusException}
	for _, status := range statuses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.UpdateOne(ctx, "o1", &models.Patch{
				Status:         &status,
				AppendWorkflow: true,
				UpdatedAt:      time.Now(),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	order, err := s.FindByID(ctx, "o1")
	require.NoError(t, err)
	// Whatever the interleaving, the current status is the last history entry.
	assert.Equal(t, order.Workflow.Status, order.Workflow.History[len(order.Workflow.History)-1])
	assert.Equal(t, 3, s.Writes())
}

package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/internal/order/models"
)

func TestBus_DeliversToRegisteredHandlers(t *testing.T) {
	bus := NewBus()

	var (
		mu       sync.Mutex
		received []Event
	)
	bus.On(AfterOrderUpdate, func(_ context.Context, event Event) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, event)
		return nil
	})

	order := &models.Order{ID: "ord-1"}
	bus.Emit(context.Background(), Event{Name: AfterOrderUpdate, Order: order, UpdatedBy: "acc-1"})
	bus.Emit(context.Background(), Event{Name: AfterOrderCancel, Order: order})
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "ord-1", received[0].Order.ID)
	assert.Equal(t, "acc-1", received[0].UpdatedBy)
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestBus_CloseDrainsQueuedEvents(t *testing.T) {
	bus := NewBus(WithBuffer(16))

	var (
		mu    sync.Mutex
		count int
	)
	bus.On(AfterOrderCreate, func(_ context.Context, _ Event) error {
		mu.Lock()
		defer mu.Unlock()
		count++
		return nil
	})

	for i := 0; i < 10; i++ {
		bus.Emit(context.Background(), Event{Name: AfterOrderCreate})
	}
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, count)
}

func TestBus_EmitAfterCloseDoesNotPanic(t *testing.T) {
	bus := NewBus()
	bus.Close()

	assert.NotPanics(t, func() {
		bus.Emit(context.Background(), Event{Name: AfterOrderUpdate})
	})
}

func TestBus_HandlerFailureDoesNotStopLaterDeliveries(t *testing.T) {
	bus := NewBus()

	delivered := make(chan struct{}, 2)
	bus.On(AfterOrderUpdate, func(_ context.Context, _ Event) error {
		return errors.New("boom")
	})
	bus.On(AfterOrderUpdate, func(_ context.Context, _ Event) error {
		delivered <- struct{}{}
		return nil
	})

	bus.Emit(context.Background(), Event{Name: AfterOrderUpdate})
	bus.Emit(context.Background(), Event{Name: AfterOrderUpdate})
	bus.Close()

	assert.Len(t, delivered, 2)
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.On(AfterOrderCancel, func(_ context.Context, _ Event) error {
		panic("handler bug")
	})
	bus.On(AfterOrderCancel, func(_ context.Context, _ Event) error {
		close(done)
		return nil
	})

	bus.Emit(context.Background(), Event{Name: AfterOrderCancel})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second handler never ran")
	}
	bus.Close()
}

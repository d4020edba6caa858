//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"orderflow/internal/events"
	"orderflow/internal/order/models"
	"orderflow/pkg/testutil/containers"
)

func TestPublisher_PublishesLifecycleEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rp := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	publisher, err := NewPublisher(ctx, []string{rp.Broker})
	require.NoError(t, err)

	bus := events.NewBus()
	publisher.Register(bus)

	order := &models.Order{
		ID:       "ord-1",
		ShopID:   "shop-1",
		Workflow: models.Workflow{Status: models.StatusShipped, History: []string{"new", "shipped"}},
	}
	bus.Emit(ctx, events.Event{
		Name:      events.AfterOrderUpdate,
		Order:     order,
		UpdatedBy: "dr-1",
		Timestamp: time.Now().UTC(),
	})
	bus.Close()
	require.NoError(t, publisher.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(DefaultTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "ord-1", string(records[0].Key))

	var event events.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &event))
	assert.Equal(t, events.AfterOrderUpdate, event.Name)
	assert.Equal(t, "dr-1", event.UpdatedBy)
	assert.Equal(t, models.StatusShipped, event.Order.Workflow.Status)
}

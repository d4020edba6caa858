// Package kafka publishes order lifecycle events to a Kafka topic. The
// publisher hangs off the event bus as one more handler, so a broker outage
// degrades to dropped events rather than failed mutations.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"orderflow/internal/events"
)

// DefaultTopic carries every lifecycle event, keyed by order id so events
// for one order stay in partition order.
const DefaultTopic = "orderflow.lifecycle"

// Publisher writes lifecycle events to Kafka as JSON.
type Publisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// Option configures a Publisher.
type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithTopic(topic string) Option {
	return func(p *Publisher) {
		p.topic = topic
	}
}

// NewPublisher connects to the brokers and ensures the topic exists.
func NewPublisher(ctx context.Context, brokers []string, opts ...Option) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	p := &Publisher{
		client: client,
		topic:  DefaultTopic,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.ensureTopic(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return p, nil
}

func (p *Publisher) ensureTopic(ctx context.Context) error {
	admin := kadm.NewClient(p.client)
	responses, err := admin.CreateTopics(ctx, 1, 1, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", p.topic, err)
	}
	for _, response := range responses {
		if response.Err != nil && !errors.Is(response.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", response.Topic, response.Err)
		}
	}
	return nil
}

// Register attaches the publisher to the bus for all three lifecycle events.
func (p *Publisher) Register(bus *events.Bus) {
	bus.On(events.AfterOrderCreate, p.Handle)
	bus.On(events.AfterOrderUpdate, p.Handle)
	bus.On(events.AfterOrderCancel, p.Handle)
}

// Handle serializes one event onto the topic. Produce failures are logged by
// the callback; Handle itself never blocks on broker acknowledgement.
func (p *Publisher) Handle(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal lifecycle event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Value: payload,
	}
	if event.Order != nil {
		record.Key = []byte(event.Order.ID)
	}

	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("produce lifecycle event failed", "event", event.Name, "error", err)
		}
	})
	return nil
}

// Close flushes buffered records and releases the client.
func (p *Publisher) Close(ctx context.Context) error {
	defer p.client.Close()
	if err := p.client.Flush(ctx); err != nil {
		return fmt.Errorf("flush kafka producer: %w", err)
	}
	return nil
}

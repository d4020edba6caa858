// Package notify routes lifecycle events to a templated-notification sink.
// Delivery is best-effort: a failed send is logged and counted, never
// surfaced to the mutation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/events"
	"orderflow/internal/platform/metrics"
)

// Message is one templated notification.
type Message struct {
	TemplateID string         `json:"templateId"`
	Recipient  string         `json:"recipient"`
	Language   string         `json:"language,omitempty"`
	NotBefore  *time.Time     `json:"notBefore,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// Sink delivers templated messages. Rendering and transport live behind it.
type Sink interface {
	SendTemplatedMessage(ctx context.Context, msg Message) error
}

// LogSink writes notifications to the log instead of delivering them. It is
// the default sink for deployments without a mail integration.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) SendTemplatedMessage(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "notification",
		"template", msg.TemplateID,
		"recipient", msg.Recipient,
		"language", msg.Language,
	)
	return nil
}

// Dispatcher subscribes to order lifecycle events and turns them into
// templated messages. The support address is fixed at construction.
type Dispatcher struct {
	sink         Sink
	supportEmail string
	logger       *slog.Logger
	metrics      *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithSupportEmail sets the operator address that receives a copy of every
// order-created notification. Empty disables the copy.
func WithSupportEmail(addr string) Option {
	return func(d *Dispatcher) {
		d.supportEmail = addr
	}
}

func NewDispatcher(sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register subscribes the dispatcher to the three lifecycle events. Call it
// once at startup.
func (d *Dispatcher) Register(bus *events.Bus) {
	bus.On(events.AfterOrderCreate, d.HandleCreated)
	bus.On(events.AfterOrderUpdate, d.HandleUpdated)
	bus.On(events.AfterOrderCancel, d.HandleCanceled)
}

// HandleCreated notifies the customer and, when a support address is
// configured, sends the new-admin copy with the recipient overridden.
func (d *Dispatcher) HandleCreated(ctx context.Context, event events.Event) error {
	if event.Order == nil {
		return nil
	}
	d.send(ctx, event, event.Action, event.Order.Email)
	if d.supportEmail != "" {
		d.send(ctx, event, "new-admin", d.supportEmail)
	}
	return nil
}

func (d *Dispatcher) HandleUpdated(ctx context.Context, event events.Event) error {
	if event.Order == nil {
		return nil
	}
	d.send(ctx, event, event.Action, event.Order.Email)
	return nil
}

func (d *Dispatcher) HandleCanceled(ctx context.Context, event events.Event) error {
	if event.Order == nil {
		return nil
	}
	action := event.Action
	if action == "" {
		action = "canceled"
	}
	d.send(ctx, event, action, event.Order.Email)
	return nil
}

func (d *Dispatcher) send(ctx context.Context, event events.Event, action, recipient string) {
	if recipient == "" {
		d.logger.WarnContext(ctx, "notification skipped: no recipient",
			"event", event.Name,
			"order_id", event.Order.ID,
		)
		return
	}

	template := templateFor(action, event.Order.Workflow.Status)
	err := d.sink.SendTemplatedMessage(ctx, Message{
		TemplateID: template,
		Recipient:  recipient,
		Language:   event.Order.Language,
		Data: map[string]any{
			"order": event.Order,
		},
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "notification dispatch failed",
			"template", template,
			"order_id", event.Order.ID,
			"error", err,
		)
		d.metrics.IncrementNotificationsFailed()
		return
	}
	d.metrics.IncrementNotificationsSent(template)
}

// templateFor maps an explicit action to its template, falling back to the
// order's current workflow status.
func templateFor(action, status string) string {
	switch action {
	case "shipped", "refunded", "itemRefund", "completed", "new-admin", "canceled":
		return "orders/" + action
	}
	return "orders/" + status
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	OrdersUpdated          prometheus.Counter
	OrdersAssigned         *prometheus.CounterVec
	TransitionsRejected    *prometheus.CounterVec
	NotificationsSent      *prometheus.CounterVec
	NotificationsFailed    prometheus.Counter
	DiscountsComputed      prometheus.Counter
	LifecycleEventsDropped prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		OrdersUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orderflow_orders_updated_total",
			Help: "Total number of persisted order transitions",
		}),
		OrdersAssigned: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orderflow_orders_assigned_total",
			Help: "Total number of role assignments, by role",
		}, []string{"role"}),
		TransitionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orderflow_transitions_rejected_total",
			Help: "Total number of rejected transitions, by error code",
		}, []string{"code"}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "orderflow_notifications_sent_total",
			Help: "Total number of templated notifications dispatched, by template",
		}, []string{"template"}),
		NotificationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orderflow_notifications_failed_total",
			Help: "Total number of notification dispatch failures (swallowed)",
		}),
		DiscountsComputed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orderflow_discounts_computed_total",
			Help: "Total number of fulfillment-group discount computations",
		}),
		LifecycleEventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "orderflow_lifecycle_events_dropped_total",
			Help: "Total number of lifecycle events dropped because the bus buffer was full",
		}),
	}
}

// IncrementOrdersUpdated increments the persisted-transition counter by 1.
func (m *Metrics) IncrementOrdersUpdated() {
	if m == nil {
		return
	}
	m.OrdersUpdated.Inc()
}

// IncrementOrdersAssigned increments the assignment counter for a role.
func (m *Metrics) IncrementOrdersAssigned(role string) {
	if m == nil {
		return
	}
	m.OrdersAssigned.WithLabelValues(role).Inc()
}

// IncrementTransitionsRejected increments the rejection counter for a code.
func (m *Metrics) IncrementTransitionsRejected(code string) {
	if m == nil {
		return
	}
	m.TransitionsRejected.WithLabelValues(code).Inc()
}

// IncrementNotificationsSent increments the per-template dispatch counter.
func (m *Metrics) IncrementNotificationsSent(template string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(template).Inc()
}

// IncrementNotificationsFailed increments the swallowed-failure counter.
func (m *Metrics) IncrementNotificationsFailed() {
	if m == nil {
		return
	}
	m.NotificationsFailed.Inc()
}

// IncrementDiscountsComputed increments the discount computation counter.
func (m *Metrics) IncrementDiscountsComputed() {
	if m == nil {
		return
	}
	m.DiscountsComputed.Inc()
}

// IncrementLifecycleEventsDropped increments the dropped-event counter.
func (m *Metrics) IncrementLifecycleEventsDropped() {
	if m == nil {
		return
	}
	m.LifecycleEventsDropped.Inc()
}

// Package service implements the order transition engine and the assignment
// service. All mutations funnel through a single conditional store update so
// concurrent writers to the same order serialize at the storage layer.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"orderflow/internal/auth"
	"orderflow/internal/events"
	"orderflow/internal/operator"
	"orderflow/internal/order/models"
	"orderflow/internal/order/store"
	"orderflow/internal/platform/metrics"
	dErrors "orderflow/pkg/domain-errors"
	"orderflow/pkg/requestcontext"
)

// Publisher is the slice of the event bus the service needs.
type Publisher interface {
	Emit(ctx context.Context, event events.Event)
}

// Service mutates orders under role-scoped authorization rules.
type Service struct {
	orders     store.OrderStore
	groups     operator.GroupStore
	accounts   operator.AccountStore
	authorizer auth.Authorizer
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(
	orders store.OrderStore,
	groups operator.GroupStore,
	accounts operator.AccountStore,
	authorizer auth.Authorizer,
	publisher Publisher,
	opts ...Option,
) *Service {
	s := &Service{
		orders:     orders,
		groups:     groups,
		accounts:   accounts,
		authorizer: authorizer,
		publisher:  publisher,
		logger:     slog.Default(),
		tracer:     otel.Tracer("orderflow/order/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateOrder applies a role-gated patch to an order. The caller is resolved
// from the request context; which fields the patch may touch depends on the
// role the request claims via AssignedTo. When nothing observable changes
// the stored order is returned untouched, with no write and no event.
func (s *Service) UpdateOrder(ctx context.Context, req *models.UpdateOrderRequest) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.update")
	defer span.End()

	updated, err := s.updateOrder(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrementTransitionsRejected(string(dErrors.CodeOf(err)))
		return nil, err
	}
	return updated, nil
}

func (s *Service) updateOrder(ctx context.Context, req *models.UpdateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	callerID := requestcontext.UserID(ctx)

	// Every path needs the delivery-info capability before the role branch
	// is even consulted.
	if err := s.authorizer.ValidatePermissions(ctx, orderResource(order.ID), "update:deliveryInfo", auth.Scope{ShopID: order.ShopID}); err != nil {
		return nil, err
	}

	policy, err := s.authorizeRole(ctx, order, req, callerID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	patch := buildPatch(order, req, policy, callerID, now)
	if patch.IsEmpty() {
		return order, nil
	}

	updated, err := s.orders.UpdateOne(ctx, order.ID, patch)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unable to update order")
	}

	s.metrics.IncrementOrdersUpdated()
	s.logger.InfoContext(ctx, "order updated",
		"order_id", updated.ID,
		"status", updated.Workflow.Status,
		"updated_by", callerID,
		"request_id", requestcontext.RequestID(ctx),
	)

	s.publisher.Emit(ctx, events.Event{
		Name:      events.AfterOrderUpdate,
		Order:     updated,
		UpdatedBy: callerID,
		Timestamp: now,
	})
	return updated, nil
}

// CancelOrder transitions an order to canceled through the same engine and
// emits afterOrderCancel. Canceling an already-canceled order is a no-op.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.cancel")
	defer span.End()

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := s.authorizer.ValidatePermissions(ctx, orderResource(order.ID), "update", auth.Scope{ShopID: order.ShopID}); err != nil {
		span.RecordError(err)
		s.metrics.IncrementTransitionsRejected(string(dErrors.CodeOf(err)))
		return nil, err
	}

	if order.Workflow.Status == models.StatusCanceled {
		return order, nil
	}

	now := requestcontext.Now(ctx)
	status := models.StatusCanceled
	updated, err := s.orders.UpdateOne(ctx, order.ID, &models.Patch{
		Status:         &status,
		AppendWorkflow: true,
		UpdatedAt:      now,
	})
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unable to update order")
	}

	callerID := requestcontext.UserID(ctx)
	s.metrics.IncrementOrdersUpdated()
	s.logger.InfoContext(ctx, "order canceled",
		"order_id", updated.ID,
		"updated_by", callerID,
		"request_id", requestcontext.RequestID(ctx),
	)

	s.publisher.Emit(ctx, events.Event{
		Name:      events.AfterOrderCancel,
		Order:     updated,
		UpdatedBy: callerID,
		Action:    "canceled",
		Timestamp: now,
	})
	return updated, nil
}

// EmitCreated publishes the afterOrderCreate event for an order produced by
// an external placement process. No store access happens here.
func (s *Service) EmitCreated(ctx context.Context, order *models.Order) {
	s.publisher.Emit(ctx, events.Event{
		Name:      events.AfterOrderCreate,
		Order:     order,
		Timestamp: requestcontext.Now(ctx),
	})
}

// FindByID is a read-back convenience for the transport layer.
func (s *Service) FindByID(ctx context.Context, orderID string) (*models.Order, error) {
	return s.orders.FindByID(ctx, orderID)
}

func (s *Service) authorizeRole(ctx context.Context, order *models.Order, req *models.UpdateOrderRequest, callerID string) (rolePolicy, error) {
	policy := rolePolicies[req.AssignedTo]

	if policy.assignee == nil {
		// Owner path: gated by the generic update capability.
		if err := s.authorizer.ValidatePermissions(ctx, orderResource(order.ID), "update", auth.Scope{ShopID: order.ShopID}); err != nil {
			return rolePolicy{}, err
		}
		return policy, nil
	}

	if callerID == "" || policy.assignee(order) != callerID {
		return rolePolicy{}, dErrors.New(dErrors.CodeForbidden, "order is not assigned to the caller")
	}
	if req.Status != "" && policy.allowedStatuses != nil {
		if _, ok := policy.allowedStatuses[req.Status]; !ok {
			return rolePolicy{}, dErrors.New(dErrors.CodeForbidden, "caller cannot set status "+req.Status)
		}
	}
	return policy, nil
}

func buildPatch(order *models.Order, req *models.UpdateOrderRequest, policy rolePolicy, callerID string, now time.Time) *models.Patch {
	patch := &models.Patch{UpdatedAt: now}

	if req.Email != "" && policy.writable.allows(fieldEmail) {
		patch.Email = &req.Email
	}
	if req.AccountID != "" && policy.writable.allows(fieldAccountID) {
		patch.AccountID = &req.AccountID
	}
	if req.CustomFields != nil && policy.writable.allows(fieldCustomFields) {
		patch.CustomFields = req.CustomFields
	}
	if req.AlternativePhone != "" && policy.writable.allows(fieldAlternativePhone) {
		patch.AlternativePhone = &req.AlternativePhone
	}
	if req.PreferredDeliveryDate != nil && policy.writable.allows(fieldPreferredDeliveryDate) {
		patch.PreferredDeliveryDate = req.PreferredDeliveryDate
		// A new delivery date resets the urgency classification.
		urgency := ""
		patch.DeliveryUrgency = &urgency
	}

	if req.Notes != nil {
		patch.Notes = mergeNotes(order.Notes, req.Notes, callerID, now)
	}

	if req.Status != "" && req.Status != order.Workflow.Status {
		patch.Status = &req.Status
		patch.AppendWorkflow = true
	}

	return patch
}

func orderResource(orderID string) string {
	return "orders:" + orderID
}

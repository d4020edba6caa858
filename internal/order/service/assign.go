package service

import (
	"context"

	"orderflow/internal/auth"
	"orderflow/internal/order/models"
	dErrors "orderflow/pkg/domain-errors"
	"orderflow/pkg/requestcontext"
)

// ErrInvalidGroup reports a group that exists but is not the one named after
// the requested role. The mismatch is surfaced rather than silently ignored.
var ErrInvalidGroup = dErrors.New(dErrors.CodeInvalidGroup, "invalid group is being assigned")

// Assign binds an operator account to one of the order's role slots. The
// account must belong to a group in the shop whose name literally equals the
// role's label. Assignment does not touch workflow status or notes, and it
// intentionally emits no lifecycle event.
func (s *Service) Assign(ctx context.Context, req *models.AssignOrderRequest) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.assign")
	defer span.End()

	updated, err := s.assign(ctx, req)
	if err != nil {
		span.RecordError(err)
		s.metrics.IncrementTransitionsRejected(string(dErrors.CodeOf(err)))
		return nil, err
	}
	return updated, nil
}

func (s *Service) assign(ctx context.Context, req *models.AssignOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.ValidatePermissions(ctx, orderResource(order.ID), "assign:"+string(req.Role), auth.Scope{ShopID: req.ShopID}); err != nil {
		return nil, err
	}

	group, err := s.groups.FindByIDAndShop(ctx, req.GroupID, req.ShopID)
	if err != nil {
		return nil, err
	}
	if group.Name != req.Role.GroupLabel() {
		return nil, ErrInvalidGroup
	}

	account, err := s.accounts.FindByIDInGroup(ctx, req.AccountID, group.ID)
	if err != nil {
		return nil, err
	}

	patch := &models.Patch{UpdatedAt: requestcontext.Now(ctx)}
	switch req.Role {
	case models.RoleFulfillmentManager:
		patch.FulfillmentManager = &account.ID
	case models.RoleDeliveryRepresentative:
		patch.DeliveryRepresentative = &account.ID
	}

	updated, err := s.orders.UpdateOne(ctx, order.ID, patch)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "unable to update order")
	}

	s.metrics.IncrementOrdersAssigned(string(req.Role))
	s.logger.InfoContext(ctx, "order assigned",
		"order_id", updated.ID,
		"role", string(req.Role),
		"account_id", account.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return updated, nil
}

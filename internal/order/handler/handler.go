// Package handler exposes the order mutation surface over HTTP. Handlers
// stay thin: decode, delegate, encode. All domain rules live in the service.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"orderflow/internal/order/models"
	dErrors "orderflow/pkg/domain-errors"
	"orderflow/pkg/platform/httputil"
	"orderflow/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks

// Service defines the order operations the transport layer needs.
type Service interface {
	UpdateOrder(ctx context.Context, req *models.UpdateOrderRequest) (*models.Order, error)
	Assign(ctx context.Context, req *models.AssignOrderRequest) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*models.Order, error)
	FindByID(ctx context.Context, orderID string) (*models.Order, error)
}

// Handler wires order endpoints to the order service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an order handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts order endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/orders/{orderID}", h.HandleGet)
	r.Patch("/orders/{orderID}", h.HandleUpdate)
	r.Post("/orders/{orderID}/assignments", h.HandleAssign)
	r.Post("/orders/{orderID}/cancel", h.HandleCancel)
}

// OrderResponse wraps an order for transport.
type OrderResponse struct {
	Order *models.Order `json:"order"`
}

// HandleGet handles GET /orders/{orderID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := h.service.FindByID(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OrderResponse{Order: order})
}

// HandleUpdate handles PATCH /orders/{orderID} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req models.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.OrderID = chi.URLParam(r, "orderID")

	order, err := h.service.UpdateOrder(ctx, &req)
	if err != nil {
		h.logger.WarnContext(ctx, "order update rejected",
			"request_id", requestID,
			"order_id", req.OrderID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order update handled",
		"request_id", requestID,
		"order_id", order.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, OrderResponse{Order: order})
}

// HandleAssign handles POST /orders/{orderID}/assignments requests.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	var req models.AssignOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	req.OrderID = chi.URLParam(r, "orderID")

	order, err := h.service.Assign(ctx, &req)
	if err != nil {
		h.logger.WarnContext(ctx, "order assignment rejected",
			"request_id", requestID,
			"order_id", req.OrderID,
			"role", string(req.Role),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "order assignment handled",
		"request_id", requestID,
		"order_id", order.ID,
		"role", string(req.Role),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, OrderResponse{Order: order})
}

// HandleCancel handles POST /orders/{orderID}/cancel requests.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	order, err := h.service.CancelOrder(ctx, chi.URLParam(r, "orderID"))
	if err != nil {
		h.logger.WarnContext(ctx, "order cancel rejected",
			"request_id", requestID,
			"order_id", chi.URLParam(r, "orderID"),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, OrderResponse{Order: order})
}

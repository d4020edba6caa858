package models

import (
	"time"

	dErrors "orderflow/pkg/domain-errors"
)

// UpdateOrderRequest is the patch accepted by the transition engine. All
// fields except OrderID are optional; AssignedTo selects which role policy
// gates the request.
type UpdateOrderRequest struct {
	OrderID               string         `json:"orderId"`
	Email                 string         `json:"email,omitempty"`
	AccountID             string         `json:"accountId,omitempty"`
	Status                string         `json:"status,omitempty"`
	AssignedTo            Role           `json:"assignedTo,omitempty"`
	Notes                 []NoteInput    `json:"notes,omitempty"`
	CustomFields          map[string]any `json:"customFields,omitempty"`
	PreferredDeliveryDate *time.Time     `json:"preferredDeliveryDate,omitempty"`
	AlternativePhone      string         `json:"alternativePhone,omitempty"`
}

// Validate checks structural requirements before any store access.
func (r *UpdateOrderRequest) Validate() error {
	if r.OrderID == "" {
		return dErrors.New(dErrors.CodeValidation, "orderId is required")
	}
	if r.AssignedTo != "" && !r.AssignedTo.Valid() {
		return dErrors.New(dErrors.CodeValidation, "assignedTo must be a known role")
	}
	return nil
}

// AssignOrderRequest binds an operator account to an order's role slot.
type AssignOrderRequest struct {
	ShopID    string `json:"shopId"`
	OrderID   string `json:"orderId"`
	AccountID string `json:"accountId"`
	GroupID   string `json:"groupId"`
	Role      Role   `json:"role"`
}

// Validate checks structural requirements before any store access.
func (r *AssignOrderRequest) Validate() error {
	switch {
	case r.ShopID == "":
		return dErrors.New(dErrors.CodeValidation, "shopId is required")
	case r.OrderID == "":
		return dErrors.New(dErrors.CodeValidation, "orderId is required")
	case r.AccountID == "":
		return dErrors.New(dErrors.CodeValidation, "accountId is required")
	case r.GroupID == "":
		return dErrors.New(dErrors.CodeValidation, "groupId is required")
	case !r.Role.Valid():
		return dErrors.New(dErrors.CodeValidation, "role must be a known role")
	}
	return nil
}

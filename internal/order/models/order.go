package models

import (
	"time"
)

// Known workflow statuses. The status set is tenant-extensible, so these are
// conventions rather than an enum; the engine only hard-codes the
// delivery-representative allow-list.
const (
	StatusNew        = "new"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusCompleted  = "completed"
	StatusException  = "exception"
	StatusCanceled   = "canceled"
)

// Role names the two operator assignment slots on an order.
type Role string

const (
	RoleFulfillmentManager     Role = "fulfillmentManager"
	RoleDeliveryRepresentative Role = "deliveryRepresentative"
)

// GroupLabel is the operator-group name an account must belong to before it
// can be bound to the role's slot. The match is literal.
func (r Role) GroupLabel() string {
	switch r {
	case RoleFulfillmentManager:
		return "fulfillment manager"
	case RoleDeliveryRepresentative:
		return "delivery representative"
	}
	return ""
}

// Valid reports whether the role is one of the two assignment slots.
func (r Role) Valid() bool {
	return r == RoleFulfillmentManager || r == RoleDeliveryRepresentative
}

// Note is one annotation entry on an order. Position in the slice is
// meaningful; the merge logic aligns client submissions by index.
type Note struct {
	Content   string    `json:"content"`
	AuthorID  string    `json:"authorId"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteInput is a client-submitted annotation entry. IsModified marks entries
// whose content the client changed; unmodified entries keep their stored
// provenance.
type NoteInput struct {
	Content    string `json:"content"`
	IsModified bool   `json:"isModified"`
}

// Workflow tracks the current status plus every status the order has ever
// entered, in order, without dedup.
type Workflow struct {
	Status  string   `json:"status"`
	History []string `json:"history"`
}

// Advance sets a new status and appends it to the history. Setting the
// current status again is a no-op so repeated submissions stay idempotent.
func (w *Workflow) Advance(status string) bool {
	if status == "" || status == w.Status {
		return false
	}
	w.Status = status
	w.History = append(w.History, status)
	return true
}

// Order is the root aggregate mutated by the transition engine. Assignment
// fields hold account IDs; empty means unassigned.
type Order struct {
	ID                     string         `json:"id"`
	ShopID                 string         `json:"shopId"`
	AccountID              string         `json:"accountId"`
	Email                  string         `json:"email"`
	AlternativePhone       string         `json:"alternativePhone"`
	PreferredDeliveryDate  *time.Time     `json:"preferredDeliveryDate,omitempty"`
	DeliveryUrgency        string         `json:"deliveryUrgency"`
	FulfillmentManager     string         `json:"fulfillmentManager"`
	DeliveryRepresentative string         `json:"deliveryRepresentative"`
	CustomFields           map[string]any `json:"customFields,omitempty"`
	Notes                  []Note         `json:"notes,omitempty"`
	Workflow               Workflow       `json:"workflow"`
	Language               string         `json:"language,omitempty"`
	CreatedAt              time.Time      `json:"createdAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
}

// Assignee returns the account bound to the given role slot.
func (o *Order) Assignee(role Role) string {
	switch role {
	case RoleFulfillmentManager:
		return o.FulfillmentManager
	case RoleDeliveryRepresentative:
		return o.DeliveryRepresentative
	}
	return ""
}

// Clone returns a deep copy so stores can hand out orders without aliasing
// their internal state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	if o.PreferredDeliveryDate != nil {
		t := *o.PreferredDeliveryDate
		cp.PreferredDeliveryDate = &t
	}
	if o.CustomFields != nil {
		cp.CustomFields = make(map[string]any, len(o.CustomFields))
		for k, v := range o.CustomFields {
			cp.CustomFields[k] = v
		}
	}
	cp.Notes = append([]Note(nil), o.Notes...)
	cp.Workflow.History = append([]string(nil), o.Workflow.History...)
	return &cp
}

package models

import (
	"time"
)

// Patch is the set of field changes one transition applies. Nil pointer (or
// nil map/slice) means "leave unchanged"; the store applies the whole patch
// in a single conditional update so concurrent writers cannot interleave
// field writes on the same order.
type Patch struct {
	Email                  *string
	AccountID              *string
	AlternativePhone       *string
	PreferredDeliveryDate  *time.Time
	DeliveryUrgency        *string
	CustomFields           map[string]any
	Notes                  []Note
	Status                 *string
	AppendWorkflow         bool
	FulfillmentManager     *string
	DeliveryRepresentative *string
	UpdatedAt              time.Time
}

// IsEmpty reports whether the patch carries nothing beyond the UpdatedAt
// touch. The engine short-circuits such patches without a store write.
func (p *Patch) IsEmpty() bool {
	return p.Email == nil &&
		p.AccountID == nil &&
		p.AlternativePhone == nil &&
		p.PreferredDeliveryDate == nil &&
		p.DeliveryUrgency == nil &&
		p.CustomFields == nil &&
		p.Notes == nil &&
		p.Status == nil &&
		p.FulfillmentManager == nil &&
		p.DeliveryRepresentative == nil
}

// Apply writes the patch onto an order in place. Shared by the in-memory
// store and by tests; the postgres store translates the same patch to SQL.
func (p *Patch) Apply(o *Order) {
	if p.Email != nil {
		o.Email = *p.Email
	}
	if p.AccountID != nil {
		o.AccountID = *p.AccountID
	}
	if p.AlternativePhone != nil {
		o.AlternativePhone = *p.AlternativePhone
	}
	if p.PreferredDeliveryDate != nil {
		t := *p.PreferredDeliveryDate
		o.PreferredDeliveryDate = &t
	}
	if p.DeliveryUrgency != nil {
		o.DeliveryUrgency = *p.DeliveryUrgency
	}
	if p.CustomFields != nil {
		o.CustomFields = p.CustomFields
	}
	if p.Notes != nil {
		o.Notes = p.Notes
	}
	if p.Status != nil {
		if p.AppendWorkflow {
			o.Workflow.Advance(*p.Status)
		} else {
			o.Workflow.Status = *p.Status
		}
	}
	if p.FulfillmentManager != nil {
		o.FulfillmentManager = *p.FulfillmentManager
	}
	if p.DeliveryRepresentative != nil {
		o.DeliveryRepresentative = *p.DeliveryRepresentative
	}
	if !p.UpdatedAt.IsZero() {
		o.UpdatedAt = p.UpdatedAt
	}
}

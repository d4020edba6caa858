package service

import (
	"orderflow/internal/order/models"
)

// field enumerates the patchable order fields gated by role policy.
type field int

const (
	fieldEmail field = iota
	fieldAccountID
	fieldCustomFields
	fieldAlternativePhone
	fieldPreferredDeliveryDate
)

type fieldSet map[field]struct{}

func (s fieldSet) allows(f field) bool {
	_, ok := s[f]
	return ok
}

// rolePolicy captures what one assignedTo branch may do: who may act, which
// statuses they may request, and which fields they may write. Fields outside
// the writable set are filtered from the patch, not rejected; a disallowed
// status is rejected outright.
type rolePolicy struct {
	// assignee resolves the account that owns this policy on a given order.
	// Nil means the caller is gated by the generic update capability instead
	// of slot ownership.
	assignee func(*models.Order) string

	// allowedStatuses restricts which statuses may be requested. Nil means
	// any status.
	allowedStatuses map[string]struct{}

	writable fieldSet
}

var rolePolicies = map[models.Role]rolePolicy{
	models.RoleDeliveryRepresentative: {
		assignee: func(o *models.Order) string { return o.DeliveryRepresentative },
		allowedStatuses: map[string]struct{}{
			models.StatusShipped:   {},
			models.StatusCompleted: {},
			models.StatusException: {},
		},
		writable: fieldSet{},
	},
	models.RoleFulfillmentManager: {
		assignee: func(o *models.Order) string { return o.FulfillmentManager },
		writable: fieldSet{
			fieldEmail:                 {},
			fieldCustomFields:          {},
			fieldAlternativePhone:      {},
			fieldPreferredDeliveryDate: {},
		},
	},
	"": {
		writable: fieldSet{
			fieldEmail:                 {},
			fieldAccountID:             {},
			fieldCustomFields:          {},
			fieldAlternativePhone:      {},
			fieldPreferredDeliveryDate: {},
		},
	},
}

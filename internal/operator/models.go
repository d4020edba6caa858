// Package operator holds the tenant-scoped role groupings and the accounts
// that belong to them. Group membership is the sole authorization signal the
// assignment flow consults.
package operator

// Group is a named role grouping scoped to a shop, e.g. "delivery
// representative". The name is matched literally against the role label
// during assignment.
type Group struct {
	ID     string
	ShopID string
	Name   string
}

// Account is the slice of an operator account this service consults: its id
// and the groups it belongs to. The account of record lives elsewhere.
type Account struct {
	ID       string
	GroupIDs []string
}

// InGroup reports whether the account is a member of the given group.
func (a *Account) InGroup(groupID string) bool {
	for _, id := range a.GroupIDs {
		if id == groupID {
			return true
		}
	}
	return false
}

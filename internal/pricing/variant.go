// Package pricing resolves catalog variant prices across currencies and
// computes fulfillment-group discounts. Money is decimal throughout; a nil
// amount means "not priced", never zero.
package pricing

import (
	"github.com/shopspring/decimal"
)

// PriceRange is one currency's price tuple for a variant. Any of the three
// amounts may be absent. CurrencyCode tags which currency the amounts are
// in; callers must check it rather than assume it matches their request.
type PriceRange struct {
	Min          *decimal.Decimal `json:"minPrice,omitempty"`
	Max          *decimal.Decimal `json:"maxPrice,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	CurrencyCode string           `json:"currencyCode,omitempty"`
}

// IsEmpty reports whether the range carries no amounts at all.
func (p PriceRange) IsEmpty() bool {
	return p.Min == nil && p.Max == nil && p.Price == nil
}

// CatalogVariant is the slice of a catalog entry the resolver consumes.
// Pricing is keyed by currency code; CurrencyCode is the variant's native
// currency, falling back to the shop default when empty.
type CatalogVariant struct {
	ID           string                `json:"id"`
	ShopID       string                `json:"shopId"`
	CurrencyCode string                `json:"currencyCode,omitempty"`
	Pricing      map[string]PriceRange `json:"pricing"`
}

package pricing

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	dErrors "orderflow/pkg/domain-errors"
)

// ShopCurrencies resolves a shop's default currency, used when a variant
// does not carry its own currency code.
type ShopCurrencies interface {
	DefaultCurrency(ctx context.Context, shopID string) (string, error)
}

// StaticShopCurrencies is a fixed shop-to-currency table for tests and
// single-tenant deployments.
type StaticShopCurrencies map[string]string

func (s StaticShopCurrencies) DefaultCurrency(_ context.Context, shopID string) (string, error) {
	currency, ok := s[shopID]
	if !ok {
		return "", dErrors.New(dErrors.CodeNotFound, "shop not found")
	}
	return currency, nil
}

// Resolver prices catalog variants in a requested currency, converting from
// the variant's native currency when no precomputed entry exists.
type Resolver struct {
	shops  ShopCurrencies
	rates  RateSource
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func NewResolver(shops ShopCurrencies, rates RateSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		shops:  shops,
		rates:  rates,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PriceFor returns the variant's price tuple in the requested currency. A
// precomputed entry wins; otherwise the native-currency tuple is converted
// with an exchange rate. Without a rate the native tuple is returned tagged
// with its native currency code. Missing inputs are programming errors, not
// user errors.
func (r *Resolver) PriceFor(ctx context.Context, variant *CatalogVariant, currencyCode string) (PriceRange, error) {
	if currencyCode == "" {
		return PriceRange{}, dErrors.New(dErrors.CodeInternal, "no currency code supplied")
	}
	if variant == nil {
		return PriceRange{}, dErrors.New(dErrors.CodeInternal, "no catalog variant supplied")
	}
	if variant.Pricing == nil {
		return PriceRange{}, dErrors.New(dErrors.CodeInternal, "catalog variant "+variant.ID+" has no pricing information saved")
	}

	if hit, ok := variant.Pricing[currencyCode]; ok {
		hit.CurrencyCode = currencyCode
		return hit, nil
	}

	native := variant.CurrencyCode
	if native == "" {
		shopCurrency, err := r.shops.DefaultCurrency(ctx, variant.ShopID)
		if err != nil {
			return PriceRange{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve shop currency")
		}
		native = shopCurrency
	}

	nativePricing, ok := variant.Pricing[native]
	if !ok {
		// No native pricing means no conversion is possible.
		return PriceRange{}, nil
	}

	rate, found, err := r.rates.Rate(ctx, native, currencyCode)
	if err != nil {
		return PriceRange{}, dErrors.Wrap(err, dErrors.CodeInternal, "resolve exchange rate")
	}
	if !found {
		r.logger.WarnContext(ctx, "no exchange rate, returning native pricing",
			"variant_id", variant.ID,
			"native", native,
			"requested", currencyCode,
		)
		nativePricing.CurrencyCode = native
		return nativePricing, nil
	}

	return PriceRange{
		Min:          convert(nativePricing.Min, rate),
		Max:          convert(nativePricing.Max, rate),
		Price:        convert(nativePricing.Price, rate),
		CurrencyCode: currencyCode,
	}, nil
}

// convert multiplies an amount by a rate, preserving absence.
func convert(amount *decimal.Decimal, rate decimal.Decimal) *decimal.Decimal {
	if amount == nil {
		return nil
	}
	converted := amount.Mul(rate)
	return &converted
}

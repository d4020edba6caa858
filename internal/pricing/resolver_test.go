package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "orderflow/pkg/domain-errors"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func testVariant() *CatalogVariant {
	return &CatalogVariant{
		ID:           "var-1",
		ShopID:       "shop-1",
		CurrencyCode: "EUR",
		Pricing: map[string]PriceRange{
			"EUR": {Min: dec("10"), Max: dec("20"), Price: dec("15")},
		},
	}
}

func TestResolver_PriceFor(t *testing.T) {
	shops := StaticShopCurrencies{"shop-1": "EUR"}

	t.Run("precomputed table hit wins", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{})
		variant := testVariant()
		variant.Pricing["USD"] = PriceRange{Price: dec("18.50")}

		got, err := resolver.PriceFor(context.Background(), variant, "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", got.CurrencyCode)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("18.50")))
	})

	t.Run("converts native pricing with available rate", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{"EUR:USD": decimal.RequireFromString("4")})

		got, err := resolver.PriceFor(context.Background(), testVariant(), "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", got.CurrencyCode)
		assert.True(t, got.Min.Equal(decimal.RequireFromString("40")))
		assert.True(t, got.Max.Equal(decimal.RequireFromString("80")))
		assert.True(t, got.Price.Equal(decimal.RequireFromString("60")))
	})

	t.Run("no rate returns native pricing tagged native", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{})

		got, err := resolver.PriceFor(context.Background(), testVariant(), "USD")
		require.NoError(t, err)
		assert.Equal(t, "EUR", got.CurrencyCode)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("15")))
	})

	t.Run("absent amounts stay absent after conversion", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{"EUR:USD": decimal.RequireFromString("2")})
		variant := testVariant()
		variant.Pricing["EUR"] = PriceRange{Price: dec("15")}

		got, err := resolver.PriceFor(context.Background(), variant, "USD")
		require.NoError(t, err)
		assert.Nil(t, got.Min)
		assert.Nil(t, got.Max)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("30")))
	})

	t.Run("falls back to shop default currency", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{"EUR:NGN": decimal.RequireFromString("1700")})
		variant := testVariant()
		variant.CurrencyCode = ""

		got, err := resolver.PriceFor(context.Background(), variant, "NGN")
		require.NoError(t, err)
		assert.Equal(t, "NGN", got.CurrencyCode)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("25500")))
	})

	t.Run("no native pricing yields empty range", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{})
		variant := testVariant()
		variant.CurrencyCode = "GBP"

		got, err := resolver.PriceFor(context.Background(), variant, "USD")
		require.NoError(t, err)
		assert.True(t, got.IsEmpty())
		assert.Empty(t, got.CurrencyCode)
	})

	t.Run("missing currency code is an internal error", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{})
		_, err := resolver.PriceFor(context.Background(), testVariant(), "")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("missing variant is an internal error", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{})
		_, err := resolver.PriceFor(context.Background(), nil, "USD")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("missing pricing table is an internal error", func(t *testing.T) {
		resolver := NewResolver(shops, StaticRates{})
		_, err := resolver.PriceFor(context.Background(), &CatalogVariant{ID: "var-2"}, "USD")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})

	t.Run("unknown shop surfaces as internal error", func(t *testing.T) {
		resolver := NewResolver(StaticShopCurrencies{}, StaticRates{})
		variant := testVariant()
		variant.CurrencyCode = ""

		_, err := resolver.PriceFor(context.Background(), variant, "USD")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

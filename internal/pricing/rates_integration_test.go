//go:build integration

package pricing

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderflow/pkg/testutil/containers"
)

func TestRedisRates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	rates := NewRedisRates(rc.Client)

	t.Run("missing key means no rate", func(t *testing.T) {
		rate, found, err := rates.Rate(ctx, "EUR", "USD")
		require.NoError(t, err)
		assert.False(t, found)
		assert.True(t, rate.IsZero())
	})

	t.Run("stored rate is returned", func(t *testing.T) {
		require.NoError(t, rc.Client.Set(ctx, "forex:EUR:USD", "1.0850", 0).Err())

		rate, found, err := rates.Rate(ctx, "EUR", "USD")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, rate.Equal(decimal.RequireFromString("1.0850")))
	})

	t.Run("lookup is case insensitive on currency codes", func(t *testing.T) {
		require.NoError(t, rc.Client.Set(ctx, "forex:EUR:NGN", "1700", 0).Err())

		rate, found, err := rates.Rate(ctx, "eur", "ngn")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, rate.Equal(decimal.RequireFromString("1700")))
	})

	t.Run("garbage value is an error", func(t *testing.T) {
		require.NoError(t, rc.Client.Set(ctx, "forex:EUR:GBP", "not-a-number", 0).Err())

		_, _, err := rates.Rate(ctx, "EUR", "GBP")
		assert.Error(t, err)
	})

	t.Run("resolver converts through redis rates", func(t *testing.T) {
		require.NoError(t, rc.Client.Set(ctx, "forex:EUR:USD", "4", 0).Err())
		resolver := NewResolver(StaticShopCurrencies{"shop-1": "EUR"}, rates)

		got, err := resolver.PriceFor(ctx, testVariant(), "USD")
		require.NoError(t, err)
		assert.Equal(t, "USD", got.CurrencyCode)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("60")))
	})
}

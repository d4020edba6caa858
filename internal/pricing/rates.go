package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RateSource supplies exchange rates. The boolean reports whether a rate
// exists; a missing rate is not an error, the resolver falls back to the
// native currency in that case.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, bool, error)
}

// StaticRates is a fixed in-memory rate table keyed by "FROM:TO". It backs
// tests and deployments without a live forex feed.
type StaticRates map[string]decimal.Decimal

func (r StaticRates) Rate(_ context.Context, from, to string) (decimal.Decimal, bool, error) {
	rate, ok := r[rateKey(from, to)]
	return rate, ok, nil
}

// RedisRates reads exchange rates from redis keys of the form
// forex:<FROM>:<TO>, holding the rate as a decimal string. A missing key
// means no rate.
type RedisRates struct {
	client *redis.Client
}

func NewRedisRates(client *redis.Client) *RedisRates {
	return &RedisRates{client: client}
}

func (r *RedisRates) Rate(ctx context.Context, from, to string) (decimal.Decimal, bool, error) {
	raw, err := r.client.Get(ctx, "forex:"+rateKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("fetch exchange rate %s->%s: %w", from, to, err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse exchange rate %s->%s: %w", from, to, err)
	}
	return rate, true, nil
}

func rateKey(from, to string) string {
	return strings.ToUpper(from) + ":" + strings.ToUpper(to)
}

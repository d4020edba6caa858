package pricing

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"orderflow/internal/platform/metrics"
	dErrors "orderflow/pkg/domain-errors"
)

// Discount is one applied discount record. FulfillmentGroupID is stamped by
// the calculator, not by evaluators.
type Discount struct {
	ID                 string          `json:"id"`
	Label              string          `json:"label,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	CurrencyCode       string          `json:"currencyCode"`
	FulfillmentGroupID string          `json:"fulfillmentGroupId,omitempty"`
}

// LineItem is one priced line within a fulfillment group.
type LineItem struct {
	VariantID string          `json:"variantId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// FulfillmentGroup is the shipment-level grouping the calculator mutates.
// Only the two discount fields are ever written here; everything else is
// owned by the external order-placement process.
type FulfillmentGroup struct {
	ID            string          `json:"id"`
	CurrencyCode  string          `json:"currencyCode"`
	Items         []LineItem      `json:"items"`
	Discounts     []Discount      `json:"discounts"`
	DiscountTotal decimal.Decimal `json:"discountTotal"`
}

// CommonOrder is the normalized view of a fulfillment group handed to
// discount evaluators.
type CommonOrder struct {
	OrderID            string          `json:"orderId,omitempty"`
	AccountID          string          `json:"accountId,omitempty"`
	CartID             string          `json:"cartId,omitempty"`
	CurrencyCode       string          `json:"currencyCode"`
	FulfillmentGroupID string          `json:"fulfillmentGroupId"`
	Items              []LineItem      `json:"items"`
	DiscountTotal      decimal.Decimal `json:"discountTotal"`
}

// CommonOrderFrom normalizes a fulfillment group for evaluator consumption.
func CommonOrderFrom(group *FulfillmentGroup, orderID, accountID, cartID string) CommonOrder {
	return CommonOrder{
		OrderID:            orderID,
		AccountID:          accountID,
		CartID:             cartID,
		CurrencyCode:       group.CurrencyCode,
		FulfillmentGroupID: group.ID,
		Items:              group.Items,
		DiscountTotal:      group.DiscountTotal,
	}
}

// Evaluator is one pluggable discount rule.
type Evaluator interface {
	GroupDiscounts(ctx context.Context, order CommonOrder) ([]Discount, error)
}

// Result is the outcome of one discount computation.
type Result struct {
	Discounts []Discount
	Total     decimal.Decimal
}

// Calculator runs the registered evaluators over a fulfillment group. The
// evaluator list is fixed at composition time; zero evaluators is a valid
// configuration that yields an empty result.
type Calculator struct {
	evaluators []Evaluator
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

func WithCalculatorLogger(logger *slog.Logger) CalculatorOption {
	return func(c *Calculator) {
		c.logger = logger
	}
}

func WithCalculatorMetrics(m *metrics.Metrics) CalculatorOption {
	return func(c *Calculator) {
		c.metrics = m
	}
}

func NewCalculator(evaluators []Evaluator, opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		evaluators: evaluators,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DiscountsFor collects every evaluator's discounts for the group, tagging
// each record with the group id, and sums their amounts.
func (c *Calculator) DiscountsFor(ctx context.Context, group *FulfillmentGroup, order CommonOrder) (Result, error) {
	result := Result{
		Discounts: make([]Discount, 0),
		Total:     decimal.Zero,
	}

	for _, evaluator := range c.evaluators {
		discounts, err := evaluator.GroupDiscounts(ctx, order)
		if err != nil {
			return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "evaluate group discounts")
		}
		for _, discount := range discounts {
			discount.FulfillmentGroupID = group.ID
			result.Discounts = append(result.Discounts, discount)
			result.Total = result.Total.Add(discount.Amount)
		}
	}

	c.metrics.IncrementDiscountsComputed()
	return result, nil
}

// ApplyToGroup computes the group's discounts and writes them onto the
// group, touching only the discount fields.
func (c *Calculator) ApplyToGroup(ctx context.Context, group *FulfillmentGroup, order CommonOrder) error {
	result, err := c.DiscountsFor(ctx, group, order)
	if err != nil {
		return err
	}
	group.Discounts = result.Discounts
	group.DiscountTotal = result.Total
	return nil
}

// Package pricing is the single implementation of the margin math used
// anywhere in the service. Margin is markup on cost: (price - cost) / cost.
package pricing

import "github.com/shopspring/decimal"

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// MarginFromCostPrice returns the margin percentage for the given cost and
// price. No margin is defined without both a positive cost and a positive
// price; those cases return zero.
func MarginFromCostPrice(cost, price decimal.Decimal) decimal.Decimal {
	if cost.Sign() <= 0 || price.Sign() <= 0 {
		return decimal.Zero
	}
	return price.Sub(cost).Div(cost).Mul(hundred)
}

// PriceFromCostMargin returns the selling price for the given cost and margin
// percentage. A non-positive cost yields zero; a non-positive margin applies
// no markup and returns the cost unchanged.
func PriceFromCostMargin(cost, margin decimal.Decimal) decimal.Decimal {
	if cost.Sign() <= 0 {
		return decimal.Zero
	}
	if margin.Sign() <= 0 {
		return cost
	}
	return cost.Mul(one.Add(margin.Div(hundred)))
}

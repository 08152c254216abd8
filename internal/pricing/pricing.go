// Package pricing implements the store's discount rule.
package pricing

import "github.com/shopspring/decimal"

var (
	minDiscount = decimal.Zero
	maxDiscount = decimal.NewFromInt(90)
	hundred     = decimal.NewFromInt(100)
)

// ClampDiscount limits percent to [0, 90].
func ClampDiscount(percent decimal.Decimal) decimal.Decimal {
	if percent.LessThan(minDiscount) {
		return minDiscount
	}
	if percent.GreaterThan(maxDiscount) {
		return maxDiscount
	}
	return percent
}

// DiscountedPrice returns price reduced by percent, rounded half away from
// zero to cents. percent is clamped to [0, 90] first.
func DiscountedPrice(price, percent decimal.Decimal) decimal.Decimal {
	p := ClampDiscount(percent)
	return price.Mul(hundred.Sub(p)).Div(hundred).Round(2)
}

// LineTotal is quantity × unitPrice.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

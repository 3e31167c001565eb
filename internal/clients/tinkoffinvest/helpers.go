package tinkoffinvest

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CountLots counts sum of orders' lots not executed yet.
func CountLots(orders []Order) int {
	var result int
	for _, o := range orders {
		result += o.RequestedLots - o.ExecutedLots
	}
	return result
}

// RoundToMinPriceIncrement rounds price to the nearest step multiple.
func RoundToMinPriceIncrement(price, step decimal.Decimal) decimal.Decimal {
	if step.IsNegative() {
		panic(fmt.Sprintf("invalid usage of RoundToMinPriceIncrement: step: %s < 0", step.String()))
	}
	if step.IsZero() {
		return price
	}
	return price.Div(step).Round(0).Mul(step)
}

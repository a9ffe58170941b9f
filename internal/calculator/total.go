// Package calculator holds the pure money math of the shop: line subtotals,
// order totals and bulk quotes. Nothing here touches shared state.
package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/shopfront/internal/models"
)

// MaxAmount bounds every line subtotal and order total the shop accepts.
const MaxAmount = 1e12

var maxAmount = decimal.NewFromFloat(MaxAmount)

// checkPrice rejects prices that cannot be priced: NaN, infinities and negatives.
func checkPrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return fmt.Errorf("price must be a finite number")
	}
	if price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// checkAmount rejects amounts above MaxAmount.
func checkAmount(what string, amount decimal.Decimal) error {
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%s exceeds %s", what, maxAmount.String())
	}
	return nil
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// LineSubtotal computes round(price*quantity, 2).
func LineSubtotal(price float64, quantity int) float64 {
	return lineSubtotal(price, quantity).InexactFloat64()
}

func lineSubtotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// OrderTotal sums the rounded line subtotals and rounds the result to two decimals.
// Based on: total = round(Σ round(price_i × qty_i, 2), 2)
func OrderTotal(lines []models.LineItem) float64 {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(lineSubtotal(l.Price, l.Quantity))
	}
	f, _ := sum.Round(2).Float64()
	return f
}

// PriceLines fills in every line's Subtotal and returns the order total.
// Lines are modified in place.
func PriceLines(lines []models.LineItem) float64 {
	for i := range lines {
		lines[i].Subtotal = LineSubtotal(lines[i].Price, lines[i].Quantity)
	}
	return OrderTotal(lines)
}

// ValidateLines checks that every line has a name, a finite non-negative price
// and a positive quantity, and that no subtotal or the total exceeds MaxAmount.
// It stops at the first invalid line.
func ValidateLines(lines []models.LineItem) error {
	if len(lines) == 0 {
		return fmt.Errorf("order must have at least one item")
	}
	total := decimal.Zero
	for i, l := range lines {
		if l.Name == "" && l.ItemID == "" {
			return fmt.Errorf("item %d: name or item_id is required", i)
		}
		if err := checkPrice(l.Price); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be a positive integer", i)
		}
		sub := lineSubtotal(l.Price, l.Quantity)
		if err := checkAmount("subtotal", sub); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		total = total.Add(sub)
	}
	return checkAmount("order total", total)
}

package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuoteLine is one requested line of a bulk quote.
type QuoteLine struct {
	Name      string
	UnitPrice float64
	Quantity  int
}

// QuotedLine is the priced breakdown of one QuoteLine.
type QuotedLine struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	Gross        float64 `json:"gross"`
	DiscountRate float64 `json:"discount_rate"`
	Discount     float64 `json:"discount"`
	LineTotal    float64 `json:"line_total"`
}

// Quote is the result of pricing a bulk order.
type Quote struct {
	Items    []QuotedLine `json:"items"`
	Subtotal float64      `json:"subtotal"`
	Discount float64      `json:"discount"`
	Total    float64      `json:"total"`
}

// discountTier maps a minimum quantity to a discount rate.
type discountTier struct {
	minQty int
	rate   string
}

// tiers are ordered from the largest threshold down.
var tiers = []discountTier{
	{minQty: 100, rate: "0.15"},
	{minQty: 50, rate: "0.10"},
	{minQty: 10, rate: "0.05"},
}

// DiscountRate returns the quantity-tier discount for qty units of one item.
func DiscountRate(qty int) float64 {
	return discountRate(qty).InexactFloat64()
}

func discountRate(qty int) decimal.Decimal {
	for _, t := range tiers {
		if qty >= t.minQty {
			return decimal.RequireFromString(t.rate)
		}
	}
	return decimal.Zero
}

// CalculateQuote prices a bulk order with per-line quantity-tier discounts.
//
// Algorithm, per line:
//
//	gross     = round(unit_price × qty, 2)
//	discount  = round(gross × tier_rate(qty), 2)
//	line_total = gross − discount
//
// Subtotal, Discount and Total are the sums over all lines.
func CalculateQuote(lines []QuoteLine) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, fmt.Errorf("must have at least one item")
	}

	q := Quote{Items: make([]QuotedLine, 0, len(lines))}
	subtotal, discount := decimal.Zero, decimal.Zero

	for _, l := range lines {
		if l.Quantity <= 0 {
			return Quote{}, fmt.Errorf("quantity for %q must be a positive integer", l.Name)
		}
		if err := checkPrice(l.UnitPrice); err != nil {
			return Quote{}, fmt.Errorf("unit %s for %q", err, l.Name)
		}

		rate := discountRate(l.Quantity)
		gross := lineSubtotal(l.UnitPrice, l.Quantity)
		if err := checkAmount(fmt.Sprintf("line total for %q", l.Name), gross); err != nil {
			return Quote{}, err
		}
		off := gross.Mul(rate).Round(2)

		q.Items = append(q.Items, QuotedLine{
			Name:         l.Name,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			Gross:        gross.InexactFloat64(),
			DiscountRate: rate.InexactFloat64(),
			Discount:     off.InexactFloat64(),
			LineTotal:    gross.Sub(off).InexactFloat64(),
		})
		subtotal = subtotal.Add(gross)
		discount = discount.Add(off)
	}

	if err := checkAmount("quote subtotal", subtotal); err != nil {
		return Quote{}, err
	}

	q.Subtotal = subtotal.InexactFloat64()
	q.Discount = discount.InexactFloat64()
	q.Total = subtotal.Sub(discount).InexactFloat64()
	return q, nil
}

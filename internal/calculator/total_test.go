package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/shopfront/internal/models"
)

func TestOrderTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []models.LineItem
		want  float64
	}{
		{
			name: "two lines",
			lines: []models.LineItem{
				{Name: "Keyboard", Price: 10.00, Quantity: 3},
				{Name: "Mouse", Price: 4.50, Quantity: 2},
			},
			// 30.00 + 9.00
			want: 39.00,
		},
		{
			name:  "no lines",
			lines: nil,
			want:  0,
		},
		{
			name: "per-line rounding before summing",
			lines: []models.LineItem{
				{Name: "A", Price: 0.335, Quantity: 1}, // 0.34
				{Name: "B", Price: 0.335, Quantity: 1}, // 0.34
			},
			want: 0.68,
		},
		{
			name: "float noise is rounded away",
			lines: []models.LineItem{
				{Name: "A", Price: 0.1, Quantity: 3},
				{Name: "B", Price: 0.2, Quantity: 1},
			},
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderTotal(tt.lines)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("OrderTotal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPriceLines(t *testing.T) {
	lines := []models.LineItem{
		{Name: "Keyboard", Price: 10.00, Quantity: 3},
		{Name: "Mouse", Price: 4.50, Quantity: 2},
	}

	total := PriceLines(lines)

	assert.Equal(t, 39.00, total)
	assert.Equal(t, 30.00, lines[0].Subtotal)
	assert.Equal(t, 9.00, lines[1].Subtotal)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.005))
	assert.Equal(t, 2.5, Round2(2.5))
}

func TestValidateLines(t *testing.T) {
	tests := []struct {
		name    string
		lines   []models.LineItem
		wantErr bool
	}{
		{"valid", []models.LineItem{{Name: "A", Price: 1, Quantity: 1}}, false},
		{"empty", nil, true},
		{"zero quantity", []models.LineItem{{Name: "A", Price: 1, Quantity: 0}}, true},
		{"negative price", []models.LineItem{{Name: "A", Price: -1, Quantity: 1}}, true},
		{"missing name and id", []models.LineItem{{Price: 1, Quantity: 1}}, true},
		{"id without name", []models.LineItem{{ItemID: "ELC12", Price: 1, Quantity: 1}}, false},
		{"NaN price", []models.LineItem{{Name: "A", Price: math.NaN(), Quantity: 1}}, true},
		{"infinite price", []models.LineItem{{Name: "A", Price: math.Inf(1), Quantity: 1}}, true},
		{"subtotal overflows", []models.LineItem{{Name: "A", Price: 1e308, Quantity: 2}}, true},
		{"subtotal above max", []models.LineItem{{Name: "A", Price: MaxAmount, Quantity: 2}}, true},
		{"subtotal at max", []models.LineItem{{Name: "A", Price: MaxAmount, Quantity: 1}}, false},
		{"total above max", []models.LineItem{
			{Name: "A", Price: MaxAmount, Quantity: 1},
			{Name: "B", Price: 1, Quantity: 1},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLines(tt.lines)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLines() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateQuote(t *testing.T) {
	t.Run("applies quantity tiers per line", func(t *testing.T) {
		q, err := CalculateQuote([]QuoteLine{
			{Name: "Cable", UnitPrice: 2.00, Quantity: 5},   // no discount: 10.00
			{Name: "Mouse", UnitPrice: 10.00, Quantity: 10}, // 5%: 100.00 - 5.00
			{Name: "Pen", UnitPrice: 1.00, Quantity: 100},   // 15%: 100.00 - 15.00
		})
		require.NoError(t, err)
		require.Len(t, q.Items, 3)

		assert.Equal(t, 0.0, q.Items[0].DiscountRate)
		assert.Equal(t, 10.00, q.Items[0].LineTotal)
		assert.Equal(t, 0.05, q.Items[1].DiscountRate)
		assert.Equal(t, 95.00, q.Items[1].LineTotal)
		assert.Equal(t, 0.15, q.Items[2].DiscountRate)
		assert.Equal(t, 85.00, q.Items[2].LineTotal)

		assert.Equal(t, 210.00, q.Subtotal)
		assert.Equal(t, 20.00, q.Discount)
		assert.Equal(t, 190.00, q.Total)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := CalculateQuote([]QuoteLine{{Name: "X", UnitPrice: 1, Quantity: 0}})
		assert.Error(t, err)
	})

	t.Run("rejects amounts that cannot be represented", func(t *testing.T) {
		_, err := CalculateQuote([]QuoteLine{{Name: "X", UnitPrice: 1e308, Quantity: 2}})
		assert.ErrorContains(t, err, "exceeds")
		_, err = CalculateQuote([]QuoteLine{{Name: "X", UnitPrice: math.Inf(1), Quantity: 1}})
		assert.ErrorContains(t, err, "finite")
	})

	t.Run("rejects empty request", func(t *testing.T) {
		_, err := CalculateQuote(nil)
		assert.Error(t, err)
	})
}

func TestDiscountRate(t *testing.T) {
	tests := []struct {
		qty  int
		want float64
	}{
		{1, 0}, {9, 0}, {10, 0.05}, {49, 0.05}, {50, 0.10}, {99, 0.10}, {100, 0.15}, {1000, 0.15},
	}
	for _, tt := range tests {
		if got := DiscountRate(tt.qty); got != tt.want {
			t.Errorf("DiscountRate(%d) = %v, want %v", tt.qty, got, tt.want)
		}
	}
}

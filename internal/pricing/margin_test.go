package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestMarginFromCostPrice(t *testing.T) {
	tests := []struct {
		name  string
		cost  string
		price string
		want  string
	}{
		{"doubling the cost is a 100% margin", "50", "100", "100"},
		{"zero cost has no defined margin", "0", "100", "0"},
		{"zero price has no defined margin", "50", "0", "0"},
		{"negative cost has no defined margin", "-10", "100", "0"},
		{"selling below cost is a negative margin", "100", "50", "-50"},
		{"fractional margin", "40", "50", "25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarginFromCostPrice(d(tt.cost), d(tt.price))
			if !got.Equal(d(tt.want)) {
				t.Errorf("MarginFromCostPrice(%s, %s) = %s, want %s", tt.cost, tt.price, got, tt.want)
			}
		})
	}
}

func TestPriceFromCostMargin(t *testing.T) {
	tests := []struct {
		name   string
		cost   string
		margin string
		want   string
	}{
		{"100% margin doubles the cost", "50", "100", "100"},
		{"zero margin applies no markup", "50", "0", "50"},
		{"negative margin applies no markup", "50", "-20", "50"},
		{"zero cost yields zero price", "0", "100", "0"},
		{"25% margin", "40", "25", "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceFromCostMargin(d(tt.cost), d(tt.margin))
			if !got.Equal(d(tt.want)) {
				t.Errorf("PriceFromCostMargin(%s, %s) = %s, want %s", tt.cost, tt.margin, got, tt.want)
			}
		})
	}
}

func TestConversionsRoundTrip(t *testing.T) {
	cost := d("80")
	price := d("120")

	margin := MarginFromCostPrice(cost, price)
	back := PriceFromCostMargin(cost, margin)

	if !back.Equal(price) {
		t.Errorf("round trip produced %s, want %s", back, price)
	}
}

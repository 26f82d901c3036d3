package model

import "testing"

// TestHolding_ResolveTicker tests ticker resolution.
//
// WHY: Resolution decides which holdings participate in price updates at
// all, and the Bitcoin special cases are the most common user shortcut.
func TestHolding_ResolveTicker(t *testing.T) {
	tests := []struct {
		name    string
		holding Holding
		want    string
	}{
		{"manual holding has no ticker", Holding{Name: "House", AutoUpdate: false}, ""},
		{"explicit ticker wins", Holding{Ticker: "aapl", Name: "Apple", AutoUpdate: true}, "AAPL"},
		{"falls back to name", Holding{Name: "msft", AutoUpdate: true}, "MSFT"},
		{"name is trimmed", Holding{Name: "  eth  ", AutoUpdate: true}, "ETH"},
		{"bitcoin category forces BTC", Holding{Category: CategoryBitcoin, Name: "Cold wallet", AutoUpdate: true}, "BTC"},
		{"BITCOIN name maps to BTC", Holding{Name: "Bitcoin", AutoUpdate: true}, "BTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.holding.ResolveTicker(); got != tt.want {
				t.Errorf("ResolveTicker() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestHolding_EffectiveValue tests the cost-basis fallback.
//
// WHY: A holding that has never been refreshed must still contribute its
// purchase cost to the dashboard instead of showing zero.
func TestHolding_EffectiveValue(t *testing.T) {
	t.Run("uses current value when set", func(t *testing.T) {
		h := Holding{Quantity: 2, PurchaseValue: 100, CurrentValue: 350}
		if got := h.EffectiveValue(); got != 350 {
			t.Errorf("Expected 350, got %v", got)
		}
	})

	t.Run("falls back to cost basis", func(t *testing.T) {
		h := Holding{Quantity: 2, PurchaseValue: 100}
		if got := h.EffectiveValue(); got != 200 {
			t.Errorf("Expected 200, got %v", got)
		}
	})

	t.Run("zero quantity counts as one unit", func(t *testing.T) {
		h := Holding{PurchaseValue: 100}
		if got := h.EffectiveValue(); got != 100 {
			t.Errorf("Expected 100, got %v", got)
		}
		if got := h.CostBasis(); got != 100 {
			t.Errorf("Expected cost basis 100, got %v", got)
		}
	})
}

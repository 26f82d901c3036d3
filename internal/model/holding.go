package model

import (
	"strings"
	"time"
)

// HoldingKind distinguishes assets from liabilities.
type HoldingKind string

// Valid holding kinds.
const (
	KindAsset     HoldingKind = "asset"
	KindLiability HoldingKind = "liability"
)

// CategoryBitcoin is the holding category that always resolves to the BTC
// ticker, regardless of the holding's name.
const CategoryBitcoin = "Bitcoin"

// Holding represents a user-owned asset or liability position tracked for
// net-worth purposes. Quantity, purchase data and the auto-update flag are
// owned by the user; CurrentValue and LastUpdated are maintained by the
// price engines.
type Holding struct {
	ID            string      `json:"id"`
	Kind          HoldingKind `json:"kind"`
	Category      string      `json:"category"`
	Name          string      `json:"name"`
	Ticker        string      `json:"ticker,omitempty"`
	Quantity      float64     `json:"quantity"`
	PurchaseDate  string      `json:"purchaseDate"`  // YYYY-MM-DD
	PurchaseValue float64     `json:"purchaseValue"` // per-unit cost at purchase
	AutoUpdate    bool        `json:"autoUpdate"`
	CurrentValue  float64     `json:"currentValue"` // total position value
	LastUpdated   time.Time   `json:"lastUpdated,omitzero"`
}

// ResolveTicker returns the normalized ticker a holding's prices are tracked
// under, or "" when the holding is not auto-updated or carries no usable
// symbol. Bitcoin-category holdings always resolve to BTC; otherwise the
// explicit ticker wins, falling back to the holding name.
func (h Holding) ResolveTicker() string {
	if !h.AutoUpdate {
		return ""
	}
	if h.Category == CategoryBitcoin {
		return "BTC"
	}

	symbol := h.Ticker
	if symbol == "" {
		symbol = h.Name
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "BITCOIN" {
		return "BTC"
	}
	return symbol
}

// EffectiveValue returns the holding's current total value, falling back to
// its cost basis when no current value has been set yet.
func (h Holding) EffectiveValue() float64 {
	if h.CurrentValue != 0 {
		return h.CurrentValue
	}
	return h.PurchaseValue * h.quantityOrOne()
}

// CostBasis returns the holding's total purchase cost.
func (h Holding) CostBasis() float64 {
	return h.PurchaseValue * h.quantityOrOne()
}

func (h Holding) quantityOrOne() float64 {
	if h.Quantity == 0 {
		return 1
	}
	return h.Quantity
}

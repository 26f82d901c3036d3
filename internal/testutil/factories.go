package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/repository"
)

// MakeID generates a fresh UUID string for test entities.
func MakeID() string {
	return uuid.New().String()
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	holding := testutil.NewHolding().Build(t, db)
//
//	// Customized holding
//	holding := testutil.NewHolding().
//	    WithTicker("AAPL").
//	    WithQuantity(10).
//	    AutoUpdated().
//	    Build(t, db)
type HoldingBuilder struct {
	holding model.Holding
}

// NewHolding creates a HoldingBuilder with sensible defaults: a manually
// valued asset bought for 100 on 2024-01-01.
func NewHolding() *HoldingBuilder {
	return &HoldingBuilder{
		holding: model.Holding{
			ID:            MakeID(),
			Kind:          model.KindAsset,
			Category:      "Stocks",
			Name:          "Test Holding",
			Quantity:      1,
			PurchaseDate:  "2024-01-01",
			PurchaseValue: 100,
		},
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.holding.ID = id
	return b
}

// WithName sets a custom name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.holding.Name = name
	return b
}

// WithCategory sets a custom category.
func (b *HoldingBuilder) WithCategory(category string) *HoldingBuilder {
	b.holding.Category = category
	return b
}

// WithTicker sets the ticker and marks the holding auto-updated.
func (b *HoldingBuilder) WithTicker(ticker string) *HoldingBuilder {
	b.holding.Ticker = ticker
	b.holding.AutoUpdate = true
	return b
}

// WithQuantity sets the quantity.
func (b *HoldingBuilder) WithQuantity(quantity float64) *HoldingBuilder {
	b.holding.Quantity = quantity
	return b
}

// WithPurchase sets the purchase date and per-unit purchase value.
func (b *HoldingBuilder) WithPurchase(date string, value float64) *HoldingBuilder {
	b.holding.PurchaseDate = date
	b.holding.PurchaseValue = value
	return b
}

// WithCurrentValue sets the engine-maintained current value.
func (b *HoldingBuilder) WithCurrentValue(value float64) *HoldingBuilder {
	b.holding.CurrentValue = value
	return b
}

// AutoUpdated marks the holding for automatic price updates.
func (b *HoldingBuilder) AutoUpdated() *HoldingBuilder {
	b.holding.AutoUpdate = true
	return b
}

// AsLiability turns the holding into a liability.
func (b *HoldingBuilder) AsLiability() *HoldingBuilder {
	b.holding.Kind = model.KindLiability
	b.holding.Category = "Loans"
	return b
}

// Build inserts the holding into the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	repo := repository.NewHoldingRepository(db)
	if err := repo.Insert(context.Background(), &b.holding); err != nil {
		t.Fatalf("Failed to insert test holding: %v", err)
	}
	return b.holding
}

// InsertPrices stores a price series for a ticker, failing the test on error.
func InsertPrices(t *testing.T, db *sql.DB, ticker string, series model.PriceSeries, currency string) {
	t.Helper()

	repo := repository.NewPriceHistoryRepository(db)
	if err := repo.Merge(context.Background(), ticker, series, currency); err != nil {
		t.Fatalf("Failed to insert test prices for %s: %v", ticker, err)
	}
}

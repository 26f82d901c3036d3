package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/repository"
	"github.com/tallyhq/networth-backend/internal/testutil"
)

// TestHoldingRepository_CRUD tests the basic persistence cycle.
//
// WHY: Holdings are the root entity of the system; every engine and every
// valuation starts from this table.
func TestHoldingRepository_CRUD(t *testing.T) {
	t.Run("insert and get round-trip", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		created := testutil.NewHolding().
			WithTicker("AAPL").
			WithQuantity(10).
			WithPurchase("2024-01-15", 150).
			Build(t, db)

		got, err := repo.Get(created.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if got.Ticker != "AAPL" || got.Quantity != 10 || got.PurchaseDate != "2024-01-15" {
			t.Errorf("Unexpected holding: %+v", got)
		}
		if !got.AutoUpdate {
			t.Error("Expected auto-update flag to persist")
		}
		if !got.LastUpdated.IsZero() {
			t.Errorf("Expected zero LastUpdated on a fresh holding, got %v", got.LastUpdated)
		}
	})

	t.Run("get unknown ID returns not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		_, err := repo.Get(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound, got %v", err)
		}
	})

	t.Run("update replaces fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		holding := testutil.NewHolding().Build(t, db)
		holding.Name = "Renamed"
		holding.Quantity = 3

		if err := repo.Update(context.Background(), &holding); err != nil {
			t.Fatalf("Update() returned unexpected error: %v", err)
		}

		got, err := repo.Get(holding.ID)
		if err != nil {
			t.Fatalf("Get() returned unexpected error: %v", err)
		}
		if got.Name != "Renamed" || got.Quantity != 3 {
			t.Errorf("Unexpected holding after update: %+v", got)
		}
	})

	t.Run("delete removes the row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewHoldingRepository(db)

		holding := testutil.NewHolding().Build(t, db)
		if err := repo.Delete(context.Background(), holding.ID); err != nil {
			t.Fatalf("Delete() returned unexpected error: %v", err)
		}

		if _, err := repo.Get(holding.ID); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound after delete, got %v", err)
		}

		// Deleting again reports not found
		if err := repo.Delete(context.Background(), holding.ID); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound on double delete, got %v", err)
		}
	})
}

// TestHoldingRepository_UpdateValue tests the engine-owned value update.
//
// WHY: The engines rewrite only current_value and last_updated; user-owned
// fields must survive untouched.
func TestHoldingRepository_UpdateValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)

	holding := testutil.NewHolding().WithTicker("AAPL").WithQuantity(2).Build(t, db)

	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateValue(context.Background(), holding.ID, 381.0, now); err != nil {
		t.Fatalf("UpdateValue() returned unexpected error: %v", err)
	}

	got, err := repo.Get(holding.ID)
	if err != nil {
		t.Fatalf("Get() returned unexpected error: %v", err)
	}
	if got.CurrentValue != 381.0 {
		t.Errorf("Expected current value 381.0, got %v", got.CurrentValue)
	}
	if got.LastUpdated.IsZero() {
		t.Error("Expected LastUpdated to be set")
	}
	if got.Ticker != "AAPL" || got.Quantity != 2 {
		t.Errorf("Expected user-owned fields untouched, got %+v", got)
	}
}

// TestHoldingRepository_GetAll tests ordering of the listing.
func TestHoldingRepository_GetAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)

	testutil.NewHolding().WithName("Loan").AsLiability().WithPurchase("2023-01-01", 1000).Build(t, db)
	testutil.NewHolding().WithName("Old Asset").WithPurchase("2022-01-01", 10).Build(t, db)
	testutil.NewHolding().WithName("New Asset").WithPurchase("2024-01-01", 10).Build(t, db)

	holdings, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll() returned unexpected error: %v", err)
	}
	if len(holdings) != 3 {
		t.Fatalf("Expected 3 holdings, got %d", len(holdings))
	}
	// Assets first (kind sorts asset < liability), then by purchase date
	if holdings[0].Name != "Old Asset" || holdings[1].Name != "New Asset" || holdings[2].Name != "Loan" {
		t.Errorf("Unexpected order: %s, %s, %s", holdings[0].Name, holdings[1].Name, holdings[2].Name)
	}
}

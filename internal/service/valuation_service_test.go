package service_test

import (
	"errors"
	"testing"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/service"
	"github.com/tallyhq/networth-backend/internal/testutil"
)

// TestValuationService_FiatSeries tests the daily net-worth series.
//
// WHY: This is the chart users stare at. Nearest-prior price lookup over
// weekend gaps, the cost-basis fallback and liability subtraction all have
// to line up for the curve to mean anything.
func TestValuationService_FiatSeries(t *testing.T) {
	t.Run("carries prices forward over gaps", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithTicker("AAPL").WithQuantity(1).WithPurchase("2024-01-01", 10).Build(t, db)
		testutil.InsertPrices(t, db, "AAPL", model.PriceSeries{
			"2024-01-02": 10,
			"2024-01-04": 12,
		}, "USD")

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.FiatSeries("2024-01-02", "2024-01-05")
		if err != nil {
			t.Fatalf("FiatSeries() returned unexpected error: %v", err)
		}
		if len(points) != 4 {
			t.Fatalf("Expected 4 daily points, got %d", len(points))
		}

		wantAssets := []float64{10, 10, 12, 12} // 01-03 carries 01-02 forward
		for i, want := range wantAssets {
			if points[i].AssetValue != want {
				t.Errorf("points[%d] (%s): asset value %v, want %v",
					i, points[i].Date, points[i].AssetValue, want)
			}
		}
	})

	t.Run("subtracts liabilities and respects purchase dates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithName("House").WithPurchase("2024-01-01", 1000).Build(t, db)
		testutil.NewHolding().WithName("Mortgage").AsLiability().WithPurchase("2024-01-03", 800).Build(t, db)

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.FiatSeries("2024-01-02", "2024-01-04")
		if err != nil {
			t.Fatalf("FiatSeries() returned unexpected error: %v", err)
		}

		// Before the mortgage exists
		if points[0].NetValue != 1000 || points[0].LiabilityValue != 0 {
			t.Errorf("Day 1: expected net 1000 with no liability, got %+v", points[0])
		}
		// After the mortgage starts
		if points[1].NetValue != 200 || points[1].LiabilityValue != 800 {
			t.Errorf("Day 2: expected net 200, got %+v", points[1])
		}
	})

	t.Run("auto holding without stored prices falls back to cost basis", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithTicker("AAPL").WithQuantity(2).WithPurchase("2024-01-01", 100).Build(t, db)

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.FiatSeries("2024-01-02", "2024-01-02")
		if err != nil {
			t.Fatalf("FiatSeries() returned unexpected error: %v", err)
		}
		if points[0].AssetValue != 200 {
			t.Errorf("Expected cost basis 200, got %v", points[0].AssetValue)
		}
	})

	t.Run("rejects a reversed date range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db)

		_, err := svc.FiatSeries("2024-02-01", "2024-01-01")
		if !errors.Is(err, apperrors.ErrInvalidDateRange) {
			t.Errorf("Expected ErrInvalidDateRange, got %v", err)
		}

		_, err = svc.FiatSeries("nope", "2024-01-01")
		if !errors.Is(err, apperrors.ErrInvalidDate) {
			t.Errorf("Expected ErrInvalidDate, got %v", err)
		}
	})
}

// TestValuationService_BTCEquivalentSeries tests the BTC-denominated view.
//
// WHY: Days without a BTC price must vanish from the series entirely. A
// zero-filled day would graph as the portfolio exploding to infinity BTC.
func TestValuationService_BTCEquivalentSeries(t *testing.T) {
	t.Run("omits days without a BTC price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithName("Cash").WithPurchase("2024-01-01", 50000).Build(t, db)
		// BTC prices start on the 2nd of a 10-day window
		testutil.InsertPrices(t, db, "BTC", model.PriceSeries{"2024-01-02": 50000}, "USD")

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.BTCEquivalentSeries("2024-01-01", "2024-01-10")
		if err != nil {
			t.Fatalf("BTCEquivalentSeries() returned unexpected error: %v", err)
		}

		if len(points) != 9 {
			t.Fatalf("Expected 9 of 10 points (first day has no BTC price), got %d", len(points))
		}
		if points[0].Date != "2024-01-02" {
			t.Errorf("Expected the series to start on 2024-01-02, got %s", points[0].Date)
		}
		if points[0].BTCEquivalent != 1 {
			t.Errorf("Expected 50000/50000 = 1 BTC, got %v", points[0].BTCEquivalent)
		}
	})
}

// TestValuationService_BTCHoldingsSeries tests the raw BTC unit count.
//
// WHY: This series is a pure quantity sum over Bitcoin-category holdings.
// Prices, the auto-update flag and the value fallback rules must play no
// part in it: a cold-storage wallet tracked by hand holds just as many
// units as an auto-updated one, and an empty wallet holds zero.
func TestValuationService_BTCHoldingsSeries(t *testing.T) {
	t.Run("accumulates quantities by purchase date", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithName("Wallet A").WithCategory("Bitcoin").AutoUpdated().
			WithQuantity(0.5).WithPurchase("2024-01-01", 40000).Build(t, db)
		testutil.NewHolding().WithName("Wallet B").WithCategory("Bitcoin").AutoUpdated().
			WithQuantity(0.25).WithPurchase("2024-01-03", 42000).Build(t, db)
		// No BTC prices stored at all

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.BTCHoldingsSeries("2024-01-02", "2024-01-04")
		if err != nil {
			t.Fatalf("BTCHoldingsSeries() returned unexpected error: %v", err)
		}
		if len(points) != 3 {
			t.Fatalf("Expected 3 points, got %d", len(points))
		}

		wantAmounts := []float64{0.5, 0.75, 0.75}
		for i, want := range wantAmounts {
			if points[i].BTCAmount != want {
				t.Errorf("points[%d] (%s): %v BTC, want %v", i, points[i].Date, points[i].BTCAmount, want)
			}
		}
	})

	t.Run("counts manually tracked Bitcoin holdings", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		// Cold storage, not auto-updated
		testutil.NewHolding().WithName("Cold Storage").WithCategory("Bitcoin").
			WithQuantity(2).WithPurchase("2024-01-01", 40000).Build(t, db)

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.BTCHoldingsSeries("2024-01-02", "2024-01-02")
		if err != nil {
			t.Fatalf("BTCHoldingsSeries() returned unexpected error: %v", err)
		}
		if points[0].BTCAmount != 2 {
			t.Errorf("Expected 2 BTC from the manual wallet, got %v", points[0].BTCAmount)
		}
	})

	t.Run("zero-quantity holdings count as zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		testutil.NewHolding().WithName("Empty Wallet").WithCategory("Bitcoin").AutoUpdated().
			WithQuantity(0).WithPurchase("2024-01-01", 0).Build(t, db)

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.BTCHoldingsSeries("2024-01-02", "2024-01-02")
		if err != nil {
			t.Fatalf("BTCHoldingsSeries() returned unexpected error: %v", err)
		}
		if points[0].BTCAmount != 0 {
			t.Errorf("Expected 0 BTC for an empty wallet, got %v", points[0].BTCAmount)
		}
	})

	t.Run("liabilities and other categories are excluded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		// AsLiability first so the Bitcoin category survives the chain
		testutil.NewHolding().WithName("BTC Loan").AsLiability().WithCategory("Bitcoin").
			WithQuantity(1).WithPurchase("2024-01-01", 40000).Build(t, db)
		testutil.NewHolding().WithName("Apple").WithCategory("Stocks").WithTicker("AAPL").
			WithQuantity(3).WithPurchase("2024-01-01", 100).Build(t, db)

		svc := testutil.NewTestValuationService(t, db)
		points, err := svc.BTCHoldingsSeries("2024-01-02", "2024-01-02")
		if err != nil {
			t.Fatalf("BTCHoldingsSeries() returned unexpected error: %v", err)
		}
		if points[0].BTCAmount != 0 {
			t.Errorf("Expected 0 BTC, got %v", points[0].BTCAmount)
		}
	})
}

// TestValuationService_SeriesByKind tests kind dispatch.
func TestValuationService_SeriesByKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestValuationService(t, db)

	for _, kind := range []string{service.SeriesFiatTotal, service.SeriesBTCEquivalent, service.SeriesBTCHoldings} {
		if _, err := svc.SeriesByKind(kind, "2024-01-01", "2024-01-02"); err != nil {
			t.Errorf("SeriesByKind(%q) returned unexpected error: %v", kind, err)
		}
	}

	_, err := svc.SeriesByKind("pie-chart", "2024-01-01", "2024-01-02")
	if !errors.Is(err, apperrors.ErrInvalidSeriesKind) {
		t.Errorf("Expected ErrInvalidSeriesKind, got %v", err)
	}
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/testutil"
)

// TestNetWorthHandler_Series tests the valuation series endpoint.
//
// WHY: The chart is the product's main screen. Defaults (fiat-total, last
// 90 days ending today) must work with no query parameters at all, and a
// reversed range must come back as a 400 the frontend can display.
func TestNetWorthHandler_Series(t *testing.T) {
	t.Run("returns one point per day for an explicit range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewNetWorthHandler(testutil.NewTestValuationService(t, db), testutil.NewTestHoldingService(t, db))

		testutil.NewHolding().WithTicker("AAPL").WithQuantity(2).
			WithPurchase("2024-01-01", 100).Build(t, db)
		testutil.InsertPrices(t, db, "AAPL", model.PriceSeries{
			"2024-01-01": 100,
			"2024-01-03": 110,
		}, "USD")

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/networth/series",
			map[string]string{"start": "2024-01-01", "end": "2024-01-04"},
		)
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var points []model.ValuationPoint
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&points)

		if len(points) != 4 {
			t.Fatalf("Expected 4 points, got %d", len(points))
		}
		// Gap on Jan 2 carries the Jan 1 price
		wantValues := []float64{200, 200, 220, 220}
		for i, want := range wantValues {
			if points[i].NetValue != want {
				t.Errorf("Point %d: expected %v, got %v", i, want, points[i].NetValue)
			}
		}
	})

	t.Run("defaults apply when no parameters are given", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewNetWorthHandler(testutil.NewTestValuationService(t, db), testutil.NewTestHoldingService(t, db))

		req := httptest.NewRequest(http.MethodGet, "/api/networth/series", nil)
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var points []model.ValuationPoint
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&points)

		// 90 days back plus both inclusive endpoints
		if len(points) != 91 {
			t.Errorf("Expected 91 daily points, got %d", len(points))
		}
	})

	t.Run("rejects an unknown series kind", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewNetWorthHandler(testutil.NewTestValuationService(t, db), testutil.NewTestHoldingService(t, db))

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/networth/series",
			map[string]string{"kind": "dogecoin-total"},
		)
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects a reversed range", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewNetWorthHandler(testutil.NewTestValuationService(t, db), testutil.NewTestHoldingService(t, db))

		req := testutil.NewRequestWithQueryParams(
			http.MethodGet,
			"/api/networth/series",
			map[string]string{"start": "2024-02-01", "end": "2024-01-01"},
		)
		w := httptest.NewRecorder()

		handler.Series(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestNetWorthHandler_Summary tests the dashboard summary endpoint.
func TestNetWorthHandler_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewNetWorthHandler(testutil.NewTestValuationService(t, db), testutil.NewTestHoldingService(t, db))

	testutil.NewHolding().WithCurrentValue(300).Build(t, db)
	testutil.NewHolding().AsLiability().WithPurchase("2024-01-01", 100).Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/networth/summary", nil)
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var summary model.NetWorthSummary
	//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
	json.NewDecoder(w.Body).Decode(&summary)

	if summary.TotalAssets != 300 || summary.TotalLiabilities != 100 || summary.NetWorth != 200 {
		t.Errorf("Unexpected summary: %+v", summary)
	}
}

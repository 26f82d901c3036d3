package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/testutil"
)

// TestHoldingHandler_Create tests holding creation over HTTP.
//
// WHY: This is the frontend's write path; the handler must translate
// validation failures into 400s with a usable message instead of a bare
// 500.
func TestHoldingHandler_Create(t *testing.T) {
	t.Run("creates a holding from valid JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewHoldingHandler(testutil.NewTestHoldingService(t, db))

		body := `{
			"kind": "asset",
			"category": "Stocks",
			"name": "Apple",
			"ticker": "AAPL",
			"quantity": 2,
			"purchaseDate": "2024-01-15",
			"purchaseValue": 150,
			"autoUpdate": true
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/holdings/", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var created model.Holding
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&created)

		if created.ID == "" || created.Ticker != "AAPL" {
			t.Errorf("Unexpected created holding: %+v", created)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewHoldingHandler(testutil.NewTestHoldingService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/holdings/", strings.NewReader("{nope"))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})

	t.Run("rejects validation failures with 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewHoldingHandler(testutil.NewTestHoldingService(t, db))

		body := `{"kind": "asset", "category": "Stocks", "name": "Apple", "purchaseDate": "nope", "purchaseValue": 1}`
		req := httptest.NewRequest(http.MethodPost, "/api/holdings/", strings.NewReader(body))
		w := httptest.NewRecorder()

		handler.Create(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestHoldingHandler_Update tests partial updates over HTTP.
//
// WHY: The update body uses pointer fields; omitted fields must keep their
// stored values rather than being zeroed.
func TestHoldingHandler_Update(t *testing.T) {
	t.Run("applies only the provided fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewHoldingHandler(testutil.NewTestHoldingService(t, db))

		holding := testutil.NewHolding().WithName("Original").WithQuantity(5).Build(t, db)

		base := testutil.NewRequestWithURLParams(
			http.MethodPut,
			"/api/holdings/"+holding.ID,
			map[string]string{"id": holding.ID},
		)
		req := httptest.NewRequest(http.MethodPut, "/api/holdings/"+holding.ID, strings.NewReader(`{"name": "Renamed"}`)).
			WithContext(base.Context())
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var updated model.Holding
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&updated)

		if updated.Name != "Renamed" {
			t.Errorf("Expected renamed holding, got %q", updated.Name)
		}
		if updated.Quantity != 5 {
			t.Errorf("Expected omitted quantity preserved, got %v", updated.Quantity)
		}
	})

	t.Run("unknown ID returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewHoldingHandler(testutil.NewTestHoldingService(t, db))

		id := testutil.MakeID()
		base := testutil.NewRequestWithURLParams(http.MethodPut, "/api/holdings/"+id, map[string]string{"id": id})
		req := httptest.NewRequest(http.MethodPut, "/api/holdings/"+id, strings.NewReader(`{"name": "X"}`)).
			WithContext(base.Context())
		w := httptest.NewRecorder()

		handler.Update(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}

// TestHoldingHandler_Delete tests deletion over HTTP.
func TestHoldingHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewHoldingHandler(testutil.NewTestHoldingService(t, db))

	holding := testutil.NewHolding().Build(t, db)

	req := testutil.NewRequestWithURLParams(
		http.MethodDelete,
		"/api/holdings/"+holding.ID,
		map[string]string{"id": holding.ID},
	)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d: %s", w.Code, w.Body.String())
	}

	// Second delete: gone
	w = httptest.NewRecorder()
	handler.Delete(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 on double delete, got %d", w.Code)
	}
}

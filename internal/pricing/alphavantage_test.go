package pricing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tallyhq/networth-backend/internal/apperrors"
)

func newTestAlphaVantage(t *testing.T, handler http.HandlerFunc) *AlphaVantageClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewAlphaVantageClient("test-key", 5*time.Second)
	client.BaseURL = server.URL
	// No per-minute throttling in tests
	client.limiter.SetLimit(1000)
	return client
}

// TestAlphaVantageClient_Quote tests the GLOBAL_QUOTE endpoint handling.
//
// WHY: Alpha Vantage reports every failure inside an HTTP 200 body. The
// client must distinguish an invalid symbol (permanent) from an exhausted
// budget (transient) purely from the response shape.
func TestAlphaVantageClient_Quote(t *testing.T) {
	t.Run("parses the quoted price", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("function") != "GLOBAL_QUOTE" {
				t.Errorf("Expected GLOBAL_QUOTE, got %q", r.URL.Query().Get("function"))
			}
			w.Write([]byte(`{"Global Quote": {"01. symbol": "AAPL", "05. price": "190.5000"}}`))
		})

		price, err := client.Quote(context.Background(), "AAPL", KindStock)
		if err != nil {
			t.Fatalf("Quote() returned unexpected error: %v", err)
		}
		if price != 190.5 {
			t.Errorf("Expected 190.5, got %v", price)
		}
	})

	t.Run("error message field means invalid symbol", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"Error Message": "Invalid API call."}`))
		})

		_, err := client.Quote(context.Background(), "ZZZZ", KindStock)
		if !errors.Is(err, apperrors.ErrInvalidSymbol) {
			t.Errorf("Expected ErrInvalidSymbol, got %v", err)
		}
	})

	t.Run("note field means rate limited", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage!"}`))
		})

		_, err := client.Quote(context.Background(), "AAPL", KindStock)
		if !errors.Is(err, apperrors.ErrRateLimited) {
			t.Errorf("Expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("information field means rate limited", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"Information": "API rate limit reached."}`))
		})

		_, err := client.Quote(context.Background(), "AAPL", KindStock)
		if !errors.Is(err, apperrors.ErrRateLimited) {
			t.Errorf("Expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("refuses crypto tickers", func(t *testing.T) {
		called := false
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			called = true
		})

		_, err := client.Quote(context.Background(), "BTC", KindCrypto)
		if !errors.Is(err, apperrors.ErrNoData) {
			t.Errorf("Expected ErrNoData for crypto, got %v", err)
		}
		if called {
			t.Error("Expected no API call for a crypto ticker")
		}
	})

	t.Run("enforces the daily request cap locally", func(t *testing.T) {
		calls := 0
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			calls++
			w.Write([]byte(`{"Global Quote": {"05. price": "1.0"}}`))
		})

		for i := 0; i < alphaVantageDailyCap; i++ {
			if _, err := client.Quote(context.Background(), "AAPL", KindStock); err != nil {
				t.Fatalf("Call %d failed unexpectedly: %v", i+1, err)
			}
		}

		_, err := client.Quote(context.Background(), "AAPL", KindStock)
		if !errors.Is(err, apperrors.ErrRateLimited) {
			t.Errorf("Expected ErrRateLimited at the cap, got %v", err)
		}
		if calls != alphaVantageDailyCap {
			t.Errorf("Expected exactly %d upstream calls, got %d", alphaVantageDailyCap, calls)
		}
	})

	t.Run("daily cap resets on a new day", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"Global Quote": {"05. price": "1.0"}}`))
		})

		current := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
		client.now = func() time.Time { return current }

		for i := 0; i < alphaVantageDailyCap; i++ {
			if _, err := client.Quote(context.Background(), "AAPL", KindStock); err != nil {
				t.Fatalf("Call %d failed unexpectedly: %v", i+1, err)
			}
		}

		current = current.Add(2 * time.Hour) // past midnight UTC
		if _, err := client.Quote(context.Background(), "AAPL", KindStock); err != nil {
			t.Errorf("Expected budget to reset on the new day, got %v", err)
		}
	})
}

// TestAlphaVantageClient_History tests the TIME_SERIES_DAILY range filter.
//
// WHY: The endpoint always returns the full history of a symbol. Storing
// entries outside the requested window would pollute the price store with
// data predating the user's position.
func TestAlphaVantageClient_History(t *testing.T) {
	t.Run("filters the series to the requested range", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("outputsize") != "full" {
				t.Errorf("Expected outputsize=full, got %q", r.URL.Query().Get("outputsize"))
			}
			w.Write([]byte(`{"Time Series (Daily)": {
				"2023-12-29": {"4. close": "180.0"},
				"2024-01-02": {"4. close": "185.6"},
				"2024-01-03": {"4. close": "184.2"},
				"2024-02-01": {"4. close": "190.0"}
			}}`))
		})

		series, err := client.History(context.Background(), "AAPL", KindStock, "2024-01-01", "2024-01-31")
		if err != nil {
			t.Fatalf("History() returned unexpected error: %v", err)
		}

		if len(series) != 2 {
			t.Fatalf("Expected 2 entries inside the range, got %d", len(series))
		}
		if series["2024-01-02"] != 185.6 || series["2024-01-03"] != 184.2 {
			t.Errorf("Unexpected series contents: %v", series)
		}
	})

	t.Run("empty range is no data", func(t *testing.T) {
		client := newTestAlphaVantage(t, func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"Time Series (Daily)": {"2020-01-02": {"4. close": "10.0"}}}`))
		})

		_, err := client.History(context.Background(), "AAPL", KindStock, "2024-01-01", "2024-01-31")
		if !errors.Is(err, apperrors.ErrNoData) {
			t.Errorf("Expected ErrNoData, got %v", err)
		}
	})
}

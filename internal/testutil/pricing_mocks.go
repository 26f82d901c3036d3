package testutil

import (
	"context"
	"sync"

	"github.com/tallyhq/networth-backend/internal/model"
)

// MockPriceSource is a mock implementation of the routed price source for
// testing the batch engines. It returns predefined per-ticker data instead
// of making actual API calls and is safe for concurrent use.
type MockPriceSource struct {
	mu sync.Mutex

	// Quotes maps tickers to the current price to return.
	Quotes map[string]float64
	// Histories maps tickers to the series to return.
	Histories map[string]model.PriceSeries
	// Errors maps tickers to the error to return, for both quotes and history.
	Errors map[string]error
	// Unconfigured makes Configured report false.
	Unconfigured bool

	// QuoteCalls and HistoryCalls track per-ticker call counts.
	QuoteCalls   map[string]int
	HistoryCalls map[string]int
}

// NewMockPriceSource creates an empty, configured mock.
func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{
		Quotes:       map[string]float64{},
		Histories:    map[string]model.PriceSeries{},
		Errors:       map[string]error{},
		QuoteCalls:   map[string]int{},
		HistoryCalls: map[string]int{},
	}
}

// WithQuote configures the quote returned for a ticker.
func (m *MockPriceSource) WithQuote(ticker string, price float64) *MockPriceSource {
	m.Quotes[ticker] = price
	return m
}

// WithHistory configures the series returned for a ticker.
func (m *MockPriceSource) WithHistory(ticker string, series model.PriceSeries) *MockPriceSource {
	m.Histories[ticker] = series
	return m
}

// WithError configures the error returned for a ticker.
func (m *MockPriceSource) WithError(ticker string, err error) *MockPriceSource {
	m.Errors[ticker] = err
	return m
}

// NotConfigured makes the mock report no provider is configured.
func (m *MockPriceSource) NotConfigured() *MockPriceSource {
	m.Unconfigured = true
	return m
}

// Configured reports whether the mock simulates a configured provider.
func (m *MockPriceSource) Configured() bool {
	return !m.Unconfigured
}

// Quote returns the configured price or error for ticker.
func (m *MockPriceSource) Quote(_ context.Context, ticker string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.QuoteCalls[ticker]++
	if err, ok := m.Errors[ticker]; ok {
		return 0, err
	}
	return m.Quotes[ticker], nil
}

// History returns the configured series or error for ticker.
func (m *MockPriceSource) History(_ context.Context, ticker, _, _ string) (model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.HistoryCalls[ticker]++
	if err, ok := m.Errors[ticker]; ok {
		return nil, err
	}
	return m.Histories[ticker], nil
}

// TotalQuoteCalls sums the quote call counts across all tickers.
func (m *MockPriceSource) TotalQuoteCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, count := range m.QuoteCalls {
		total += count
	}
	return total
}

// MockRateSource is a mock exchange-rate source. It returns a fixed rate
// for every pair, or a configured error.
type MockRateSource struct {
	mu sync.Mutex

	// FixedRate is returned for every non-identity pair.
	FixedRate float64
	// MockError is returned instead of a rate when set.
	MockError error
	// CallCount tracks how many times Rate was called.
	CallCount int
}

// NewMockRateSource creates a mock returning rate for every pair.
func NewMockRateSource(rate float64) *MockRateSource {
	return &MockRateSource{FixedRate: rate}
}

// WithError configures the mock to fail every lookup.
func (m *MockRateSource) WithError(err error) *MockRateSource {
	m.MockError = err
	return m
}

// Rate returns the fixed rate or the configured error.
func (m *MockRateSource) Rate(_ context.Context, from, to string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	if m.MockError != nil {
		return 0, m.MockError
	}
	if from == to {
		return 1, nil
	}
	return m.FixedRate, nil
}

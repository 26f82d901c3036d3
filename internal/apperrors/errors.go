// Package apperrors defines the sentinel errors used across the application.
// Errors are grouped by taxonomy so callers can decide retry and scoping
// behaviour with errors.Is.
package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Provider errors classify failures of upstream quote and rate providers.
// They drive the batch engines' retry and isolation policy.
var (
	// ErrAPIKeyMissing indicates that a provider has no API key configured.
	// This is a configuration error: it fails the whole batch immediately,
	// since no per-ticker retry can succeed without a key.
	ErrAPIKeyMissing = errors.New("provider API key not configured")

	// ErrRateLimited indicates that a provider rejected a call due to rate
	// limiting or an exhausted daily budget. Transient, scoped to the
	// ticker being processed.
	ErrRateLimited = errors.New("provider rate limit exceeded")

	// ErrInvalidSymbol indicates that a provider does not recognize the
	// requested symbol. Permanent until the user corrects the ticker.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrNoData indicates that a provider returned an empty or zero-valued
	// response for a symbol. Treated the same as ErrInvalidSymbol.
	ErrNoData = errors.New("no price data available")

	// ErrNoExchangeRate indicates that the rate provider has no quote for
	// a currency pair.
	ErrNoExchangeRate = errors.New("no exchange rate available")
)

// Domain entity errors represent missing or invalid entities in the system.
var (
	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrSettingNotFound indicates that a settings key has never been written.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrPriceNotFound indicates no stored price for a ticker/date combination.
	ErrPriceNotFound = errors.New("price not found")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidDateRange indicates that the provided date range is invalid
	// (e.g., start date is after end date).
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrInvalidDate indicates that a date is not a valid YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrInvalidHoldingKind indicates a holding kind other than asset or liability.
	ErrInvalidHoldingKind = errors.New("holding kind must be asset or liability")

	// ErrInvalidSeriesKind indicates an unknown valuation series kind.
	ErrInvalidSeriesKind = errors.New("unknown valuation series kind")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// TickerError scopes an error to a single ticker inside a batch operation.
// Batch engines collect these instead of aborting, so one bad symbol never
// blocks the rest of the run.
type TickerError struct {
	Ticker string
	Err    error
}

// NewTickerError wraps err with the ticker it occurred for.
func NewTickerError(ticker string, err error) *TickerError {
	return &TickerError{Ticker: ticker, Err: err}
}

func (e *TickerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Ticker, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/errors.As.
func (e *TickerError) Unwrap() error {
	return e.Err
}

/// MarshalJSON renders the error as {"ticker": ..., "error": ...} so batch
// results can be returned to API clients as-is.
func (e *TickerError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Ticker string `json:"ticker"`
		Error  string `json:"error"`
	}{
		Ticker: e.Ticker,
		Error:  e.Err.Error(),
	})
}

package pricing

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
)

// QuoteProvider is a source of current quotes and daily price history.
// Implemented by FinnhubClient and AlphaVantageClient.
type QuoteProvider interface {
	Name() string
	Configured() bool
	Quote(ctx context.Context, ticker string, kind SourceKind) (float64, error)
	History(ctx context.Context, ticker string, kind SourceKind, start, end string) (model.PriceSeries, error)
}

// Router dispatches price lookups by ticker class: crypto and US stocks go
// to the primary provider, international stocks straight to the secondary,
// since the primary's free tier has no non-US coverage. A primary failure
// falls back to the secondary only when it is transient; symbol errors are
// permanent and never spend the secondary's daily budget. Current quotes are
// cached for QuoteTTL, and concurrent lookups for the same ticker are
// collapsed into a single provider call.
type Router struct {
	primary   QuoteProvider
	secondary QuoteProvider
	quotes    *TTLCache
	group     singleflight.Group
}

// NewRouter creates a Router over a primary and secondary provider.
func NewRouter(primary, secondary QuoteProvider) *Router {
	return &Router{
		primary:   primary,
		secondary: secondary,
		quotes:    NewTTLCache(QuoteTTL),
	}
}

// Configured reports whether at least one provider has an API key. Callers
// check this before starting batch work so that a missing configuration
// fails fast instead of producing one error per ticker.
func (r *Router) Configured() bool {
	return r.primary.Configured() || r.secondary.Configured()
}

// Quote returns the current price for a ticker, consulting the cache first.
// On a miss the lookup is routed by ticker class and the result cached.
// Concurrent callers for the same ticker share one fetch.
func (r *Router) Quote(ctx context.Context, ticker string) (float64, error) {
	kind := Classify(ticker)
	cacheKey := ticker + ":" + string(kind)

	if price, ok := r.quotes.Get(cacheKey); ok {
		return price, nil
	}

	value, err, _ := r.group.Do("quote:"+cacheKey, func() (any, error) {
		// Re-check under the flight: another caller may have populated
		// the cache between our miss and acquiring the flight.
		if price, ok := r.quotes.Get(cacheKey); ok {
			return price, nil
		}

		price, err := r.fetchQuote(ctx, ticker, kind)
		if err != nil {
			return 0.0, err
		}
		r.quotes.Set(cacheKey, price)
		return price, nil
	})
	if err != nil {
		return 0, err
	}
	return value.(float64), nil
}

// fallbackWorthTrying reports whether a primary failure could still succeed
// on the secondary provider. Symbol errors are permanent on both sides, so
// retrying them elsewhere only spends the secondary's daily budget.
func fallbackWorthTrying(err error) bool {
	return !errors.Is(err, apperrors.ErrInvalidSymbol) && !errors.Is(err, apperrors.ErrNoData)
}

func (r *Router) fetchQuote(ctx context.Context, ticker string, kind SourceKind) (float64, error) {
	if kind == KindIntlStock {
		if !r.secondary.Configured() {
			return 0, fmt.Errorf("%s: %w", r.secondary.Name(), apperrors.ErrAPIKeyMissing)
		}
		return r.secondary.Quote(ctx, ticker, kind)
	}

	primaryErr := fmt.Errorf("%s: %w", r.primary.Name(), apperrors.ErrAPIKeyMissing)
	if r.primary.Configured() {
		price, err := r.primary.Quote(ctx, ticker, kind)
		if err == nil {
			return price, nil
		}
		if !fallbackWorthTrying(err) {
			return 0, err
		}
		primaryErr = err
	}

	if !r.secondary.Configured() {
		return 0, primaryErr
	}

	log.Printf("quote for %s failed on %s, trying %s: %v",
		ticker, r.primary.Name(), r.secondary.Name(), primaryErr)

	price, err := r.secondary.Quote(ctx, ticker, kind)
	if err != nil {
		return 0, fmt.Errorf("all providers failed for %s: %w", ticker, err)
	}
	return price, nil
}

// History returns daily closing prices for a ticker over an inclusive date
// range, routed by ticker class like Quote. History is never cached; the
// price store persists it instead. Concurrent callers for the same ticker
// and range share one fetch.
func (r *Router) History(ctx context.Context, ticker, start, end string) (model.PriceSeries, error) {
	kind := Classify(ticker)

	value, err, _ := r.group.Do("history:"+ticker+":"+start+":"+end, func() (any, error) {
		return r.fetchHistory(ctx, ticker, kind, start, end)
	})
	if err != nil {
		return nil, err
	}
	return value.(model.PriceSeries), nil
}

func (r *Router) fetchHistory(ctx context.Context, ticker string, kind SourceKind, start, end string) (model.PriceSeries, error) {
	if kind == KindIntlStock {
		if !r.secondary.Configured() {
			return nil, fmt.Errorf("%s: %w", r.secondary.Name(), apperrors.ErrAPIKeyMissing)
		}
		return r.secondary.History(ctx, ticker, kind, start, end)
	}

	primaryErr := fmt.Errorf("%s: %w", r.primary.Name(), apperrors.ErrAPIKeyMissing)
	if r.primary.Configured() {
		series, err := r.primary.History(ctx, ticker, kind, start, end)
		if err == nil {
			return series, nil
		}
		if !fallbackWorthTrying(err) {
			return nil, err
		}
		primaryErr = err
	}

	if !r.secondary.Configured() {
		return nil, primaryErr
	}

	log.Printf("history for %s failed on %s, trying %s: %v",
		ticker, r.primary.Name(), r.secondary.Name(), primaryErr)

	series, err := r.secondary.History(ctx, ticker, kind, start, end)
	if err != nil {
		return nil, fmt.Errorf("all providers failed for %s: %w", ticker, err)
	}
	return series, nil
}

// InvalidateQuotes drops all cached quotes, forcing fresh provider calls on
// the next lookup.
func (r *Router) InvalidateQuotes() {
	r.quotes.Clear()
}

package pricing

import (
	"context"
	"fmt"
	"log"
)

// RateSource supplies exchange rates. Satisfied by FrankfurterClient and by
// test doubles.
type RateSource interface {
	Rate(ctx context.Context, from, to string) (float64, error)
}

// Conversion is the outcome of a currency conversion. Degraded is set when
// no rate could be obtained and the value was passed through unconverted;
// Currency then names the currency the value is actually in.
type Conversion struct {
	Value    float64
	Currency string
	Degraded bool
}

// Converter converts values between currencies, caching rates so that a
// batch of conversions in the same currency pair costs one rate lookup.
type Converter struct {
	source RateSource
	cache  *TTLCache
}

// NewConverter creates a Converter backed by source.
func NewConverter(source RateSource) *Converter {
	return &Converter{
		source: source,
		cache:  NewTTLCache(RateTTL),
	}
}

// Rate returns the cached or freshly fetched multiplier from one currency
// to another. Identical currencies always return 1 without touching the
// cache or the network.
func (c *Converter) Rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}

	key := from + ":" + to
	if rate, ok := c.cache.Get(key); ok {
		return rate, nil
	}

	rate, err := c.source.Rate(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch exchange rate %s->%s: %w", from, to, err)
	}

	c.cache.Set(key, rate)
	return rate, nil
}

// Convert converts value from one currency to another. When the rate
// lookup fails the original value is returned marked Degraded so callers
// can decide whether to surface, store or discard it.
func (c *Converter) Convert(ctx context.Context, value float64, from, to string) Conversion {
	if from == to {
		return Conversion{Value: value, Currency: to}
	}

	rate, err := c.Rate(ctx, from, to)
	if err != nil {
		log.Printf("currency conversion degraded (%s->%s): %v", from, to, err)
		return Conversion{Value: value, Currency: from, Degraded: true}
	}
	return Conversion{Value: value * rate, Currency: to}
}

// ConvertStockPrice converts a price quoted in a ticker's native currency
// (derived from its exchange suffix) into the display currency.
func (c *Converter) ConvertStockPrice(ctx context.Context, ticker string, price float64, displayCurrency string) Conversion {
	return c.Convert(ctx, price, NativeCurrency(ticker), displayCurrency)
}

// InvalidateRates drops every cached rate, forcing fresh lookups. Called
// when the display currency setting changes.
func (c *Converter) InvalidateRates() {
	c.cache.Clear()
}

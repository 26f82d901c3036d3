package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubClient is the primary quote provider. It serves both current
// quotes and daily candle history, for stocks and for crypto pairs, and
// throttles itself to the free-tier request budget of 60 calls per minute.
type FinnhubClient struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewFinnhubClient creates a Finnhub client. An empty apiKey produces an
// unconfigured client that refuses all calls.
func NewFinnhubClient(apiKey string, timeout time.Duration) *FinnhubClient {
	return &FinnhubClient{
		BaseURL:    finnhubBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/60), 1),
	}
}

// Name identifies the provider in logs and per-ticker errors.
func (c *FinnhubClient) Name() string { return "finnhub" }

// Configured reports whether an API key is present.
func (c *FinnhubClient) Configured() bool { return c.apiKey != "" }

// SetAPIKey swaps the API key at runtime, e.g. after a settings update.
func (c *FinnhubClient) SetAPIKey(key string) { c.apiKey = key }

type finnhubQuoteResponse struct {
	Current float64 `json:"c"`
}

type finnhubCandleResponse struct {
	Status     string    `json:"s"`
	Closes     []float64 `json:"c"`
	Timestamps []int64   `json:"t"`
}

// Quote fetches the current price for a ticker. Crypto tickers are
// reformatted as Binance pairs before the call. A zero price from the API
// means the symbol has no data.
func (c *FinnhubClient) Quote(ctx context.Context, ticker string, kind SourceKind) (float64, error) {
	if !c.Configured() {
		return 0, fmt.Errorf("finnhub: %w", apperrors.ErrAPIKeyMissing)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("finnhub: rate limiter wait: %w", err)
	}

	symbol := ticker
	if kind == KindCrypto {
		symbol = FormatCryptoSymbol(ticker)
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s",
		c.BaseURL, url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	var quote finnhubQuoteResponse
	if err := c.getJSON(ctx, endpoint, &quote); err != nil {
		return 0, err
	}

	if quote.Current == 0 {
		return 0, fmt.Errorf("finnhub: %s: %w", ticker, apperrors.ErrNoData)
	}
	return quote.Current, nil
}

// History fetches daily closing prices for a ticker between two dates
// (inclusive), keyed by YYYY-MM-DD. Non-trading days are simply absent.
func (c *FinnhubClient) History(ctx context.Context, ticker string, kind SourceKind, start, end string) (model.PriceSeries, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("finnhub: %w", apperrors.ErrAPIKeyMissing)
	}

	from, err := model.ParseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := model.ParseDate(end)
	if err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("finnhub: rate limiter wait: %w", err)
	}

	symbol := ticker
	path := "/stock/candle"
	if kind == KindCrypto {
		symbol = FormatCryptoSymbol(ticker)
		path = "/crypto/candle"
	}

	endpoint := fmt.Sprintf("%s%s?symbol=%s&resolution=D&from=%d&to=%d&token=%s",
		c.BaseURL, path, url.QueryEscape(symbol),
		from.Unix(), to.Add(24*time.Hour-time.Second).Unix(),
		url.QueryEscape(c.apiKey))

	var candles finnhubCandleResponse
	if err := c.getJSON(ctx, endpoint, &candles); err != nil {
		return nil, err
	}

	if candles.Status == "no_data" || len(candles.Closes) == 0 {
		return nil, fmt.Errorf("finnhub: %s: %w", ticker, apperrors.ErrNoData)
	}
	if candles.Status != "ok" {
		return nil, fmt.Errorf("finnhub: %s: unexpected candle status %q", ticker, candles.Status)
	}
	if len(candles.Closes) != len(candles.Timestamps) {
		return nil, fmt.Errorf("finnhub: %s: mismatched candle arrays", ticker)
	}

	series := model.PriceSeries{}
	for i, ts := range candles.Timestamps {
		date := time.Unix(ts, 0).UTC().Format(model.DateFormat)
		series[date] = candles.Closes[i]
	}
	return series, nil
}

func (c *FinnhubClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("finnhub: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("finnhub: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("finnhub: %w", apperrors.ErrRateLimited)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("finnhub: %w", apperrors.ErrAPIKeyMissing)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("finnhub: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("finnhub: failed to decode response: %w", err)
	}
	return nil
}

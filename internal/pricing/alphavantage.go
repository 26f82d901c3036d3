package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
)

const (
	alphaVantageBaseURL  = "https://www.alphavantage.co"
	alphaVantageDailyCap = 25
)

// AlphaVantageClient is the secondary quote provider, consulted only when
// the primary fails for a ticker. The free tier allows 25 requests per day
// and about 5 per minute, so the client enforces both budgets itself rather
// than burning the daily allowance on rejected calls.
type AlphaVantageClient struct {
	BaseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu        sync.Mutex
	dayStart  time.Time
	dayCalls  int
	now       func() time.Time
}

// NewAlphaVantageClient creates an Alpha Vantage client. An empty apiKey
// produces an unconfigured client that refuses all calls.
func NewAlphaVantageClient(apiKey string, timeout time.Duration) *AlphaVantageClient {
	return &AlphaVantageClient{
		BaseURL:    alphaVantageBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/5), 1),
		now:        time.Now,
	}
}

// Name identifies the provider in logs and per-ticker errors.
func (c *AlphaVantageClient) Name() string { return "alphavantage" }

// Configured reports whether an API key is present.
func (c *AlphaVantageClient) Configured() bool { return c.apiKey != "" }

// SetAPIKey swaps the API key at runtime, e.g. after a settings update.
func (c *AlphaVantageClient) SetAPIKey(key string) { c.apiKey = key }

// reserveDailyCall counts a call against the daily budget, resetting the
// window at the first call of each UTC day.
func (c *AlphaVantageClient) reserveDailyCall() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	today := c.now().UTC().Truncate(24 * time.Hour)
	if !c.dayStart.Equal(today) {
		c.dayStart = today
		c.dayCalls = 0
	}
	if c.dayCalls >= alphaVantageDailyCap {
		return fmt.Errorf("alphavantage: daily request cap reached: %w", apperrors.ErrRateLimited)
	}
	c.dayCalls++
	return nil
}

type alphaVantageGlobalQuote struct {
	GlobalQuote struct {
		Price string `json:"05. price"`
	} `json:"Global Quote"`
	ErrorMessage string `json:"Error Message"`
	Note         string `json:"Note"`
	Information  string `json:"Information"`
}

// Quote fetches the current price for a stock ticker via the GLOBAL_QUOTE
// function. Alpha Vantage reports errors in-band with HTTP 200: an "Error
// Message" field means the symbol is invalid, a "Note" or "Information"
// field means the request budget is exhausted.
func (c *AlphaVantageClient) Quote(ctx context.Context, ticker string, kind SourceKind) (float64, error) {
	if !c.Configured() {
		return 0, fmt.Errorf("alphavantage: %w", apperrors.ErrAPIKeyMissing)
	}
	if kind == KindCrypto {
		return 0, fmt.Errorf("alphavantage: %s: crypto not supported: %w", ticker, apperrors.ErrNoData)
	}
	if err := c.reserveDailyCall(); err != nil {
		return 0, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("alphavantage: rate limiter wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		c.BaseURL, url.QueryEscape(ticker), url.QueryEscape(c.apiKey))

	var payload alphaVantageGlobalQuote
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, err
	}
	if err := classifyInBandError(ticker, payload.ErrorMessage, payload.Note, payload.Information); err != nil {
		return 0, err
	}
	if payload.GlobalQuote.Price == "" {
		return 0, fmt.Errorf("alphavantage: %s: %w", ticker, apperrors.ErrNoData)
	}

	price, err := strconv.ParseFloat(payload.GlobalQuote.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("alphavantage: %s: unparseable price %q: %w", ticker, payload.GlobalQuote.Price, err)
	}
	if price == 0 {
		return 0, fmt.Errorf("alphavantage: %s: %w", ticker, apperrors.ErrNoData)
	}
	return price, nil
}

type alphaVantageDailySeries struct {
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Information  string                       `json:"Information"`
}

// History fetches daily closing prices via TIME_SERIES_DAILY with full
// output, filtered to the requested inclusive date range.
func (c *AlphaVantageClient) History(ctx context.Context, ticker string, kind SourceKind, start, end string) (model.PriceSeries, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("alphavantage: %w", apperrors.ErrAPIKeyMissing)
	}
	if kind == KindCrypto {
		return nil, fmt.Errorf("alphavantage: %s: crypto not supported: %w", ticker, apperrors.ErrNoData)
	}
	if !model.IsValidDate(start) || !model.IsValidDate(end) {
		return nil, apperrors.ErrInvalidDate
	}
	if err := c.reserveDailyCall(); err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("alphavantage: rate limiter wait: %w", err)
	}

	endpoint := fmt.Sprintf("%s/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=full&apikey=%s",
		c.BaseURL, url.QueryEscape(ticker), url.QueryEscape(c.apiKey))

	var payload alphaVantageDailySeries
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if err := classifyInBandError(ticker, payload.ErrorMessage, payload.Note, payload.Information); err != nil {
		return nil, err
	}
	if len(payload.TimeSeries) == 0 {
		return nil, fmt.Errorf("alphavantage: %s: %w", ticker, apperrors.ErrNoData)
	}

	series := model.PriceSeries{}
	for date, fields := range payload.TimeSeries {
		if date < start || date > end {
			continue
		}
		closeStr, ok := fields["4. close"]
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: %s: unparseable close %q on %s: %w", ticker, closeStr, date, err)
		}
		series[date] = price
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("alphavantage: %s: no data in range: %w", ticker, apperrors.ErrNoData)
	}
	return series, nil
}

func classifyInBandError(ticker, errorMessage, note, information string) error {
	if errorMessage != "" {
		return fmt.Errorf("alphavantage: %s: %w", ticker, apperrors.ErrInvalidSymbol)
	}
	if note != "" || information != "" {
		return fmt.Errorf("alphavantage: %s: %w", ticker, apperrors.ErrRateLimited)
	}
	return nil
}

func (c *AlphaVantageClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("alphavantage: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("alphavantage: failed to decode response: %w", err)
	}
	return nil
}

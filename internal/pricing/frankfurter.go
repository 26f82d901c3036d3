package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tallyhq/networth-backend/internal/apperrors"
)

const frankfurterBaseURL = "https://api.frankfurter.app"

// FrankfurterClient fetches currency exchange rates from the free
// frankfurter.app API. No API key is required.
type FrankfurterClient struct {
	BaseURL    string
	httpClient *http.Client
}

// NewFrankfurterClient creates a Frankfurter exchange-rate client.
func NewFrankfurterClient(timeout time.Duration) *FrankfurterClient {
	return &FrankfurterClient{
		BaseURL:    frankfurterBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type frankfurterResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// Rate returns the latest multiplier converting one unit of from into to.
// Identical currencies short-circuit to 1 without a network call.
func (c *FrankfurterClient) Rate(ctx context.Context, from, to string) (float64, error) {
	if from == to {
		return 1, nil
	}

	endpoint := fmt.Sprintf("%s/latest?from=%s&to=%s",
		c.BaseURL, url.QueryEscape(from), url.QueryEscape(to))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("frankfurter: failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("frankfurter: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("frankfurter: %s->%s: unexpected status %d: %w",
			from, to, resp.StatusCode, apperrors.ErrNoExchangeRate)
	}

	var payload frankfurterResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("frankfurter: failed to decode response: %w", err)
	}

	rate, ok := payload.Rates[to]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("frankfurter: %s->%s: %w", from, to, apperrors.ErrNoExchangeRate)
	}
	return rate, nil
}

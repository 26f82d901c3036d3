package request

// UpdateSettingsRequest represents the request body for updating settings.
// Omitted API key fields keep their stored value; an explicit empty string
// clears the key.
type UpdateSettingsRequest struct {
	Currency           *string `json:"currency,omitempty"`
	FinnhubAPIKey      *string `json:"finnhubApiKey,omitempty"`
	AlphaVantageAPIKey *string `json:"alphaVantageApiKey,omitempty"`
}

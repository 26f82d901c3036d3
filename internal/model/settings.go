package model

// Settings holds the user-tunable configuration persisted by the backend:
// the display currency every value is reported in, and the API keys for the
// two quote providers. Keys are encrypted at rest; the JSON form carries
// them in plaintext for the settings UI.
type Settings struct {
	DisplayCurrency    string `json:"currency"`
	FinnhubAPIKey      string `json:"finnhubApiKey,omitempty"`
	AlphaVantageAPIKey string `json:"alphaVantageApiKey,omitempty"`
}

// DefaultDisplayCurrency is assumed until the user picks a currency.
const DefaultDisplayCurrency = "USD"

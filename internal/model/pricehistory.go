package model

// PriceSeries maps YYYY-MM-DD dates to daily close prices for one ticker.
// Keys are always valid calendar dates no later than today.
type PriceSeries map[string]float64

// TickerCoverage describes how much stored history exists for a ticker.
type TickerCoverage struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
	Count    int    `json:"count"`
}

// TickerSummary is the per-ticker history overview shown in the settings UI.
type TickerSummary struct {
	Ticker      string  `json:"ticker"`
	Count       int     `json:"count"`
	Earliest    string  `json:"earliest"`
	Latest      string  `json:"latest"`
	LatestPrice float64 `json:"latestPrice"`
	Currency    string  `json:"currency"`
}

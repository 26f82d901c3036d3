package model

// ValuationPoint is one day of the fiat-total series: total asset value,
// total liability value and the resulting net worth, in the display currency.
type ValuationPoint struct {
	Date           string  `json:"date"`
	AssetValue     float64 `json:"assetValue"`
	LiabilityValue float64 `json:"liabilityValue"`
	NetValue       float64 `json:"netValue"`
}

// BTCEquivalentPoint is one day of net worth expressed as an amount of
// Bitcoin at that day's BTC price. Days without a stored BTC price produce
// no point at all.
type BTCEquivalentPoint struct {
	Date          string  `json:"date"`
	BTCEquivalent float64 `json:"btcEquivalent"`
	NetValue      float64 `json:"netValue"`
	BTCPrice      float64 `json:"btcPrice"`
}

// BTCHoldingsPoint is one day of raw Bitcoin units held. Pure unit count;
// prices are ignored entirely.
type BTCHoldingsPoint struct {
	Date      string  `json:"date"`
	BTCAmount float64 `json:"btcAmount"`
}

// NetWorthSummary aggregates the holdings list into the headline numbers
// shown on the dashboard.
type NetWorthSummary struct {
	TotalAssets      float64           `json:"totalAssets"`
	TotalLiabilities float64           `json:"totalLiabilities"`
	NetWorth         float64           `json:"netWorth"`
	AssetCategories  []CategorySummary `json:"assetCategories"`
	LiabilityGroups  []CategorySummary `json:"liabilityCategories"`
}

// CategorySummary rolls up the holdings of one category.
type CategorySummary struct {
	Category     string  `json:"category"`
	Count        int     `json:"count"`
	TotalCost    float64 `json:"totalCost"`
	CurrentValue float64 `json:"currentValue"`
	ProfitLoss   float64 `json:"profitLoss"`
	ProfitPct    float64 `json:"profitPct"`
}

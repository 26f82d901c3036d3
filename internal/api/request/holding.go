package request

// CreateHoldingRequest represents the request body for creating a new holding.
type CreateHoldingRequest struct {
	Kind          string  `json:"kind"`     // "asset" or "liability"
	Category      string  `json:"category"` // e.g. "Stocks", "Bitcoin", "Mortgage"
	Name          string  `json:"name"`
	Ticker        string  `json:"ticker,omitempty"`
	Quantity      float64 `json:"quantity"`
	PurchaseDate  string  `json:"purchaseDate"`  // YYYY-MM-DD
	PurchaseValue float64 `json:"purchaseValue"` // per-unit cost at purchase
	AutoUpdate    bool    `json:"autoUpdate"`
}

// UpdateHoldingRequest represents the request body for updating an existing
// holding. All fields are optional (use pointers); only provided fields are
// changed.
type UpdateHoldingRequest struct {
	Kind          *string  `json:"kind,omitempty"`
	Category      *string  `json:"category,omitempty"`
	Name          *string  `json:"name,omitempty"`
	Ticker        *string  `json:"ticker,omitempty"`
	Quantity      *float64 `json:"quantity,omitempty"`
	PurchaseDate  *string  `json:"purchaseDate,omitempty"`
	PurchaseValue *float64 `json:"purchaseValue,omitempty"`
	AutoUpdate    *bool    `json:"autoUpdate,omitempty"`
}

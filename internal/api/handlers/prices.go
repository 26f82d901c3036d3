package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tallyhq/networth-backend/internal/api/response"
	"github.com/tallyhq/networth-backend/internal/repository"
	"github.com/tallyhq/networth-backend/internal/service"
)

// PriceHandler handles price refresh, backfill and history HTTP requests
type PriceHandler struct {
	refreshService  *service.RefreshService
	backfillService *service.BackfillService
	priceRepo       *repository.PriceHistoryRepository
}

// NewPriceHandler creates a new PriceHandler
func NewPriceHandler(
	refreshService *service.RefreshService,
	backfillService *service.BackfillService,
	priceRepo *repository.PriceHistoryRepository,
) *PriceHandler {
	return &PriceHandler{
		refreshService:  refreshService,
		backfillService: backfillService,
		priceRepo:       priceRepo,
	}
}

// Refresh fetches current quotes for all auto-updated holdings and rewrites
// their current values. Per-ticker failures are reported in the body, not
// as an HTTP error.
func (h *PriceHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.refreshService.RefreshAll(r.Context(), logProgress("refresh"))
	if err != nil {
		respondServiceError(w, "refresh failed", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// Backfill fetches and stores daily price history for all auto-updated
// holdings from their purchase dates through today.
func (h *PriceHandler) Backfill(w http.ResponseWriter, r *http.Request) {
	result, err := h.backfillService.BackfillAll(r.Context(), logProgress("backfill"))
	if err != nil {
		respondServiceError(w, "backfill failed", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// Recalculate rewrites holding values from the newest stored prices without
// calling any provider.
func (h *PriceHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	result, err := h.refreshService.RecalculateFromHistory(r.Context())
	if err != nil {
		respondServiceError(w, "recalculate failed", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// HistorySummary returns a per-ticker overview of the stored price history.
func (h *PriceHandler) HistorySummary(w http.ResponseWriter, _ *http.Request) {
	summaries, err := h.priceRepo.Summary()
	if err != nil {
		respondServiceError(w, "failed to summarize price history", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, summaries)
}

// TickerHistoryResponse is the stored history for one ticker: the series
// plus its coverage stats.
type TickerHistoryResponse struct {
	Ticker   string             `json:"ticker"`
	Earliest string             `json:"earliest"`
	Latest   string             `json:"latest"`
	Count    int                `json:"count"`
	Prices   map[string]float64 `json:"prices"`
}

// TickerHistory returns the stored series and coverage for one ticker,
// optionally bounded by start/end query parameters.
func (h *PriceHandler) TickerHistory(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))

	coverage, err := h.priceRepo.Coverage(ticker)
	if err != nil {
		respondServiceError(w, "failed to retrieve price history", err)
		return
	}

	series, err := h.priceRepo.Series(ticker, r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		respondServiceError(w, "failed to retrieve price history", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, TickerHistoryResponse{
		Ticker:   ticker,
		Earliest: coverage.Earliest,
		Latest:   coverage.Latest,
		Count:    coverage.Count,
		Prices:   series,
	})
}

func logProgress(job string) service.ProgressFunc {
	return func(ticker string, current, total int) {
		log.Printf("%s: %s (%d/%d)", job, ticker, current, total)
	}
}

package handlers

import (
	"net/http"

	"github.com/tallyhq/networth-backend/internal/api/response"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/service"
)

// NetWorthHandler handles net-worth summary and historical valuation HTTP
// requests
type NetWorthHandler struct {
	valuationService *service.ValuationService
	holdingService   *service.HoldingService
}

// NewNetWorthHandler creates a new NetWorthHandler
func NewNetWorthHandler(valuationService *service.ValuationService, holdingService *service.HoldingService) *NetWorthHandler {
	return &NetWorthHandler{
		valuationService: valuationService,
		holdingService:   holdingService,
	}
}

// Summary returns the aggregated net-worth summary.
func (h *NetWorthHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	summary, err := h.holdingService.NetWorthSummary()
	if err != nil {
		respondServiceError(w, "failed to compute net worth summary", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, summary)
}

// Series returns a historical valuation series. Query parameters: kind
// (fiat-total, btc-equivalent or btc-holdings), start and end (YYYY-MM-DD,
// inclusive). start defaults to 90 days before end, end defaults to today.
func (h *NetWorthHandler) Series(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = service.SeriesFiatTotal
	}

	end := r.URL.Query().Get("end")
	if end == "" {
		end = model.Today()
	}
	start := r.URL.Query().Get("start")
	if start == "" {
		if endDate, err := model.ParseDate(end); err == nil {
			start = model.FormatDate(endDate.AddDate(0, 0, -90))
		}
	}

	points, err := h.valuationService.SeriesByKind(kind, start, end)
	if err != nil {
		respondServiceError(w, "failed to generate valuation series", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, points)
}

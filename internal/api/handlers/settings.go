package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/tallyhq/networth-backend/internal/api/request"
	"github.com/tallyhq/networth-backend/internal/api/response"
	"github.com/tallyhq/networth-backend/internal/service"
)

// SettingsHandler handles settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the current settings with decrypted API keys.
func (h *SettingsHandler) Get(w http.ResponseWriter, _ *http.Request) {
	settings, err := h.settingsService.Get()
	if err != nil {
		respondServiceError(w, "failed to retrieve settings", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, settings)
}

// Update applies the provided settings fields. Omitted fields keep their
// stored values.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	settings, err := h.settingsService.Get()
	if err != nil {
		respondServiceError(w, "failed to retrieve settings", err)
		return
	}

	if req.Currency != nil {
		settings.DisplayCurrency = *req.Currency
	}
	if req.FinnhubAPIKey != nil {
		settings.FinnhubAPIKey = *req.FinnhubAPIKey
	}
	if req.AlphaVantageAPIKey != nil {
		settings.AlphaVantageAPIKey = *req.AlphaVantageAPIKey
	}

	if err := h.settingsService.Update(r.Context(), settings); err != nil {
		respondServiceError(w, "failed to update settings", err)
		return
	}

	updated, err := h.settingsService.Get()
	if err != nil {
		respondServiceError(w, "failed to retrieve settings", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, updated)
}

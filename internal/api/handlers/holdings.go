package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tallyhq/networth-backend/internal/api/request"
	"github.com/tallyhq/networth-backend/internal/api/response"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/service"
)

// HoldingHandler handles holding-related HTTP requests
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService}
}

// List returns all holdings.
func (h *HoldingHandler) List(w http.ResponseWriter, _ *http.Request) {
	holdings, err := h.holdingService.GetAll()
	if err != nil {
		respondServiceError(w, "failed to retrieve holdings", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, holdings)
}

// Get returns a single holding by ID.
func (h *HoldingHandler) Get(w http.ResponseWriter, r *http.Request) {
	holding, err := h.holdingService.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, "failed to retrieve holding", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, holding)
}

// Create stores a new holding from the request body.
func (h *HoldingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holding := model.Holding{
		Kind:          model.HoldingKind(req.Kind),
		Category:      req.Category,
		Name:          req.Name,
		Ticker:        req.Ticker,
		Quantity:      req.Quantity,
		PurchaseDate:  req.PurchaseDate,
		PurchaseValue: req.PurchaseValue,
		AutoUpdate:    req.AutoUpdate,
	}
	if err := h.holdingService.Create(r.Context(), &holding); err != nil {
		respondServiceError(w, "failed to create holding", err)
		return
	}
	response.RespondJSON(w, http.StatusCreated, holding)
}

// Update applies the provided fields to an existing holding.
func (h *HoldingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateHoldingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holding, err := h.holdingService.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, "failed to retrieve holding", err)
		return
	}

	if req.Kind != nil {
		holding.Kind = model.HoldingKind(*req.Kind)
	}
	if req.Category != nil {
		holding.Category = *req.Category
	}
	if req.Name != nil {
		holding.Name = *req.Name
	}
	if req.Ticker != nil {
		holding.Ticker = *req.Ticker
	}
	if req.Quantity != nil {
		holding.Quantity = *req.Quantity
	}
	if req.PurchaseDate != nil {
		holding.PurchaseDate = *req.PurchaseDate
	}
	if req.PurchaseValue != nil {
		holding.PurchaseValue = *req.PurchaseValue
	}
	if req.AutoUpdate != nil {
		holding.AutoUpdate = *req.AutoUpdate
	}

	if err := h.holdingService.Update(r.Context(), &holding); err != nil {
		respondServiceError(w, "failed to update holding", err)
		return
	}
	response.RespondJSON(w, http.StatusOK, holding)
}

// Delete removes a holding.
func (h *HoldingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.holdingService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, "failed to delete holding", err)
		return
	}
	response.RespondJSON(w, http.StatusNoContent, nil)
}

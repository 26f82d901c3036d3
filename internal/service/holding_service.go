package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/repository"
)

// HoldingService contains business logic for holdings: validation, CRUD and
// the net-worth summary aggregation.
type HoldingService struct {
	holdingRepo *repository.HoldingRepository
}

// NewHoldingService creates a new HoldingService.
func NewHoldingService(holdingRepo *repository.HoldingRepository) *HoldingService {
	return &HoldingService{holdingRepo: holdingRepo}
}

// GetAll returns all holdings.
func (s *HoldingService) GetAll() ([]model.Holding, error) {
	return s.holdingRepo.GetAll()
}

// Get returns a single holding by ID.
func (s *HoldingService) Get(id string) (model.Holding, error) {
	if err := validateID(id); err != nil {
		return model.Holding{}, err
	}
	return s.holdingRepo.Get(id)
}

// Create validates and stores a new holding, assigning it an ID.
func (s *HoldingService) Create(ctx context.Context, h *model.Holding) error {
	if err := validateHolding(h); err != nil {
		return err
	}
	h.ID = uuid.New().String()
	h.CurrentValue = 0
	h.LastUpdated = time.Time{}
	return s.holdingRepo.Insert(ctx, h)
}

// Update validates and replaces an existing holding. Engine-maintained
// fields (current value, last updated) are preserved from the stored row.
func (s *HoldingService) Update(ctx context.Context, h *model.Holding) error {
	if err := validateID(h.ID); err != nil {
		return err
	}
	if err := validateHolding(h); err != nil {
		return err
	}

	existing, err := s.holdingRepo.Get(h.ID)
	if err != nil {
		return err
	}
	h.CurrentValue = existing.CurrentValue
	h.LastUpdated = existing.LastUpdated

	// A changed ticker or quantity makes the engine-maintained value stale.
	if existing.ResolveTicker() != h.ResolveTicker() || existing.Quantity != h.Quantity {
		h.CurrentValue = 0
		h.LastUpdated = time.Time{}
	}

	return s.holdingRepo.Update(ctx, h)
}

// Delete removes a holding. Its price history is retained: other holdings
// may share the ticker, and history is never pruned.
func (s *HoldingService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.holdingRepo.Delete(ctx, id)
}

// NetWorthSummary aggregates all holdings into totals and per-category
// rollups. Values are whatever the engines last wrote, falling back to cost
// basis for holdings never refreshed.
func (s *HoldingService) NetWorthSummary() (model.NetWorthSummary, error) {
	holdings, err := s.holdingRepo.GetAll()
	if err != nil {
		return model.NetWorthSummary{}, err
	}

	summary := model.NetWorthSummary{
		AssetCategories: []model.CategorySummary{},
		LiabilityGroups: []model.CategorySummary{},
	}

	assetCategories := map[string]*model.CategorySummary{}
	liabilityCategories := map[string]*model.CategorySummary{}

	for _, h := range holdings {
		value := h.EffectiveValue()
		cost := h.CostBasis()

		var byCategory map[string]*model.CategorySummary
		if h.Kind == model.KindLiability {
			summary.TotalLiabilities += value
			byCategory = liabilityCategories
		} else {
			summary.TotalAssets += value
			byCategory = assetCategories
		}

		cat, ok := byCategory[h.Category]
		if !ok {
			cat = &model.CategorySummary{Category: h.Category}
			byCategory[h.Category] = cat
		}
		cat.Count++
		cat.TotalCost += cost
		cat.CurrentValue += value
	}

	summary.NetWorth = summary.TotalAssets - summary.TotalLiabilities
	summary.AssetCategories = finishCategories(assetCategories)
	summary.LiabilityGroups = finishCategories(liabilityCategories)
	return summary, nil
}

func finishCategories(byCategory map[string]*model.CategorySummary) []model.CategorySummary {
	result := make([]model.CategorySummary, 0, len(byCategory))
	for _, cat := range byCategory {
		cat.ProfitLoss = cat.CurrentValue - cat.TotalCost
		if cat.TotalCost != 0 {
			cat.ProfitPct = cat.ProfitLoss / cat.TotalCost * 100
		}
		result = append(result, *cat)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result
}

func validateID(id string) error {
	if id == "" {
		return apperrors.ErrEmptyID
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

func validateHolding(h *model.Holding) error {
	if h.Kind != model.KindAsset && h.Kind != model.KindLiability {
		return apperrors.ErrInvalidHoldingKind
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name", apperrors.ErrMissingRequiredField)
	}
	if strings.TrimSpace(h.Category) == "" {
		return fmt.Errorf("%w: category", apperrors.ErrMissingRequiredField)
	}
	if !model.IsValidDate(h.PurchaseDate) {
		return fmt.Errorf("%w: purchaseDate %q", apperrors.ErrInvalidDate, h.PurchaseDate)
	}
	if h.Quantity < 0 {
		return fmt.Errorf("%w: quantity", apperrors.ErrNegativeAmount)
	}
	if h.PurchaseValue < 0 {
		return fmt.Errorf("%w: purchaseValue", apperrors.ErrNegativeAmount)
	}
	return nil
}

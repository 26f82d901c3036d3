package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/pricing"
	"github.com/tallyhq/networth-backend/internal/repository"
)

// BackfillResult reports the outcome of a backfill run. A ticker whose
// history was already sufficiently complete counts as backfilled without
// any provider call.
type BackfillResult struct {
	BackfilledTickers []string                 `json:"backfilledTickers"`
	Errors            []*apperrors.TickerError `json:"errors"`
}

// BackfillService fills the price history store with daily closes from each
// holding's purchase date to today, converted to the display currency.
type BackfillService struct {
	holdingRepo *repository.HoldingRepository
	priceRepo   *repository.PriceHistoryRepository
	settings    *SettingsService
	source      PriceSource
	converter   RateConverter
	concurrency int
}

// NewBackfillService creates a BackfillService. concurrency bounds how many
// tickers are fetched in parallel; history calls are expensive, so this is
// typically lower than the refresh budget.
func NewBackfillService(
	holdingRepo *repository.HoldingRepository,
	priceRepo *repository.PriceHistoryRepository,
	settings *SettingsService,
	source PriceSource,
	converter RateConverter,
	concurrency int,
) *BackfillService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BackfillService{
		holdingRepo: holdingRepo,
		priceRepo:   priceRepo,
		settings:    settings,
		source:      source,
		converter:   converter,
		concurrency: concurrency,
	}
}

// historyComplete applies the coverage heuristic: roughly 70% of calendar
// days in the window are trading days, and a ticker whose stored entry
// count reaches 90% of that estimate does not need another fetch.
func historyComplete(coverage model.TickerCoverage, start, end string) bool {
	if coverage.Count == 0 {
		return false
	}
	if coverage.Earliest > start {
		return false
	}
	from, err := model.ParseDate(start)
	if err != nil {
		return false
	}
	to, err := model.ParseDate(end)
	if err != nil {
		return false
	}
	expected := math.Floor(float64(model.DaysBetween(from, to)) * 0.7)
	return float64(coverage.Count) >= expected*0.9
}

// BackfillAll fetches and stores daily price history for every distinct
// ticker among the auto-updated holdings, from the earliest purchase date
// of the holdings sharing that ticker through today. Tickers with already
// complete coverage are skipped. One exchange rate per ticker converts the
// whole series; when no rate is available the series is stored in its
// native currency instead of being discarded. progress may be nil.
func (s *BackfillService) BackfillAll(ctx context.Context, progress ProgressFunc) (BackfillResult, error) {
	result := BackfillResult{
		BackfilledTickers: []string{},
		Errors:            []*apperrors.TickerError{},
	}

	holdings, err := s.holdingRepo.GetAll()
	if err != nil {
		return result, err
	}
	groups := groupByTicker(holdings)
	if len(groups) == 0 {
		return result, nil
	}

	if !s.source.Configured() {
		return result, fmt.Errorf("backfill: %w", apperrors.ErrAPIKeyMissing)
	}

	displayCurrency, err := s.settings.DisplayCurrency()
	if err != nil {
		return result, err
	}

	today := model.Today()
	errs := make([]*apperrors.TickerError, len(groups))
	done := make([]bool, len(groups))

	var mu sync.Mutex
	started := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, group := range groups {
		g.Go(func() error {
			if progress != nil {
				mu.Lock()
				started++
				progress(group.ticker, started, len(groups))
				mu.Unlock()
			}

			if err := s.backfillTicker(gctx, group, displayCurrency, today); err != nil {
				errs[i] = apperrors.NewTickerError(group.ticker, err)
				return nil
			}
			done[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for i, group := range groups {
		if done[i] {
			result.BackfilledTickers = append(result.BackfilledTickers, group.ticker)
		}
		if errs[i] != nil {
			result.Errors = append(result.Errors, errs[i])
		}
	}
	return result, nil
}

func (s *BackfillService) backfillTicker(ctx context.Context, group tickerGroup, displayCurrency, today string) error {
	start := earliestPurchaseDate(group.holdings)
	if start == "" || start > today {
		return apperrors.ErrInvalidDateRange
	}

	coverage, err := s.priceRepo.Coverage(group.ticker)
	if err != nil {
		return err
	}
	if historyComplete(coverage, start, today) {
		return nil
	}

	series, err := s.source.History(ctx, group.ticker, start, today)
	if err != nil {
		return err
	}

	// Providers can return data outside the requested window; the store
	// only wants the window itself.
	for date := range series {
		if date < start || date > today {
			delete(series, date)
		}
	}
	if len(series) == 0 {
		return apperrors.ErrNoData
	}

	// One rate converts the whole series. When no rate is available the
	// native series is stored rather than lost; a later run with a working
	// rate provider overwrites it.
	currency := displayCurrency
	native := pricing.NativeCurrency(group.ticker)
	rate, err := s.converter.Rate(ctx, native, displayCurrency)
	if err != nil {
		log.Printf("backfill: storing %s history in %s, no rate to %s: %v",
			group.ticker, native, displayCurrency, err)
		currency = native
		rate = 1
	}

	converted := make(model.PriceSeries, len(series))
	for date, price := range series {
		converted[date] = price * rate
	}

	return s.priceRepo.Merge(ctx, group.ticker, converted, currency)
}

// earliestPurchaseDate returns the oldest valid purchase date among the
// holdings, or "" when none have one.
func earliestPurchaseDate(holdings []model.Holding) string {
	earliest := ""
	for _, h := range holdings {
		if !model.IsValidDate(h.PurchaseDate) {
			continue
		}
		if earliest == "" || h.PurchaseDate < earliest {
			earliest = h.PurchaseDate
		}
	}
	return earliest
}

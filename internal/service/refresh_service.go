package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/pricing"
	"github.com/tallyhq/networth-backend/internal/repository"
)

// PriceSource is the routed quote/history source the batch engines fetch
// from. Implemented by pricing.Router.
type PriceSource interface {
	Configured() bool
	Quote(ctx context.Context, ticker string) (float64, error)
	History(ctx context.Context, ticker, start, end string) (model.PriceSeries, error)
}

// RateConverter converts provider prices into the display currency.
// Implemented by pricing.Converter.
type RateConverter interface {
	ConvertStockPrice(ctx context.Context, ticker string, price float64, displayCurrency string) pricing.Conversion
	Rate(ctx context.Context, from, to string) (float64, error)
}

// ProgressFunc is called once per ticker as a batch run proceeds, before
// the ticker is fetched.
type ProgressFunc func(ticker string, current, total int)

// RefreshResult reports the outcome of a refresh run: the holdings that
// received a new current value, and the per-ticker failures. A run with
// errors is still a success for every other ticker.
type RefreshResult struct {
	UpdatedItems []model.Holding          `json:"updatedItems"`
	Errors       []*apperrors.TickerError `json:"errors"`
}

// RefreshService updates the current value of every auto-updated holding
// from live quotes, persisting each fetched price into the history store as
// today's entry.
type RefreshService struct {
	holdingRepo *repository.HoldingRepository
	priceRepo   *repository.PriceHistoryRepository
	settings    *SettingsService
	source      PriceSource
	converter   RateConverter
	concurrency int
}

// NewRefreshService creates a RefreshService. concurrency bounds how many
// tickers are fetched in parallel.
func NewRefreshService(
	holdingRepo *repository.HoldingRepository,
	priceRepo *repository.PriceHistoryRepository,
	settings *SettingsService,
	source PriceSource,
	converter RateConverter,
	concurrency int,
) *RefreshService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &RefreshService{
		holdingRepo: holdingRepo,
		priceRepo:   priceRepo,
		settings:    settings,
		source:      source,
		converter:   converter,
		concurrency: concurrency,
	}
}

// tickerGroup is the set of holdings sharing one resolved ticker. Tickers
// are processed once per run no matter how many holdings reference them.
type tickerGroup struct {
	ticker   string
	holdings []model.Holding
}

// groupByTicker collects auto-updated holdings by resolved ticker,
// preserving first-encounter order so batch results are deterministic.
func groupByTicker(holdings []model.Holding) []tickerGroup {
	index := map[string]int{}
	var groups []tickerGroup
	for _, h := range holdings {
		ticker := h.ResolveTicker()
		if ticker == "" {
			continue
		}
		i, ok := index[ticker]
		if !ok {
			i = len(groups)
			index[ticker] = i
			groups = append(groups, tickerGroup{ticker: ticker})
		}
		groups[i].holdings = append(groups[i].holdings, h)
	}
	return groups
}

// RefreshAll fetches a current quote for every distinct ticker among the
// auto-updated holdings, converts it to the display currency, stores it as
// today's history entry and rewrites each affected holding's current value.
// Fails fast when no provider is configured; individual ticker failures are
// collected, never fatal. progress may be nil.
func (s *RefreshService) RefreshAll(ctx context.Context, progress ProgressFunc) (RefreshResult, error) {
	result := RefreshResult{UpdatedItems: []model.Holding{}, Errors: []*apperrors.TickerError{}}

	holdings, err := s.holdingRepo.GetAll()
	if err != nil {
		return result, err
	}
	groups := groupByTicker(holdings)
	if len(groups) == 0 {
		return result, nil
	}

	if !s.source.Configured() {
		return result, fmt.Errorf("refresh: %w", apperrors.ErrAPIKeyMissing)
	}

	displayCurrency, err := s.settings.DisplayCurrency()
	if err != nil {
		return result, err
	}

	type quoteResult struct {
		conv pricing.Conversion
		err  error
	}
	quotes := make([]quoteResult, len(groups))

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

			price, err := s.source.Quote(gctx, group.ticker)
			if err != nil {
				quotes[i] = quoteResult{err: err}
				return nil
			}
			conv := s.converter.ConvertStockPrice(gctx, group.ticker, price, displayCurrency)
			quotes[i] = quoteResult{conv: conv}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	today := model.Today()
	now := time.Now().UTC()

	for i, group := range groups {
		q := quotes[i]
		if q.err != nil {
			result.Errors = append(result.Errors, apperrors.NewTickerError(group.ticker, q.err))
			continue
		}
		if q.conv.Degraded {
			log.Printf("refresh: storing %s price in %s, no rate to %s",
				group.ticker, q.conv.Currency, displayCurrency)
		}

		series := model.PriceSeries{today: q.conv.Value}
		if err := s.priceRepo.Merge(ctx, group.ticker, series, q.conv.Currency); err != nil {
			result.Errors = append(result.Errors, apperrors.NewTickerError(group.ticker, err))
			continue
		}

		for _, h := range group.holdings {
			value := q.conv.Value * quantityOrOne(h.Quantity)
			if err := s.holdingRepo.UpdateValue(ctx, h.ID, value, now); err != nil {
				result.Errors = append(result.Errors, apperrors.NewTickerError(group.ticker, err))
				continue
			}
			h.CurrentValue = value
			h.LastUpdated = now
			result.UpdatedItems = append(result.UpdatedItems, h)
		}
	}

	return result, nil
}

// RecalculateFromHistory rewrites every auto-updated holding's current
// value from the newest stored price, without touching any provider. Used
// after a backfill or a currency change re-import to bring holdings in line
// with the store.
func (s *RefreshService) RecalculateFromHistory(ctx context.Context) (RefreshResult, error) {
	result := RefreshResult{UpdatedItems: []model.Holding{}, Errors: []*apperrors.TickerError{}}

	holdings, err := s.holdingRepo.GetAll()
	if err != nil {
		return result, err
	}

	now := time.Now().UTC()
	for _, group := range groupByTicker(holdings) {
		price, _, found, err := s.priceRepo.Latest(group.ticker)
		if err != nil {
			result.Errors = append(result.Errors, apperrors.NewTickerError(group.ticker, err))
			continue
		}
		if !found {
			result.Errors = append(result.Errors,
				apperrors.NewTickerError(group.ticker, apperrors.ErrPriceNotFound))
			continue
		}
		for _, h := range group.holdings {
			value := price * quantityOrOne(h.Quantity)
			if err := s.holdingRepo.UpdateValue(ctx, h.ID, value, now); err != nil {
				result.Errors = append(result.Errors, apperrors.NewTickerError(group.ticker, err))
				continue
			}
			h.CurrentValue = value
			h.LastUpdated = now
			result.UpdatedItems = append(result.UpdatedItems, h)
		}
	}

	return result, nil
}

func quantityOrOne(q float64) float64 {
	if q == 0 {
		return 1
	}
	return q
}

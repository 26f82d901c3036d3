package service

import (
	"fmt"
	"sort"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
	"github.com/tallyhq/networth-backend/internal/repository"
)

// Valuation series kinds accepted by SeriesByKind.
const (
	SeriesFiatTotal     = "fiat-total"
	SeriesBTCEquivalent = "btc-equivalent"
	SeriesBTCHoldings   = "btc-holdings"
)

// ValuationService derives historical net-worth series from the holdings
// and the stored price history. It never fetches: days the store cannot
// answer for fall back to cost basis (fiat) or are omitted (BTC terms).
type ValuationService struct {
	holdingRepo *repository.HoldingRepository
	priceRepo   *repository.PriceHistoryRepository
}

// NewValuationService creates a new ValuationService.
func NewValuationService(holdingRepo *repository.HoldingRepository, priceRepo *repository.PriceHistoryRepository) *ValuationService {
	return &ValuationService{holdingRepo: holdingRepo, priceRepo: priceRepo}
}

// sortedSeries is one ticker's stored history with dates pre-sorted for
// binary-search lookups.
type sortedSeries struct {
	dates  []string
	prices model.PriceSeries
}

// priceOn returns the price on date, or the most recent prior price. The
// boolean is false when the series has no entry on or before date.
func (s *sortedSeries) priceOn(date string) (float64, bool) {
	if s == nil || len(s.dates) == 0 {
		return 0, false
	}
	idx := sort.SearchStrings(s.dates, date)
	if idx < len(s.dates) && s.dates[idx] == date {
		return s.prices[s.dates[idx]], true
	}
	if idx == 0 {
		return 0, false
	}
	return s.prices[s.dates[idx-1]], true
}

// seriesContext is everything one valuation pass needs: the holdings and
// the preloaded per-ticker history up to the series end date.
type seriesContext struct {
	holdings []model.Holding
	byTicker map[string]*sortedSeries
}

func (s *ValuationService) loadContext(end string, extraTickers ...string) (*seriesContext, error) {
	holdings, err := s.holdingRepo.GetAll()
	if err != nil {
		return nil, err
	}

	sc := &seriesContext{holdings: holdings, byTicker: map[string]*sortedSeries{}}

	want := map[string]bool{}
	for _, h := range holdings {
		if ticker := h.ResolveTicker(); ticker != "" {
			want[ticker] = true
		}
	}
	for _, ticker := range extraTickers {
		want[ticker] = true
	}

	for ticker := range want {
		series, err := s.priceRepo.Series(ticker, "", end)
		if err != nil {
			return nil, err
		}
		sorted := &sortedSeries{prices: series, dates: make([]string, 0, len(series))}
		for date := range series {
			sorted.dates = append(sorted.dates, date)
		}
		sort.Strings(sorted.dates)
		sc.byTicker[ticker] = sorted
	}
	return sc, nil
}

// valueOn returns a holding's total value on a date. Holdings not yet
// purchased on the date contribute nothing. Auto-updated holdings use the
// nearest prior stored price; without one, and for manual holdings, the
// holding's effective value stands in.
func (sc *seriesContext) valueOn(h model.Holding, date string) (float64, bool) {
	if h.PurchaseDate > date {
		return 0, false
	}
	if ticker := h.ResolveTicker(); ticker != "" {
		if price, ok := sc.byTicker[ticker].priceOn(date); ok {
			return price * quantityOrOne(h.Quantity), true
		}
		return h.CostBasis(), true
	}
	return h.EffectiveValue(), true
}

func (sc *seriesContext) netOn(date string) (assets, liabilities float64) {
	for _, h := range sc.holdings {
		value, owned := sc.valueOn(h, date)
		if !owned {
			continue
		}
		if h.Kind == model.KindLiability {
			liabilities += value
		} else {
			assets += value
		}
	}
	return assets, liabilities
}

// FiatSeries produces one point per calendar day in [start, end]: total
// assets, total liabilities and net worth in the display currency.
func (s *ValuationService) FiatSeries(start, end string) ([]model.ValuationPoint, error) {
	dates, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}
	sc, err := s.loadContext(end)
	if err != nil {
		return nil, err
	}

	points := make([]model.ValuationPoint, 0, len(dates))
	for _, date := range dates {
		assets, liabilities := sc.netOn(date)
		points = append(points, model.ValuationPoint{
			Date:           date,
			AssetValue:     assets,
			LiabilityValue: liabilities,
			NetValue:       assets - liabilities,
		})
	}
	return points, nil
}

// BTCEquivalentSeries expresses daily net worth as an amount of Bitcoin at
// that day's stored BTC price. Days without a BTC price produce no point;
// the series is sparse rather than zero-filled.
func (s *ValuationService) BTCEquivalentSeries(start, end string) ([]model.BTCEquivalentPoint, error) {
	dates, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}
	sc, err := s.loadContext(end, "BTC")
	if err != nil {
		return nil, err
	}
	btc := sc.byTicker["BTC"]

	points := make([]model.BTCEquivalentPoint, 0, len(dates))
	for _, date := range dates {
		btcPrice, ok := btc.priceOn(date)
		if !ok || btcPrice == 0 {
			continue
		}
		assets, liabilities := sc.netOn(date)
		net := assets - liabilities
		points = append(points, model.BTCEquivalentPoint{
			Date:          date,
			BTCEquivalent: net / btcPrice,
			NetValue:      net,
			BTCPrice:      btcPrice,
		})
	}
	return points, nil
}

// BTCHoldingsSeries counts raw Bitcoin units held per day. Prices and the
// auto-update flag play no part; a day's amount is the summed quantity of
// every Bitcoin-category asset holding purchased on or before it, so a
// manually tracked wallet counts the same as an auto-updated one.
func (s *ValuationService) BTCHoldingsSeries(start, end string) ([]model.BTCHoldingsPoint, error) {
	dates, err := validateRange(start, end)
	if err != nil {
		return nil, err
	}
	holdings, err := s.holdingRepo.GetAll()
	if err != nil {
		return nil, err
	}

	var btcHoldings []model.Holding
	for _, h := range holdings {
		if h.Kind != model.KindLiability && h.Category == model.CategoryBitcoin {
			btcHoldings = append(btcHoldings, h)
		}
	}

	points := make([]model.BTCHoldingsPoint, 0, len(dates))
	for _, date := range dates {
		amount := 0.0
		for _, h := range btcHoldings {
			if h.PurchaseDate <= date {
				amount += h.Quantity
			}
		}
		points = append(points, model.BTCHoldingsPoint{Date: date, BTCAmount: amount})
	}
	return points, nil
}

// SeriesByKind dispatches to the series generator named by kind. The
// result is whichever point slice the kind produces.
func (s *ValuationService) SeriesByKind(kind, start, end string) (any, error) {
	switch kind {
	case SeriesFiatTotal:
		return s.FiatSeries(start, end)
	case SeriesBTCEquivalent:
		return s.BTCEquivalentSeries(start, end)
	case SeriesBTCHoldings:
		return s.BTCHoldingsSeries(start, end)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidSeriesKind, kind)
	}
}

func validateRange(start, end string) ([]string, error) {
	if !model.IsValidDate(start) {
		return nil, fmt.Errorf("%w: start %q", apperrors.ErrInvalidDate, start)
	}
	if !model.IsValidDate(end) {
		return nil, fmt.Errorf("%w: end %q", apperrors.ErrInvalidDate, end)
	}
	if start > end {
		return nil, fmt.Errorf("%w: %s to %s", apperrors.ErrInvalidDateRange, start, end)
	}
	return model.DateRange(start, end), nil
}

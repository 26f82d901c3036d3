package testutil

import (
	"database/sql"
	"testing"

	"github.com/tallyhq/networth-backend/internal/pricing"
	"github.com/tallyhq/networth-backend/internal/repository"
	"github.com/tallyhq/networth-backend/internal/service"
)

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(repository.NewHoldingRepository(db))
}

// NewTestSettingsService builds a settings service with no encryption and
// no live provider clients.
func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	return service.NewSettingsService(
		repository.NewSettingsRepository(db),
		nil, "", "", nil, nil, nil,
	)
}

// NewTestRefreshService builds a refresh service over the given mocks with
// a concurrency budget of 2.
func NewTestRefreshService(t *testing.T, db *sql.DB, source service.PriceSource, rates pricing.RateSource) *service.RefreshService {
	t.Helper()

	return service.NewRefreshService(
		repository.NewHoldingRepository(db),
		repository.NewPriceHistoryRepository(db),
		NewTestSettingsService(t, db),
		source,
		pricing.NewConverter(rates),
		2,
	)
}

// NewTestBackfillService builds a backfill service over the given mocks
// with a concurrency budget of 2.
func NewTestBackfillService(t *testing.T, db *sql.DB, source service.PriceSource, rates pricing.RateSource) *service.BackfillService {
	t.Helper()

	return service.NewBackfillService(
		repository.NewHoldingRepository(db),
		repository.NewPriceHistoryRepository(db),
		NewTestSettingsService(t, db),
		source,
		pricing.NewConverter(rates),
		2,
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		repository.NewHoldingRepository(db),
		repository.NewPriceHistoryRepository(db),
	)
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
)

// PriceHistoryRepository is the persisted price history store: one row per
// (ticker, date), merged by upsert and never pruned. It backs both the
// backfill/refresh engines (writes) and the valuation generator (reads).
type PriceHistoryRepository struct {
	db *sql.DB
}

// NewPriceHistoryRepository creates a new PriceHistoryRepository with the
// provided database connection.
func NewPriceHistoryRepository(db *sql.DB) *PriceHistoryRepository {
	return &PriceHistoryRepository{db: db}
}

// Merge upserts a price series for a ticker. Existing dates are overwritten
// (last write wins per date), other dates are untouched, nothing is ever
// deleted. Dates must be valid YYYY-MM-DD values no later than today;
// malformed dates fail the merge and future dates are skipped.
func (r *PriceHistoryRepository) Merge(ctx context.Context, ticker string, series model.PriceSeries, currency string) error {
	if len(series) == 0 {
		return nil
	}

	today := model.Today()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin price merge: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
        INSERT INTO price_history (id, ticker, date, price, currency)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(ticker, date) DO UPDATE SET
            price = excluded.price,
            currency = excluded.currency
    `)
	if err != nil {
		return fmt.Errorf("failed to prepare price upsert: %w", err)
	}
	defer stmt.Close()

	for date, price := range series {
		if !model.IsValidDate(date) {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidDate, date)
		}
		if date > today {
			continue
		}
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), ticker, date, price, currency); err != nil {
			return fmt.Errorf("failed to upsert price for %s on %s: %w", ticker, date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price merge: %w", err)
	}

	return nil
}

// GetOnDate returns the stored price for a ticker on a date: the exact match
// if present, otherwise the most recent entry on or before the date. The
// boolean is false when the series is empty or the date predates all
// entries. Never interpolates, never zero-fills.
func (r *PriceHistoryRepository) GetOnDate(ticker, date string) (float64, bool, error) {
	var price float64
	err := r.db.QueryRow(`
        SELECT price FROM price_history
        WHERE ticker = ? AND date <= ?
        ORDER BY date DESC
        LIMIT 1
    `, ticker, date).Scan(&price)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query price for %s on %s: %w", ticker, date, err)
	}
	return price, true, nil
}

// Series returns all stored prices for a ticker, optionally bounded by
// start/end dates (inclusive, empty string means unbounded).
func (r *PriceHistoryRepository) Series(ticker, start, end string) (model.PriceSeries, error) {
	query := `SELECT date, price FROM price_history WHERE ticker = ?`
	args := []any{ticker}

	if start != "" {
		query += ` AND date >= ?`
		args = append(args, start)
	}
	if end != "" {
		query += ` AND date <= ?`
		args = append(args, end)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for %s: %w", ticker, err)
	}
	defer rows.Close()

	series := model.PriceSeries{}
	for rows.Next() {
		var date string
		var price float64
		if err := rows.Scan(&date, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price history row: %w", err)
		}
		series[date] = price
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return series, nil
}

// Coverage reports the earliest date, latest date and entry count stored for
// a ticker. A ticker with no history returns a zero-valued coverage.
func (r *PriceHistoryRepository) Coverage(ticker string) (model.TickerCoverage, error) {
	var coverage model.TickerCoverage
	var earliest, latest sql.NullString

	err := r.db.QueryRow(`
        SELECT MIN(date), MAX(date), COUNT(*) FROM price_history WHERE ticker = ?
    `, ticker).Scan(&earliest, &latest, &coverage.Count)
	if err != nil {
		return model.TickerCoverage{}, fmt.Errorf("failed to query coverage for %s: %w", ticker, err)
	}

	coverage.Earliest = earliest.String
	coverage.Latest = latest.String
	return coverage, nil
}

// Latest returns the most recent stored price and its date for a ticker.
func (r *PriceHistoryRepository) Latest(ticker string) (price float64, date string, found bool, err error) {
	row := r.db.QueryRow(`
        SELECT price, date FROM price_history
        WHERE ticker = ?
        ORDER BY date DESC
        LIMIT 1
    `, ticker)
	if err := row.Scan(&price, &date); err != nil {
		if err == sql.ErrNoRows {
			return 0, "", false, nil
		}
		return 0, "", false, fmt.Errorf("failed to query latest price for %s: %w", ticker, err)
	}
	return price, date, true, nil
}

// Summary returns a per-ticker overview of the stored history, newest price
// included, ordered by ticker.
func (r *PriceHistoryRepository) Summary() ([]model.TickerSummary, error) {
	rows, err := r.db.Query(`
        SELECT ph.ticker, agg.cnt, agg.earliest, agg.latest, ph.price, ph.currency
        FROM price_history ph
        INNER JOIN (
            SELECT ticker, COUNT(*) AS cnt, MIN(date) AS earliest, MAX(date) AS latest
            FROM price_history
            GROUP BY ticker
        ) agg ON ph.ticker = agg.ticker AND ph.date = agg.latest
        ORDER BY ph.ticker
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history summary: %w", err)
	}
	defer rows.Close()

	summaries := []model.TickerSummary{}
	for rows.Next() {
		var s model.TickerSummary
		if err := rows.Scan(&s.Ticker, &s.Count, &s.Earliest, &s.Latest, &s.LatestPrice, &s.Currency); err != nil {
			return nil, fmt.Errorf("failed to scan price history summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history summary: %w", err)
	}

	return summaries, nil
}

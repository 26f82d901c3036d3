package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tallyhq/networth-backend/internal/apperrors"
	"github.com/tallyhq/networth-backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided
// database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

const holdingColumns = `id, kind, category, name, ticker, quantity, purchase_date, purchase_value, auto_update, current_value, last_updated`

func scanHolding(scanner interface{ Scan(...any) error }) (model.Holding, error) {
	var h model.Holding
	var ticker sql.NullString
	var lastUpdated sql.NullTime

	err := scanner.Scan(
		&h.ID,
		&h.Kind,
		&h.Category,
		&h.Name,
		&ticker,
		&h.Quantity,
		&h.PurchaseDate,
		&h.PurchaseValue,
		&h.AutoUpdate,
		&h.CurrentValue,
		&lastUpdated,
	)
	if err != nil {
		return model.Holding{}, err
	}

	h.Ticker = ticker.String
	if lastUpdated.Valid {
		h.LastUpdated = lastUpdated.Time
	}
	return h, nil
}

// GetAll retrieves all holdings, assets first, oldest purchases first.
func (r *HoldingRepository) GetAll() ([]model.Holding, error) {
	rows, err := r.db.Query(`
        SELECT ` + holdingColumns + `
        FROM holding
        ORDER BY kind, purchase_date, id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding row: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// Get retrieves a single holding by ID.
func (r *HoldingRepository) Get(id string) (model.Holding, error) {
	row := r.db.QueryRow(`SELECT `+holdingColumns+` FROM holding WHERE id = ?`, id)

	h, err := scanHolding(row)
	if err == sql.ErrNoRows {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding %s: %w", id, err)
	}
	return h, nil
}

// Insert stores a new holding.
func (r *HoldingRepository) Insert(ctx context.Context, h *model.Holding) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO holding (`+holdingColumns+`)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		h.ID, h.Kind, h.Category, h.Name, nullString(h.Ticker), h.Quantity,
		h.PurchaseDate, h.PurchaseValue, h.AutoUpdate, h.CurrentValue, nullTime(h.LastUpdated),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of a holding.
func (r *HoldingRepository) Update(ctx context.Context, h *model.Holding) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE holding
        SET kind = ?, category = ?, name = ?, ticker = ?, quantity = ?,
            purchase_date = ?, purchase_value = ?, auto_update = ?,
            current_value = ?, last_updated = ?
        WHERE id = ?
    `,
		h.Kind, h.Category, h.Name, nullString(h.Ticker), h.Quantity,
		h.PurchaseDate, h.PurchaseValue, h.AutoUpdate, h.CurrentValue, nullTime(h.LastUpdated),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding %s: %w", h.ID, err)
	}
	return requireRowAffected(result)
}

// UpdateValue persists the engine-maintained fields of a holding.
func (r *HoldingRepository) UpdateValue(ctx context.Context, id string, currentValue float64, lastUpdated time.Time) error {
	result, err := r.db.ExecContext(ctx, `
        UPDATE holding SET current_value = ?, last_updated = ? WHERE id = ?
    `, currentValue, lastUpdated.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update holding value %s: %w", id, err)
	}
	return requireRowAffected(result)
}

// Delete removes a holding.
func (r *HoldingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holding WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", id, err)
	}
	return requireRowAffected(result)
}

func requireRowAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t.UTC(), Valid: !t.IsZero()}
}

package deals

import (
	"context"
	"database/sql"
	"fmt"

	"gamestore/pkg/models"
)

// Drop is a cheapest-price decrease detected between refresh cycles.
type Drop struct {
	Title    string
	OldPrice float64
	NewPrice float64
	StoreID  string
}

// FloorRepo tracks the last known cheapest sale price per normalized
// title. Raw listings themselves are never persisted; this is the only
// deal state that survives a refresh cycle.
type FloorRepo struct {
	DB *sql.DB
}

func NewFloorRepo(db *sql.DB) *FloorRepo {
	return &FloorRepo{DB: db}
}

// RecordAndDetect compares consolidated deals against the stored floors,
// returns the titles whose cheapest price went down, and writes the new
// floors.
func (r *FloorRepo) RecordAndDetect(ctx context.Context, consolidated []models.ConsolidatedDeal) ([]Drop, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin floors: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_floor (title_key, title, cheapest, store_id, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(title_key) DO UPDATE SET
			title = excluded.title,
			cheapest = excluded.cheapest,
			store_id = excluded.store_id,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare floor upsert: %w", err)
	}
	defer stmt.Close()

	var drops []Drop
	for _, d := range consolidated {
		key := TitleKey(d.Title)

		var prev float64
		err := tx.QueryRowContext(ctx, `
			SELECT cheapest FROM price_floor WHERE title_key = ?
		`, key).Scan(&prev)
		switch {
		case err == sql.ErrNoRows:
			// first sighting, no drop to report
		case err != nil:
			return nil, fmt.Errorf("read floor %s: %w", key, err)
		case d.CheapestPrice < prev:
			drops = append(drops, Drop{
				Title:    d.Title,
				OldPrice: prev,
				NewPrice: d.CheapestPrice,
				StoreID:  d.CheapestDeal.StoreID,
			})
		}

		if _, err := stmt.ExecContext(ctx, key, d.Title, d.CheapestPrice, d.CheapestDeal.StoreID); err != nil {
			return nil, fmt.Errorf("write floor %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit floors: %w", err)
	}
	return drops, nil
}

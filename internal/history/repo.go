package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gamestore/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Add(ctx context.Context, ev models.ViewEvent) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO view_history (user_id, game_id, viewed_at)
		VALUES (?, ?, ?)
	`, ev.UserID, ev.GameID, ev.ViewedAt)
	if err != nil {
		return fmt.Errorf("add view event: %w", err)
	}
	return nil
}

// List returns the user's most recent views, newest first.
func (r *Repo) List(ctx context.Context, userID string, limit, offset int) ([]models.ViewEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, game_id, viewed_at
		FROM view_history
		WHERE user_id = ?
		ORDER BY viewed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list view history: %w", err)
	}
	defer rows.Close()

	out := make([]models.ViewEvent, 0, limit)
	for rows.Next() {
		var ev models.ViewEvent
		var at time.Time
		if err := rows.Scan(&ev.UserID, &ev.GameID, &at); err != nil {
			return nil, fmt.Errorf("scan view event: %w", err)
		}
		ev.ViewedAt = at
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

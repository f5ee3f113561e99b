package favorites

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

func (r *Repo) Add(ctx context.Context, fav models.Favorite) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO favorites (user_id, game_id, game_name, added_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, game_id) DO NOTHING
	`, fav.UserID, fav.GameID, fav.GameName)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, gameID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = ? AND game_id = ?
	`, userID, gameID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) List(ctx context.Context, userID string, limit, offset int) ([]models.Favorite, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE user_id = ?
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, game_id, game_name, added_at
		FROM favorites
		WHERE user_id = ?
		ORDER BY added_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]models.Favorite, 0, limit)
	for rows.Next() {
		var f models.Favorite
		var added time.Time
		if err := rows.Scan(&f.UserID, &f.GameID, &f.GameName, &added); err != nil {
			return nil, 0, fmt.Errorf("scan favorite: %w", err)
		}
		f.AddedAt = added
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

func (r *Repo) Has(ctx context.Context, userID, gameID string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, `
		SELECT 1 FROM favorites WHERE user_id = ? AND game_id = ?
	`, userID, gameID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("has favorite: %w", err)
	}
	return true, nil
}

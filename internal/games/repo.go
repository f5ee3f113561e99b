package games

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"gamestore/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q         string   // keyword search in name/slug
	Genres    []string // any-match
	Platforms []string // any-match
	Ordering  string   // name | -name | rating | -rating | released | -released | price | -price
	Limit     int
	Offset    int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Game, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, slug, genres, platforms, released, rating, price, background_image, description, catalog_id
		FROM games
		WHERE id = ?
	`, id)

	g, err := scanGame(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return g, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Game, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Game, 0, q.Limit)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Upsert writes one catalog row; cmd/refresh and cmd/import-csv feed it.
func (r *Repo) Upsert(ctx context.Context, g models.Game) error {
	genresJSON, err := json.Marshal(g.Genres)
	if err != nil {
		return fmt.Errorf("marshal genres for %s: %w", g.ID, err)
	}
	platformsJSON, err := json.Marshal(g.Platforms)
	if err != nil {
		return fmt.Errorf("marshal platforms for %s: %w", g.ID, err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO games (id, name, slug, genres, platforms, released, rating, price, background_image, description, catalog_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  name = excluded.name,
		  slug = excluded.slug,
		  genres = excluded.genres,
		  platforms = excluded.platforms,
		  released = excluded.released,
		  rating = excluded.rating,
		  price = excluded.price,
		  background_image = excluded.background_image,
		  description = excluded.description,
		  catalog_id = excluded.catalog_id
	`, g.ID, g.Name, nullable(g.Slug), string(genresJSON), string(platformsJSON),
		nullable(g.Released), g.Rating, g.Price, nullable(g.BackgroundImage),
		nullable(g.Description), g.CatalogID)
	if err != nil {
		return fmt.Errorf("upsert game %s: %w", g.ID, err)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanGame(row scannable) (*models.Game, error) {
	var (
		g             models.Game
		slug          sql.NullString
		genresJSON    sql.NullString
		platformsJSON sql.NullString
		released      sql.NullString
		image         sql.NullString
		description   sql.NullString
		catalogID     sql.NullInt64
	)

	if err := row.Scan(
		&g.ID, &g.Name, &slug, &genresJSON, &platformsJSON, &released,
		&g.Rating, &g.Price, &image, &description, &catalogID,
	); err != nil {
		return nil, err
	}

	g.Slug = slug.String
	g.Released = released.String
	g.BackgroundImage = image.String
	g.Description = description.String
	if catalogID.Valid {
		g.CatalogID = int(catalogID.Int64)
	}
	g.Genres = []string{}
	if genresJSON.Valid {
		_ = json.Unmarshal([]byte(genresJSON.String), &g.Genres)
	}
	if platformsJSON.Valid {
		_ = json.Unmarshal([]byte(platformsJSON.String), &g.Platforms)
	}
	return &g, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
// genre/platform filters are "any-match" LIKE searches inside stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT id, name, slug, genres, platforms, released, rating, price, background_image, description, catalog_id
		FROM games
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM games`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(slug) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if clause, clauseArgs := anyMatchJSON("genres", q.Genres); clause != "" {
		where = append(where, clause)
		args = append(args, clauseArgs...)
	}
	if clause, clauseArgs := anyMatchJSON("platforms", q.Platforms); clause != "" {
		where = append(where, clause)
		args = append(args, clauseArgs...)
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY " + orderClause(q.Ordering)
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}

func anyMatchJSON(column string, values []string) (string, []any) {
	var ors []string
	var args []any
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		ors = append(ors, "LOWER("+column+") LIKE ?")
		args = append(args, "%"+strings.ToLower(v)+"%")
	}
	if len(ors) == 0 {
		return "", nil
	}
	return "(" + strings.Join(ors, " OR ") + ")", args
}

func orderClause(ordering string) string {
	switch strings.TrimSpace(ordering) {
	case "name", "":
		return "name ASC"
	case "-name":
		return "name DESC"
	case "rating":
		return "rating ASC"
	case "-rating":
		return "rating DESC"
	case "released":
		return "released ASC"
	case "-released":
		return "released DESC"
	case "price":
		return "price ASC"
	case "-price":
		return "price DESC"
	default:
		return "name ASC"
	}
}

func nullable(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

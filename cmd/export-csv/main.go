// export-csv dumps the curated games table and the order history straight
// from the local database. The games CSV round-trips through
// cmd/import-csv.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gamestore/pkg/database"
)

func main() {
	var (
		gamesOut  = flag.String("games", "data/games.csv", "output CSV path for games")
		ordersOut = flag.String("orders", "data/orders.csv", "output CSV path for orders")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportGames(ctx, db, *gamesOut); err != nil {
		log.Fatalf("export games failed: %v", err)
	}
	if err := exportOrders(ctx, db, *ordersOut); err != nil {
		log.Fatalf("export orders failed: %v", err)
	}

	log.Printf("exported games to %s and orders to %s", *gamesOut, *ordersOut)
}

func exportGames(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "name", "genres", "platforms", "released", "rating", "price", "background_image"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, name, genres, platforms, released, rating, price, background_image
        FROM games
        ORDER BY name
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        string
			name      string
			genres    sql.NullString
			platforms sql.NullString
			released  sql.NullString
			rating    float64
			price     float64
			image     sql.NullString
		)

		if err := rows.Scan(&id, &name, &genres, &platforms, &released, &rating, &price, &image); err != nil {
			return err
		}

		if err := w.Write([]string{
			id,
			name,
			jsonListToCSV(genres.String),
			jsonListToCSV(platforms.String),
			released.String,
			strconv.FormatFloat(rating, 'f', 2, 64),
			strconv.FormatFloat(price, 'f', 2, 64),
			image.String,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportOrders(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"order_id", "user_id", "game_id", "game_name", "unit_price", "quantity", "created_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT o.id, o.user_id, i.game_id, i.game_name, i.unit_price, i.quantity, o.created_at
        FROM orders o
        JOIN order_items i ON i.order_id = o.id
        ORDER BY o.created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID   string
			userID    string
			gameID    string
			gameName  string
			unitPrice float64
			quantity  int64
			createdAt sql.NullTime
		)

		if err := rows.Scan(&orderID, &userID, &gameID, &gameName, &unitPrice, &quantity, &createdAt); err != nil {
			return err
		}

		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			orderID,
			userID,
			gameID,
			gameName,
			strconv.FormatFloat(unitPrice, 'f', 2, 64),
			strconv.FormatInt(quantity, 10),
			created,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

// jsonListToCSV turns the stored JSON array text (e.g. ["Action","Indie"])
// into the comma-joined form cmd/import-csv reads back.
func jsonListToCSV(raw string) string {
	if raw == "" {
		return ""
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return raw
	}
	return strings.Join(items, ",")
}

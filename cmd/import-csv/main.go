// import-csv seeds curated games into the local database from a CSV file.
// The format matches what `gamestore export csv` writes:
//
//	id,name,genres,platforms,released,rating,price,background_image
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"gamestore/internal/games"
	"gamestore/pkg/database"
	"gamestore/pkg/models"
)

func main() {
	path := flag.String("file", "data/games.csv", "CSV file to import")
	flag.Parse()

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("[import] open %s: %v", *path, err)
	}
	defer file.Close()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatalf("[import] migrate: %v", err)
	}

	repo := games.NewRepo(db)
	ctx := context.Background()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	imported, skipped := 0, 0
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatalf("[import] read line %d: %v", line+1, err)
		}
		line++

		// header row
		if line == 1 && strings.EqualFold(record[0], "id") {
			continue
		}

		g, ok := parseRecord(record)
		if !ok {
			log.Printf("[import] skipping malformed line %d", line)
			skipped++
			continue
		}
		if err := repo.Upsert(ctx, g); err != nil {
			log.Fatalf("[import] upsert %q: %v", g.Name, err)
		}
		imported++
	}

	log.Printf("[import] done: %d imported, %d skipped", imported, skipped)
}

func parseRecord(record []string) (models.Game, bool) {
	if len(record) < 2 {
		return models.Game{}, false
	}
	id := strings.TrimSpace(record[0])
	name := strings.TrimSpace(record[1])
	if id == "" || name == "" {
		return models.Game{}, false
	}

	g := models.Game{ID: id, Name: name}
	if len(record) > 2 {
		g.Genres = splitList(record[2])
	}
	if len(record) > 3 {
		g.Platforms = splitList(record[3])
	}
	if len(record) > 4 {
		g.Released = strings.TrimSpace(record[4])
	}
	if len(record) > 5 {
		g.Rating = parseFloat(record[5])
	}
	if len(record) > 6 {
		g.Price = parseFloat(record[6])
	}
	if len(record) > 7 {
		g.BackgroundImage = strings.TrimSpace(record[7])
	}
	return g, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

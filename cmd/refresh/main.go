package main

import (
	"context"
	"flag"
	"log"
	"time"

	"gamestore/internal/deals"
	"gamestore/internal/games"
	"gamestore/internal/notify"
	"gamestore/internal/sources"
	"gamestore/pkg/database"
	"gamestore/pkg/utils"
)

// refresh pulls a slice of the catalog API into the local games table,
// fetches current deal listings, records cheapest-price floors, and pushes
// UDP price-drop alerts for anything that got cheaper since the last run.
func main() {
	var (
		maxGames   = flag.Int("max-games", 200, "maximum catalog entries to fetch")
		notifyAddr = flag.String("notify", "", "UDP notify server address to push drops through (empty = print only)")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srcCfg := utils.LoadSourceConfig()
	catalogClient := sources.NewCatalogClient(srcCfg)
	dealsClient := sources.NewDealsClient(srcCfg)

	// Deal listings first: the consolidated cheapest prices seed catalog
	// prices for titles we recognize.
	log.Println("[refresh] fetching deal listings")
	rawDeals, err := dealsClient.List(ctx, "", 60)
	if err != nil {
		log.Printf("[refresh] deals fetch failed (%s), continuing without prices: %v", sources.KindOf(err), err)
	}
	consolidated := deals.Consolidate(rawDeals)
	log.Printf("[refresh] consolidated %d listings into %d titles", len(rawDeals), len(consolidated))

	cheapestByTitle := make(map[string]float64, len(consolidated))
	for _, d := range consolidated {
		cheapestByTitle[deals.TitleKey(d.Title)] = d.CheapestPrice
	}

	log.Println("[refresh] fetching catalog")
	catalog, err := catalogClient.FetchAll(ctx, 40, *maxGames)
	if err != nil {
		log.Printf("[refresh] catalog fetch failed (%s), using fallback list: %v", sources.KindOf(err), err)
		catalog = sources.FallbackGames()
	}

	gamesRepo := games.NewRepo(db)
	stored := 0
	for _, g := range catalog {
		if g.Price == 0 {
			g.Price = 59.99
			if cheapest, ok := cheapestByTitle[deals.TitleKey(g.Name)]; ok {
				g.Price = cheapest
			}
		}
		if err := gamesRepo.Upsert(ctx, g); err != nil {
			log.Printf("[refresh] store %s failed: %v", g.ID, err)
			continue
		}
		stored++
	}
	log.Printf("[refresh] stored %d catalog entries", stored)

	floorRepo := deals.NewFloorRepo(db)
	drops, err := floorRepo.RecordAndDetect(ctx, consolidated)
	if err != nil {
		log.Fatalf("record price floors failed: %v", err)
	}

	for _, d := range drops {
		log.Printf("[refresh] price drop: %s %.2f -> %.2f (store %s)", d.Title, d.OldPrice, d.NewPrice, d.StoreID)
	}

	if *notifyAddr != "" && len(drops) > 0 {
		pushDrops(*notifyAddr, drops)
	}

	log.Printf("refresh done: %d games, %d deals, %d drops", stored, len(consolidated), len(drops))
}

// pushDrops hands the drops to the running notify server, which owns the
// client registry and rebroadcasts them.
func pushDrops(addr string, drops []deals.Drop) {
	client, err := notify.DialBroadcaster(addr)
	if err != nil {
		log.Printf("[refresh] notify dial failed: %v", err)
		return
	}
	defer client.Close()

	for _, d := range drops {
		if err := client.SendPriceDrop(d.Title, d.OldPrice, d.NewPrice, d.StoreID); err != nil {
			log.Printf("[refresh] notify send failed for %s: %v", d.Title, err)
		}
	}
}

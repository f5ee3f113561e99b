// mirror-server serves local fixture data in the shapes of the two
// upstream APIs, so the store can be developed and demoed without network
// access or API keys. Point GAMESTORE_CATALOG_URL and GAMESTORE_DEALS_URL
// at it.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type catalogFixture struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

type dealFixture struct {
	DealID      string `json:"dealID"`
	Title       string `json:"title"`
	SalePrice   string `json:"salePrice"`
	NormalPrice string `json:"normalPrice"`
	StoreID     string `json:"storeID"`
	Thumb       string `json:"thumb"`
}

// name mirrors the subset of a catalog result we filter on.
type catalogName struct {
	Name string `json:"name"`
}

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	catalogPath := flag.String("catalog", "data/catalog.json", "catalog fixture path")
	dealsPath := flag.String("deals", "data/deals.json", "deals fixture path")
	flag.Parse()

	catalog, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Fatalf("[mirror] load catalog fixture: %v", err)
	}
	deals, err := loadDeals(*dealsPath)
	if err != nil {
		log.Fatalf("[mirror] load deals fixture: %v", err)
	}
	log.Printf("[mirror] loaded %d catalog games, %d deal listings", len(catalog.Results), len(deals))

	router := gin.Default()
	_ = router.SetTrustedProxies(nil)

	router.GET("/games", func(c *gin.Context) {
		results := filterCatalog(catalog.Results, c.Query("search"))
		page := atoiDefault(c.Query("page"), 1)
		pageSize := atoiDefault(c.Query("page_size"), 20)

		total := len(results)
		start := (page - 1) * pageSize
		if start < 0 || start > total {
			start = total
		}
		end := start + pageSize
		if end > total {
			end = total
		}

		c.JSON(200, gin.H{
			"count":   total,
			"results": results[start:end],
		})
	})

	router.GET("/deals", func(c *gin.Context) {
		out := filterDeals(deals, c.Query("title"))
		if n := atoiDefault(c.Query("pageSize"), 60); n > 0 && n < len(out) {
			out = out[:n]
		}
		c.JSON(200, out)
	})

	log.Printf("[mirror] listening on %s", *addr)
	if err := router.Run(*addr); err != nil {
		log.Fatalf("[mirror] server: %v", err)
	}
}

func loadCatalog(path string) (*catalogFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf catalogFixture
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

func loadDeals(path string) ([]dealFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []dealFixture
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func filterCatalog(results []json.RawMessage, search string) []json.RawMessage {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return results
	}
	var out []json.RawMessage
	for _, raw := range results {
		var cn catalogName
		if err := json.Unmarshal(raw, &cn); err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(cn.Name), search) {
			out = append(out, raw)
		}
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out
}

func filterDeals(deals []dealFixture, title string) []dealFixture {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return deals
	}
	var out []dealFixture
	for _, d := range deals {
		if strings.Contains(strings.ToLower(d.Title), title) {
			out = append(out, d)
		}
	}
	if out == nil {
		out = []dealFixture{}
	}
	return out
}

func atoiDefault(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

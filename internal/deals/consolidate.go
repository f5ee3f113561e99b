package deals

import (
	"math"
	"sort"
	"strings"

	"gamestore/pkg/models"
)

// Consolidate groups raw per-store listings by normalized title and picks
// the cheapest listing per title. Rules:
//
//   - records with a blank (after trimming) title are dropped
//   - records with a missing/unparseable/negative sale price are dropped
//   - grouping key is the trimmed, lowercased title
//   - the first record seen under a key supplies the display title
//   - the cheapest listing is replaced only on a strictly lower price,
//     so ties keep the earlier record
//   - output is ordered ascending by cheapest price
//
// Pure function: the input slice is never mutated.
func Consolidate(records []models.RawDeal) []models.ConsolidatedDeal {
	byKey := make(map[string]int)
	groups := make([]models.ConsolidatedDeal, 0)

	for _, r := range records {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			continue
		}
		if math.IsNaN(r.SalePrice) || r.SalePrice < 0 {
			continue
		}

		key := strings.ToLower(title)
		idx, ok := byKey[key]
		if !ok {
			byKey[key] = len(groups)
			groups = append(groups, models.ConsolidatedDeal{
				Title:         title,
				AllPrices:     []models.RawDeal{r},
				CheapestPrice: r.SalePrice,
				CheapestDeal:  r,
			})
			continue
		}

		g := &groups[idx]
		g.AllPrices = append(g.AllPrices, r)
		if r.SalePrice < g.CheapestPrice {
			g.CheapestPrice = r.SalePrice
			g.CheapestDeal = r
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CheapestPrice < groups[j].CheapestPrice
	})
	return groups
}

// TitleKey is the grouping key used by Consolidate, exported for the
// price-floor bookkeeping in cmd/refresh.
func TitleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

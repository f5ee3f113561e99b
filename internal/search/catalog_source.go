package search

import (
	"context"
	"log"
	"strings"

	"gamestore/internal/sources"
	"gamestore/pkg/models"
)

// CatalogSource adapts the catalog API client. When the API is down it
// falls back to the built-in static game list instead of surfacing the
// error, so a provider outage degrades search rather than emptying it.
type CatalogSource struct {
	Client   *sources.CatalogClient
	Fallback []models.Game
}

func NewCatalogSource(client *sources.CatalogClient) *CatalogSource {
	return &CatalogSource{Client: client, Fallback: sources.FallbackGames()}
}

func (s *CatalogSource) Name() string { return models.SourceCatalog }

func (s *CatalogSource) Search(ctx context.Context, query string, limit int) ([]models.NormalizedGame, int, error) {
	games, count, err := s.Client.List(ctx, sources.CatalogQuery{Search: query, PageSize: limit})
	if err != nil {
		log.Printf("[search] catalog upstream failed (%s), using fallback list: %v", sources.KindOf(err), err)
		games = filterByName(s.Fallback, query)
		count = len(games)
	}

	if limit > 0 && len(games) > limit {
		games = games[:limit]
	}

	out := make([]models.NormalizedGame, 0, len(games))
	for _, g := range games {
		out = append(out, models.NormalizedGame{
			ID:              g.ID,
			Name:            g.Name,
			BackgroundImage: g.BackgroundImage,
			Genres:          g.Genres,
			Source:          models.SourceCatalog,
			CatalogID:       g.CatalogID,
		})
	}
	return out, count, nil
}

func filterByName(games []models.Game, query string) []models.Game {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return games
	}
	var out []models.Game
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Name), q) {
			out = append(out, g)
		}
	}
	return out
}

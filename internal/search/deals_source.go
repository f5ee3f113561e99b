package search

import (
	"context"

	"gamestore/internal/deals"
	"gamestore/internal/sources"
	"gamestore/pkg/models"
)

// DealsSource adapts the price-comparison API. Per-store listings for the
// same title are consolidated so each title becomes a single synthetic hit.
type DealsSource struct {
	Client *sources.DealsClient
}

func NewDealsSource(client *sources.DealsClient) *DealsSource {
	return &DealsSource{Client: client}
}

func (s *DealsSource) Name() string { return models.SourceDeals }

func (s *DealsSource) Search(ctx context.Context, query string, limit int) ([]models.NormalizedGame, int, error) {
	raw, err := s.Client.List(ctx, query, 60)
	if err != nil {
		return nil, 0, err
	}

	consolidated := deals.Consolidate(raw)
	total := len(consolidated)

	if limit > 0 && len(consolidated) > limit {
		consolidated = consolidated[:limit]
	}

	out := make([]models.NormalizedGame, 0, len(consolidated))
	for _, d := range consolidated {
		out = append(out, models.NormalizedGame{
			ID:              "deal-" + d.CheapestDeal.ID,
			Name:            d.Title,
			BackgroundImage: d.CheapestDeal.Thumb,
			Genres:          []string{},
			Source:          models.SourceDeals,
		})
	}
	return out, total, nil
}

package search

import (
	"context"

	"gamestore/internal/games"
	"gamestore/pkg/models"
)

// CuratedSource serves the store's own curated catalog from the local
// database. Rows arrive pre-normalized, so mapping is a straight copy.
type CuratedSource struct {
	Repo *games.Repo
}

func NewCuratedSource(repo *games.Repo) *CuratedSource {
	return &CuratedSource{Repo: repo}
}

func (s *CuratedSource) Name() string { return models.SourceCurated }

func (s *CuratedSource) Search(ctx context.Context, query string, limit int) ([]models.NormalizedGame, int, error) {
	q := games.ListQuery{Q: query, Limit: limit}

	total, err := s.Repo.Count(ctx, q)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.NormalizedGame, 0, len(items))
	for _, g := range items {
		out = append(out, models.NormalizedGame{
			ID:              g.ID,
			Name:            g.Name,
			BackgroundImage: g.BackgroundImage,
			Genres:          g.Genres,
			Source:          models.SourceCurated,
			CatalogID:       g.CatalogID,
		})
	}
	return out, total, nil
}

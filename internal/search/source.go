package search

import (
	"context"

	"gamestore/pkg/models"
)

// Source is implemented by each search backend. Search returns up to limit
// normalized hits plus the source's total availability for the query (which
// may exceed len of the returned slice).
type Source interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]models.NormalizedGame, int, error)
}

package search

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"gamestore/pkg/models"
)

// Aggregator fans one query out to every source concurrently and merges
// the results in declared source order.
type Aggregator struct {
	Sources []Source
}

func NewAggregator(sources ...Source) *Aggregator {
	return &Aggregator{Sources: sources}
}

// Search queries all sources at once so total latency is bounded by the
// slowest source, not the sum. Results are reassembled in the order the
// sources were declared, regardless of which response arrived first, then
// capped to limit (limit <= 0 means no cap). Count and the per-source
// breakdown reflect full availability before capping.
//
// A failing source contributes an empty list and a count of 0; it never
// fails the call.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) models.SearchResult {
	type slot struct {
		games []models.NormalizedGame
		count int
	}
	slots := make([]slot, len(a.Sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.Sources {
		i, src := i, src
		g.Go(func() error {
			games, count, err := src.Search(gctx, query, limit)
			if err != nil {
				log.Printf("[search] source %s failed: %v", src.Name(), err)
				return nil // isolate: one broken source must not sink the rest
			}
			slots[i] = slot{games: games, count: count}
			return nil
		})
	}
	_ = g.Wait()

	result := models.SearchResult{
		Games:  make([]models.NormalizedGame, 0, limit),
		Stores: make(map[string]models.SourceStats, len(a.Sources)),
	}
	for i, src := range a.Sources {
		result.Count += slots[i].count
		result.Stores[src.Name()] = models.SourceStats{Count: slots[i].count}
		result.Games = append(result.Games, slots[i].games...)
	}
	if limit > 0 && len(result.Games) > limit {
		result.Games = result.Games[:limit]
	}
	return result
}

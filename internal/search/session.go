package search

import (
	"context"
	"sync/atomic"

	"gamestore/pkg/models"
)

// Session serializes debounce-style search usage: every call gets a
// monotonically increasing generation, and a result is only worth applying
// if no newer call has started since. In-flight requests are not aborted
// when superseded; their responses are simply rejected by Stale.
type Session struct {
	agg *Aggregator
	gen atomic.Uint64
}

func NewSession(agg *Aggregator) *Session {
	return &Session{agg: agg}
}

// Search runs the aggregated search and returns the generation it was
// issued under.
func (s *Session) Search(ctx context.Context, query string, limit int) (models.SearchResult, uint64) {
	gen := s.gen.Add(1)
	return s.agg.Search(ctx, query, limit), gen
}

// Stale reports whether a newer search has been issued since gen.
func (s *Session) Stale(gen uint64) bool {
	return gen != s.gen.Load()
}

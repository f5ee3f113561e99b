package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/pkg/models"
)

// stubSource returns a fixed result, optionally after a delay or with an
// error, so merge order and isolation can be tested deterministically.
type stubSource struct {
	name  string
	games []models.NormalizedGame
	count int
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(ctx context.Context, query string, limit int) ([]models.NormalizedGame, int, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.games, s.count, nil
}

func hits(source string, names ...string) []models.NormalizedGame {
	out := make([]models.NormalizedGame, 0, len(names))
	for _, n := range names {
		out = append(out, models.NormalizedGame{ID: source + "-" + n, Name: n, Source: source})
	}
	return out
}

func names(games []models.NormalizedGame) []string {
	out := make([]string, 0, len(games))
	for _, g := range games {
		out = append(out, g.Name)
	}
	return out
}

func TestAggregator_MergeOrderFollowsDeclaration(t *testing.T) {
	// the first-declared source is the slowest; its results must still
	// come first in the merged output
	agg := NewAggregator(
		&stubSource{name: "catalog", games: hits("catalog", "a", "b"), count: 2, delay: 30 * time.Millisecond},
		&stubSource{name: "deals", games: hits("deals", "c"), count: 1},
		&stubSource{name: "curated", games: hits("curated", "d"), count: 1},
	)

	got := agg.Search(context.Background(), "query", 0)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(got.Games))
}

func TestAggregator_CapsToLimit(t *testing.T) {
	agg := NewAggregator(
		&stubSource{name: "catalog", games: hits("catalog", "a", "b", "c"), count: 3},
		&stubSource{name: "deals", games: hits("deals", "d", "e"), count: 2},
	)

	got := agg.Search(context.Background(), "query", 4)
	require.Len(t, got.Games, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(got.Games))
}

func TestAggregator_CountUnaffectedByCap(t *testing.T) {
	// counts report full availability, not what fit under the cap
	agg := NewAggregator(
		&stubSource{name: "catalog", games: hits("catalog", "a", "b"), count: 120},
		&stubSource{name: "deals", games: hits("deals", "c"), count: 15},
	)

	got := agg.Search(context.Background(), "query", 2)
	assert.Len(t, got.Games, 2)
	assert.Equal(t, 135, got.Count)
	assert.Equal(t, 120, got.Stores["catalog"].Count)
	assert.Equal(t, 15, got.Stores["deals"].Count)
}

func TestAggregator_FailedSourceIsIsolated(t *testing.T) {
	agg := NewAggregator(
		&stubSource{name: "catalog", err: errors.New("upstream down")},
		&stubSource{name: "deals", games: hits("deals", "a"), count: 1},
	)

	got := agg.Search(context.Background(), "query", 0)
	require.Len(t, got.Games, 1)
	assert.Equal(t, "a", got.Games[0].Name)
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, 0, got.Stores["catalog"].Count)
}

func TestAggregator_AllSourcesFail(t *testing.T) {
	agg := NewAggregator(
		&stubSource{name: "catalog", err: errors.New("boom")},
		&stubSource{name: "deals", err: errors.New("boom")},
	)

	got := agg.Search(context.Background(), "query", 5)
	assert.Empty(t, got.Games)
	assert.Equal(t, 0, got.Count)
}

func TestAggregator_NoLimitReturnsEverything(t *testing.T) {
	agg := NewAggregator(
		&stubSource{name: "catalog", games: hits("catalog", "a", "b", "c"), count: 3},
	)

	got := agg.Search(context.Background(), "query", 0)
	assert.Len(t, got.Games, 3)
}

func TestSession_StaleDetection(t *testing.T) {
	agg := NewAggregator(
		&stubSource{name: "catalog", games: hits("catalog", "a"), count: 1},
	)
	session := NewSession(agg)

	_, gen1 := session.Search(context.Background(), "first", 5)
	assert.False(t, session.Stale(gen1))

	_, gen2 := session.Search(context.Background(), "second", 5)
	assert.True(t, session.Stale(gen1), "older generation must be stale after a newer search")
	assert.False(t, session.Stale(gen2))
}

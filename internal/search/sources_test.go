package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/sources"
	"gamestore/pkg/models"
)

func catalogClientFor(url string) *sources.CatalogClient {
	return &sources.CatalogClient{BaseURL: url, Client: &http.Client{Timeout: 2 * time.Second}}
}

func dealsClientFor(url string) *sources.DealsClient {
	return &sources.DealsClient{BaseURL: url, Client: &http.Client{Timeout: 2 * time.Second}}
}

func TestCatalogSource_FallsBackWhenUpstreamDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	src := &CatalogSource{
		Client: catalogClientFor(srv.URL),
		Fallback: []models.Game{
			{ID: "doom", Name: "DOOM (2016)"},
			{ID: "halo", Name: "Halo"},
		},
	}

	games, count, err := src.Search(context.Background(), "doom", 5)
	require.NoError(t, err, "fallback must absorb the upstream failure")
	require.Len(t, games, 1)
	assert.Equal(t, 1, count)
	assert.Equal(t, "DOOM (2016)", games[0].Name)
	assert.Equal(t, models.SourceCatalog, games[0].Source)
}

func TestCatalogSource_NormalizesUpstreamHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count": 77, "results": [
			{"id": 1, "slug": "doom", "name": "DOOM (2016)", "genres": [{"name": "Action"}]}
		]}`))
	}))
	defer srv.Close()

	src := NewCatalogSource(catalogClientFor(srv.URL))
	games, count, err := src.Search(context.Background(), "doom", 5)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, 77, count)
	assert.Equal(t, "doom", games[0].ID)
	assert.Equal(t, []string{"Action"}, games[0].Genres)
	assert.Equal(t, 1, games[0].CatalogID)
}

func TestDealsSource_ConsolidatesListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"dealID": "d1", "title": "Doom", "salePrice": "9.99", "normalPrice": "19.99", "storeID": "1"},
			{"dealID": "d2", "title": "DOOM", "salePrice": "7.50", "normalPrice": "19.99", "storeID": "3"},
			{"dealID": "d3", "title": "Halo", "salePrice": "19.99", "normalPrice": "39.99", "storeID": "1"}
		]`))
	}))
	defer srv.Close()

	src := NewDealsSource(dealsClientFor(srv.URL))
	games, count, err := src.Search(context.Background(), "doom", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, games, 2)

	// cheapest-first consolidation order, synthetic ids from the cheapest deal
	assert.Equal(t, "deal-d2", games[0].ID)
	assert.Equal(t, "Doom", games[0].Name)
	assert.Equal(t, models.SourceDeals, games[0].Source)
}

func TestDealsSource_PropagatesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := NewDealsSource(dealsClientFor(srv.URL))
	_, _, err := src.Search(context.Background(), "doom", 5)
	require.Error(t, err)
	assert.Equal(t, sources.ErrRateLimited, sources.KindOf(err))
}

func TestDealsSource_CapsButCountsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"dealID": "d1", "title": "A", "salePrice": "1.00", "normalPrice": "2.00", "storeID": "1"},
			{"dealID": "d2", "title": "B", "salePrice": "2.00", "normalPrice": "4.00", "storeID": "1"},
			{"dealID": "d3", "title": "C", "salePrice": "3.00", "normalPrice": "6.00", "storeID": "1"}
		]`))
	}))
	defer srv.Close()

	src := NewDealsSource(dealsClientFor(srv.URL))
	games, count, err := src.Search(context.Background(), "x", 2)
	require.NoError(t, err)
	assert.Len(t, games, 2)
	assert.Equal(t, 3, count)
}

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Client:  &http.Client{Timeout: 2 * time.Second},
	}
}

func TestCatalogClient_ListFlattensNestedShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "doom", r.URL.Query().Get("search"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"count": 42,
			"results": [
				{
					"id": 2454,
					"slug": "doom",
					"name": "DOOM (2016)",
					"released": "2016-05-13",
					"rating": 4.38,
					"background_image": "https://img.example/doom.jpg",
					"genres": [{"name": "Action"}, {"name": "Shooter"}],
					"platforms": [
						{"platform": {"name": "PC"}},
						{"platform": {"name": "Xbox One"}}
					],
					"short_screenshots": [{"image": "https://img.example/s1.jpg"}]
				},
				{
					"id": 99,
					"slug": "no-image",
					"name": "No Image",
					"background_image": "",
					"short_screenshots": [{"image": "https://img.example/fallback.jpg"}]
				},
				{
					"id": 100,
					"slug": "unnamed",
					"name": ""
				}
			]
		}`))
	}))
	defer srv.Close()

	games, count, err := newCatalogClient(srv.URL).List(context.Background(), CatalogQuery{Search: "doom"})
	require.NoError(t, err)
	assert.Equal(t, 42, count)
	require.Len(t, games, 2, "unnamed results are dropped")

	g := games[0]
	assert.Equal(t, "doom", g.ID)
	assert.Equal(t, "DOOM (2016)", g.Name)
	assert.Equal(t, []string{"Action", "Shooter"}, g.Genres)
	assert.Equal(t, []string{"PC", "Xbox One"}, g.Platforms)
	assert.Equal(t, "https://img.example/doom.jpg", g.BackgroundImage)
	assert.Equal(t, 2454, g.CatalogID)

	// screenshot fallback when background_image is empty
	assert.Equal(t, "https://img.example/fallback.jpg", games[1].BackgroundImage)
}

func TestCatalogClient_StatusClassification(t *testing.T) {
	for status, kind := range map[int]ErrorKind{
		http.StatusTooManyRequests:     ErrRateLimited,
		http.StatusUnauthorized:        ErrBadRequest,
		http.StatusInternalServerError: ErrUpstream,
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))

		_, _, err := newCatalogClient(srv.URL).List(context.Background(), CatalogQuery{})
		require.Error(t, err)
		assert.Equal(t, kind, KindOf(err), "status %d", status)
		srv.Close()
	}
}

func TestCatalogClient_DecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, _, err := newCatalogClient(srv.URL).List(context.Background(), CatalogQuery{})
	require.Error(t, err)
	assert.Equal(t, ErrDecode, KindOf(err))
}

func TestCatalogClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, _, err := newCatalogClient(srv.URL).List(context.Background(), CatalogQuery{})
	require.Error(t, err)
	assert.Equal(t, ErrNetwork, KindOf(err))
}

func TestCatalogClient_FetchAllPagesUntilMax(t *testing.T) {
	pages := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		page := r.URL.Query().Get("page")
		w.Header().Set("Content-Type", "application/json")
		if page == "3" {
			_, _ = w.Write([]byte(`{"count": 4, "results": []}`))
			return
		}
		_, _ = w.Write([]byte(`{"count": 4, "results": [
			{"id": 1, "slug": "a-` + page + `", "name": "A ` + page + `"},
			{"id": 2, "slug": "b-` + page + `", "name": "B ` + page + `"}
		]}`))
	}))
	defer srv.Close()

	games, err := newCatalogClient(srv.URL).FetchAll(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Len(t, games, 3)
	assert.Equal(t, 2, pages)
}

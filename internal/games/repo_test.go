package games

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/pkg/database"
	"gamestore/pkg/models"
)

func testRepo(t *testing.T) *Repo {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.MigrateFrom(db, filepath.Join("..", "..", "docs", "schema.sql")))
	return NewRepo(db)
}

func seed(t *testing.T, repo *Repo, games ...models.Game) {
	t.Helper()
	for _, g := range games {
		require.NoError(t, repo.Upsert(context.Background(), g))
	}
}

func TestRepo_UpsertAndGetByID(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo, models.Game{
		ID:              "doom",
		Name:            "DOOM (2016)",
		Slug:            "doom",
		Genres:          []string{"Action", "Shooter"},
		Platforms:       []string{"PC"},
		Released:        "2016-05-13",
		Rating:          4.38,
		Price:           19.99,
		BackgroundImage: "https://img.example/doom.jpg",
		CatalogID:       2454,
	})

	got, err := repo.GetByID(context.Background(), "doom")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "DOOM (2016)", got.Name)
	assert.Equal(t, []string{"Action", "Shooter"}, got.Genres)
	assert.Equal(t, []string{"PC"}, got.Platforms)
	assert.Equal(t, 19.99, got.Price)
	assert.Equal(t, 2454, got.CatalogID)
}

func TestRepo_GetByIDMissing(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.GetByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepo_UpsertOverwrites(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo,
		models.Game{ID: "doom", Name: "Doom", Price: 19.99},
		models.Game{ID: "doom", Name: "DOOM (2016)", Price: 9.99},
	)

	got, err := repo.GetByID(context.Background(), "doom")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "DOOM (2016)", got.Name)
	assert.Equal(t, 9.99, got.Price)

	total, err := repo.Count(context.Background(), ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestRepo_ListKeywordFilter(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo,
		models.Game{ID: "doom", Name: "DOOM (2016)", Slug: "doom"},
		models.Game{ID: "halo", Name: "Halo", Slug: "halo"},
		models.Game{ID: "doom-eternal", Name: "Doom Eternal", Slug: "doom-eternal"},
	)

	items, err := repo.List(context.Background(), ListQuery{Q: "doom"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	total, err := repo.Count(context.Background(), ListQuery{Q: "doom"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestRepo_ListGenreAnyMatch(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo,
		models.Game{ID: "a", Name: "A", Genres: []string{"Action"}},
		models.Game{ID: "b", Name: "B", Genres: []string{"RPG"}},
		models.Game{ID: "c", Name: "C", Genres: []string{"Indie", "Action"}},
	)

	items, err := repo.List(context.Background(), ListQuery{Genres: []string{"Action", "RPG"}})
	require.NoError(t, err)
	assert.Len(t, items, 3)

	items, err = repo.List(context.Background(), ListQuery{Genres: []string{"Indie"}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "c", items[0].ID)
}

func TestRepo_ListOrdering(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo,
		models.Game{ID: "a", Name: "Alpha", Price: 30},
		models.Game{ID: "b", Name: "Beta", Price: 10},
		models.Game{ID: "c", Name: "Gamma", Price: 20},
	)

	items, err := repo.List(context.Background(), ListQuery{Ordering: "price"})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{items[0].ID, items[1].ID, items[2].ID})

	items, err = repo.List(context.Background(), ListQuery{Ordering: "-price"})
	require.NoError(t, err)
	assert.Equal(t, "a", items[0].ID)

	// unknown ordering falls back to name ascending
	items, err = repo.List(context.Background(), ListQuery{Ordering: "bogus"})
	require.NoError(t, err)
	assert.Equal(t, "a", items[0].ID)
}

func TestRepo_ListPagination(t *testing.T) {
	repo := testRepo(t)
	seed(t, repo,
		models.Game{ID: "a", Name: "Alpha"},
		models.Game{ID: "b", Name: "Beta"},
		models.Game{ID: "c", Name: "Gamma"},
	)

	items, err := repo.List(context.Background(), ListQuery{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
}

func TestScanGameToleratesNullColumns(t *testing.T) {
	repo := testRepo(t)
	_, err := repo.DB.Exec(`INSERT INTO games (id, name, rating, price) VALUES ('bare', 'Bare', 0, 0)`)
	require.NoError(t, err)

	got, err := repo.GetByID(context.Background(), "bare")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bare", got.Name)
	assert.Empty(t, got.Genres)
	assert.Empty(t, got.Slug)
}

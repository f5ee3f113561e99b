package cart

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

	// cart rows reference users, so seed one
	_, err = db.Exec(`
		INSERT INTO users (id, username, email, password_hash)
		VALUES ('u1', 'tester', 'tester@example.com', 'x')
	`)
	require.NoError(t, err)

	return NewRepo(db)
}

func item(gameID string, price float64, qty int) models.CartItem {
	return models.CartItem{
		UserID:    "u1",
		GameID:    gameID,
		GameName:  "Game " + gameID,
		UnitPrice: price,
		Quantity:  qty,
	}
}

func TestRepo_UpsertKeepsPriceSnapshot(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, item("doom", 19.99, 1)))
	// a later add at a different price only bumps quantity
	require.NoError(t, repo.Upsert(ctx, item("doom", 9.99, 3)))

	got, err := repo.Get(ctx, "u1", "doom")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 19.99, got.UnitPrice)
	assert.Equal(t, 3, got.Quantity)
}

func TestRepo_RemoveReportsExistence(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, item("doom", 19.99, 1)))

	removed, err := repo.Remove(ctx, "u1", "doom")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Remove(ctx, "u1", "doom")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepo_CheckoutEmptyCart(t *testing.T) {
	repo := testRepo(t)

	order, err := repo.Checkout(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestRepo_CheckoutSnapshotsAndClears(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, item("doom", 10.00, 2)))
	require.NoError(t, repo.Upsert(ctx, item("halo", 19.99, 1)))

	order, err := repo.Checkout(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.NotEmpty(t, order.ID)
	assert.InDelta(t, 39.99, order.Total, 0.001)
	assert.Len(t, order.Items, 2)

	// cart is empty afterwards
	items, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, items)

	// order is readable back with its items
	got, err := repo.GetOrder(ctx, "u1", order.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Len(t, got.Items, 2)
	assert.InDelta(t, 39.99, got.Total, 0.001)
}

func TestRepo_ListOrders(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, item("doom", 10.00, 1)))
	_, err := repo.Checkout(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, repo.Upsert(ctx, item("halo", 20.00, 1)))
	_, err = repo.Checkout(ctx, "u1")
	require.NoError(t, err)

	orders, total, err := repo.ListOrders(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, orders, 2)

	// another user sees nothing
	got, err := repo.GetOrder(ctx, "someone-else", orders[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

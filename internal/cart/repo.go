package cart

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamestore/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert inserts a cart line or replaces its quantity. The unit price is
// only written on insert so an existing line keeps its add-time snapshot.
func (r *Repo) Upsert(ctx context.Context, item models.CartItem) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO cart_items (user_id, game_id, game_name, unit_price, quantity, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, game_id) DO UPDATE SET
			quantity = excluded.quantity,
			updated_at = CURRENT_TIMESTAMP
	`, item.UserID, item.GameID, item.GameName, item.UnitPrice, item.Quantity)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, gameID string) (*models.CartItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, game_id, game_name, unit_price, quantity, updated_at
		FROM cart_items
		WHERE user_id = ? AND game_id = ?
	`, userID, gameID)

	var it models.CartItem
	var updated time.Time
	if err := row.Scan(&it.UserID, &it.GameID, &it.GameName, &it.UnitPrice, &it.Quantity, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	it.UpdatedAt = updated
	return &it, nil
}

func (r *Repo) List(ctx context.Context, userID string) ([]models.CartItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, game_id, game_name, unit_price, quantity, updated_at
		FROM cart_items
		WHERE user_id = ?
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	out := make([]models.CartItem, 0)
	for rows.Next() {
		var it models.CartItem
		var updated time.Time
		if err := rows.Scan(&it.UserID, &it.GameID, &it.GameName, &it.UnitPrice, &it.Quantity, &updated); err != nil {
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		it.UpdatedAt = updated
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Remove(ctx context.Context, userID, gameID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE user_id = ? AND game_id = ?
	`, userID, gameID)
	if err != nil {
		return false, fmt.Errorf("remove cart item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Clear(ctx context.Context, userID string) error {
	if _, err := r.DB.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = ?
	`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Checkout snapshots the user's cart into an order plus its items and
// clears the cart, all in one transaction. Returns nil when the cart is
// empty.
func (r *Repo) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	items, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	order := models.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Items:     make([]models.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		order.Total += it.UnitPrice * float64(it.Quantity)
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			GameID:    it.GameID,
			GameName:  it.GameName,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
		})
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (id, user_id, total, created_at)
		VALUES (?, ?, ?, ?)
	`, order.ID, order.UserID, order.Total, order.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_items (order_id, game_id, game_name, unit_price, quantity)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare order items: %w", err)
	}
	defer stmt.Close()

	for _, it := range order.Items {
		if _, err := stmt.ExecContext(ctx, it.OrderID, it.GameID, it.GameName, it.UnitPrice, it.Quantity); err != nil {
			return nil, fmt.Errorf("insert order item %s: %w", it.GameID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE user_id = ?
	`, userID); err != nil {
		return nil, fmt.Errorf("clear cart in checkout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return &order, nil
}

func (r *Repo) ListOrders(ctx context.Context, userID string, limit, offset int) ([]models.Order, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM orders WHERE user_id = ?
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, total, created_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	out := make([]models.Order, 0, limit)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

func (r *Repo) GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, total, created_at
		FROM orders
		WHERE id = ? AND user_id = ?
	`, orderID, userID)

	var o models.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Total, &o.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT order_id, game_id, game_name, unit_price, quantity
		FROM order_items
		WHERE order_id = ?
	`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.OrderID, &it.GameID, &it.GameName, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return &o, nil
}

package models

import "time"

// CartItem is one line in a user's cart. UnitPrice is snapshotted from the
// catalog at add time so later catalog edits don't silently reprice carts.
type CartItem struct {
	UserID    string    `json:"user_id"`
	GameID    string    `json:"game_id"`
	GameName  string    `json:"game_name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	OrderID   string  `json:"order_id"`
	GameID    string  `json:"game_id"`
	GameName  string  `json:"game_name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

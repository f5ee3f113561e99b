package sync

import "time"

// Event types broadcast to connected clients so a cart or favorites change
// on one device shows up on the user's other sessions.
const (
	EventCartUpdate     = "cart.update"
	EventCartRemove     = "cart.remove"
	EventCartCheckout   = "cart.checkout"
	EventFavoriteAdd    = "favorite.add"
	EventFavoriteRemove = "favorite.remove"
)

type CartEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id"`
	GameID    string    `json:"game_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	UnitPrice float64   `json:"unit_price,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
	Total     float64   `json:"total,omitempty"`
	At        time.Time `json:"at"`
}

type FavoriteEvent struct {
	Type   string    `json:"type"`
	UserID string    `json:"user_id"`
	GameID string    `json:"game_id"`
	At     time.Time `json:"at"`
}

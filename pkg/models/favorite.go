package models

import "time"

type Favorite struct {
	UserID   string    `json:"user_id"`
	GameID   string    `json:"game_id"`
	GameName string    `json:"game_name"`
	AddedAt  time.Time `json:"added_at"`
}

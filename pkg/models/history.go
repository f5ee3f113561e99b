package models

import "time"

type ViewEvent struct {
	UserID   string    `json:"user_id"`
	GameID   string    `json:"game_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

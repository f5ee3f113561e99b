package models

// Game is the catalog record served from the local database. External
// catalog responses are mapped into this structure before anything is
// stored or returned.
type Game struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Slug            string   `json:"slug,omitempty"`
	Genres          []string `json:"genres"`
	Platforms       []string `json:"platforms,omitempty"`
	Released        string   `json:"released,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	Price           float64  `json:"price"`
	BackgroundImage string   `json:"background_image,omitempty"`
	Description     string   `json:"description,omitempty"`
	CatalogID       int      `json:"catalog_id,omitempty"` // upstream catalog numeric id
}

package models

// Search source names. Merge order is fixed: catalog, then deals, then
// curated.
const (
	SourceCatalog = "catalog"
	SourceDeals   = "deals"
	SourceCurated = "curated"
)

// NormalizedGame is the common shape for a search hit regardless of which
// source produced it.
type NormalizedGame struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	BackgroundImage string   `json:"background_image,omitempty"`
	Genres          []string `json:"genres"`
	Source          string   `json:"source"`
	CatalogID       int      `json:"catalog_id,omitempty"` // set when the hit resolves to a catalog game
}

// SourceStats is the per-source entry in a search result breakdown.
type SourceStats struct {
	Count int `json:"count"`
}

// SearchResult is the output of a multi-source search. Games is capped to
// the caller's display limit; Count reflects full availability across all
// sources before capping.
type SearchResult struct {
	Games  []NormalizedGame       `json:"games"`
	Count  int                    `json:"count"`
	Stores map[string]SourceStats `json:"stores"`
}

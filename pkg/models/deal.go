package models

// RawDeal is one price listing from one store for one title, exactly as
// returned by the deals provider. SalePrice is NaN when the provider sent
// something unparseable; such records are skipped during consolidation.
type RawDeal struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SalePrice   float64 `json:"sale_price"`
	NormalPrice float64 `json:"normal_price"`
	StoreID     string  `json:"store_id"`
	Thumb       string  `json:"thumb,omitempty"`
}

// ConsolidatedDeal groups every listing for one title and highlights the
// cheapest one. Title keeps the casing of the first record seen.
type ConsolidatedDeal struct {
	Title         string    `json:"title"`
	AllPrices     []RawDeal `json:"all_prices"`
	CheapestPrice float64   `json:"cheapest_price"`
	CheapestDeal  RawDeal   `json:"cheapest_deal"`
}

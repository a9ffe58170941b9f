package models

// Item represents a purchasable catalog entry.
// Items are loaded once at startup and never mutated.
type Item struct {
	// ID is the catalog identifier (e.g., "ELC12").
	ID string `json:"id" yaml:"id"`

	// Name is the display name of the item.
	Name string `json:"name" yaml:"name"`

	// Category groups items for search (e.g., "Electronics").
	Category string `json:"category" yaml:"category"`

	// Price is the unit price.
	Price float64 `json:"price" yaml:"price"`
}

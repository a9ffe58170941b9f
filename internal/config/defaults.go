package config

import (
	"time"

	"github.com/mmynk/shopfront/internal/models"
)

// DefaultAPIKey is the development key accepted when nothing else is configured.
const DefaultAPIKey = "shopfront-dev-key"

// Default returns the built-in configuration: an in-memory session registry,
// the demo catalog and one seeded order.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			StaticPath:      "./build",
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			APIKeys:  []string{DefaultAPIKey},
			TokenTTL: 24 * time.Hour,
		},
		Session: SessionConfig{
			Backend:         BackendMemory,
			RedisPrefix:     "shopfront:",
			Timeout:         30 * time.Minute,
			Window:          time.Minute,
			MaxRequests:     60,
			JanitorInterval: time.Minute,
		},
		Catalog: CatalogConfig{
			Source: SourceConfig,
			Items:  DefaultItems(),
		},
		Seed: SeedConfig{
			Orders: defaultOrders(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultItems is the demo catalog.
func DefaultItems() []models.Item {
	return []models.Item{
		{ID: "ELC12", Name: "Wireless Headphones", Category: "Electronics", Price: 99.99},
		{ID: "ELC13", Name: "Smart Watch", Category: "Electronics", Price: 199.99},
		{ID: "ELC14", Name: "Bluetooth Speaker", Category: "Electronics", Price: 49.99},
		{ID: "HOM01", Name: "Coffee Maker", Category: "Home", Price: 79.50},
		{ID: "HOM02", Name: "Desk Lamp", Category: "Home", Price: 24.99},
		{ID: "BKS01", Name: "Go Programming Handbook", Category: "Books", Price: 39.95},
		{ID: "APP01", Name: "Running Shoes", Category: "Apparel", Price: 89.00},
		{ID: "APP02", Name: "Rain Jacket", Category: "Apparel", Price: 64.25},
	}
}

func defaultOrders() []models.Order {
	return []models.Order{
		{
			ID:    "ORD12345",
			Email: "jane.doe@example.com",
			Items: []models.LineItem{
				{ItemID: "ELC12", Name: "Wireless Headphones", Price: 99.99, Quantity: 1},
			},
			ShippingAddress: models.Address{
				Street:  "1 Market St",
				City:    "San Francisco",
				State:   "CA",
				Zip:     "94105",
				Country: "US",
			},
			Status:    models.OrderStatusShipped,
			CreatedAt: time.Date(2025, 9, 15, 10, 0, 0, 0, time.UTC),
		},
	}
}

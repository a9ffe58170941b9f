// Command seedcatalog writes the configured catalog items into a SQLite file
// that the server can later read with catalog.source: sqlite.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/shopfront/internal/config"
	"github.com/mmynk/shopfront/internal/storage/sqlite"
	"github.com/mmynk/shopfront/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file with catalog.items")
	dbPath := flag.String("db", "./data/catalog.db", "SQLite file to write")
	flag.Parse()

	logging.Setup("", "text")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	db, err := sqlite.New(*dbPath)
	if err != nil {
		slog.Error("Failed to open catalog database", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Seed(ctx, cfg.Catalog.Items); err != nil {
		slog.Error("Failed to seed catalog", "error", err)
		os.Exit(1)
	}

	items, err := db.Items(ctx)
	if err != nil {
		slog.Error("Failed to read back catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog seeded", "path", *dbPath, "items", len(items))
}

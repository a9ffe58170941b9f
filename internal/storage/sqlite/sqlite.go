// Package sqlite provides a SQLite-backed, read-mostly source for the item catalog.
// The shop never writes orders or sessions here; the database only seeds the catalog
// at startup.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/shopfront/internal/models"
)

// CatalogDB reads (and seeds) catalog items in a SQLite database.
type CatalogDB struct {
	db *sql.DB
}

// New opens the database at dbPath, creating parent directories and running
// migrations automatically.
func New(dbPath string) (*CatalogDB, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &CatalogDB{db: db}, nil
}

// Close closes the database connection.
func (c *CatalogDB) Close() error {
	return c.db.Close()
}

// Items returns every catalog item in position order.
func (c *CatalogDB) Items(ctx context.Context) ([]models.Item, error) {
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, name, category, price FROM items ORDER BY position, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

// Seed inserts items that are not already present, keeping their slice order as position.
// Existing rows are left untouched.
func (c *CatalogDB) Seed(ctx context.Context, items []models.Item) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for i, it := range items {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO items (id, name, category, price, position) VALUES (?, ?, ?, ?, ?)",
			it.ID, it.Name, it.Category, it.Price, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// LoadItems opens dbPath, reads the catalog and closes the database again.
func LoadItems(ctx context.Context, dbPath string) ([]models.Item, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("catalog database: %w", err)
	}
	c, err := New(dbPath)
	if err != nil {
		return nil, err
	}
	defer c.Close()
	return c.Items(ctx)
}

// Package memory provides the in-memory implementations of the storage interfaces.
package memory

import (
	"strings"

	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/storage"
)

var _ storage.Catalog = (*Catalog)(nil)

// Catalog is an immutable, ordered item list with an ID index.
// It needs no lock: nothing writes to it after NewCatalog returns.
type Catalog struct {
	items []models.Item
	byID  map[string]int
}

// NewCatalog copies items into a new catalog. Later duplicates of an ID are ignored.
func NewCatalog(items []models.Item) *Catalog {
	c := &Catalog{
		items: make([]models.Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, it := range items {
		if _, dup := c.byID[it.ID]; dup {
			continue
		}
		c.byID[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c
}

// List returns a copy of every item.
func (c *Catalog) List() []models.Item {
	out := make([]models.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given ID.
func (c *Catalog) Get(id string) (models.Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Item{}, false
	}
	return c.items[i], true
}

// GetByName returns the first item whose name equals name, ignoring case.
func (c *Catalog) GetByName(name string) (models.Item, bool) {
	for _, it := range c.items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return models.Item{}, false
}

// Search returns items whose name or category contains q, ignoring case.
func (c *Catalog) Search(q string) []models.Item {
	q = strings.ToLower(q)
	out := []models.Item{}
	for _, it := range c.items {
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

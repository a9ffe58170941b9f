// Package storage defines the state owned by the shop: the read-only catalog,
// the per-user order store and the current-user slot.
package storage

import (
	"errors"

	"github.com/mmynk/shopfront/internal/models"
)

// ErrNoActiveUser is returned when an operation needs the current user and
// the slot is empty.
var ErrNoActiveUser = errors.New("no active user")

// Catalog is the read-only item catalog.
// Implementations must return copies so callers cannot mutate the catalog.
type Catalog interface {
	// List returns every item in catalog order.
	List() []models.Item

	// Get returns the item with the given ID.
	Get(id string) (models.Item, bool)

	// GetByName returns the first item whose name matches (case-insensitive).
	GetByName(name string) (models.Item, bool)

	// Search returns items whose name or category contains q (case-insensitive).
	// An empty query matches everything.
	Search(q string) []models.Item
}

// OrderStore maps a user email to that user's ordered list of orders.
// Every method is atomic with respect to the others and deep-copies its
// inputs and outputs.
type OrderStore interface {
	// Get returns the user's orders, or an empty slice if the user has none.
	Get(email string) []models.Order

	// Set replaces the user's orders wholesale. An empty list removes the user.
	Set(email string, orders []models.Order)

	// Add appends an order to the user's list. Total is recomputed.
	Add(email string, order models.Order)

	// Find returns the user's order with the given ID.
	Find(email, id string) (models.Order, bool)

	// Update merges the non-nil patch fields into an existing order.
	// Returns false if the order does not exist; it never inserts.
	Update(email, id string, patch models.OrderPatch) bool

	// Replace swaps the order's content for a new body, keeping its ID, owner and
	// creation time, and recomputes the total. Returns false if absent.
	Replace(email, id string, order models.Order) bool

	// Remove deletes the order. When it was the user's last order the user
	// entry is dropped entirely. Returns false if absent.
	Remove(email, id string) bool

	// Lookup finds an order by ID across all users.
	Lookup(id string) (models.Order, bool)

	// All returns every order of every user, grouped by user in email order.
	All() []models.Order
}

// UserSlot holds the single process-wide current user.
type UserSlot interface {
	// Current returns the logged-in user, if any.
	Current() (models.CurrentUser, bool)

	// SetCurrent overwrites the slot.
	SetCurrent(user models.CurrentUser)

	// Clear empties the slot and reports whether a user was logged in.
	Clear() bool
}

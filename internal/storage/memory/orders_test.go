package memory

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/shopfront/internal/models"
)

func sampleOrder(id string) models.Order {
	return models.Order{
		ID: id,
		Items: []models.LineItem{
			{ItemID: "ELC12", Name: "Keyboard", Price: 10.00, Quantity: 3},
			{ItemID: "ELC13", Name: "Mouse", Price: 4.50, Quantity: 2},
		},
		ShippingAddress: models.Address{Street: "1 Main St", City: "Springfield", Country: "US"},
		Status:          models.OrderStatusProcessing,
		CreatedAt:       time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC),
	}
}

func TestOrderStore_GetUnknownUser(t *testing.T) {
	s := NewOrderStore()

	orders := s.Get("nobody@example.com")
	require.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestOrderStore_AddThenFind(t *testing.T) {
	s := NewOrderStore()
	email := "jane@example.com"
	order := sampleOrder("ORD1")

	s.Add(email, order)

	got, ok := s.Find(email, "ORD1")
	require.True(t, ok)
	assert.Equal(t, "ORD1", got.ID)
	assert.Equal(t, email, got.Email)
	assert.Equal(t, order.Items[0].Name, got.Items[0].Name)
	assert.Equal(t, order.ShippingAddress, got.ShippingAddress)
	assert.Equal(t, 39.00, got.Total)
	assert.Equal(t, 30.00, got.Items[0].Subtotal)
	assert.Equal(t, 9.00, got.Items[1].Subtotal)
}

func TestOrderStore_FindMissing(t *testing.T) {
	s := NewOrderStore()
	s.Add("jane@example.com", sampleOrder("ORD1"))

	_, ok := s.Find("jane@example.com", "ORD2")
	assert.False(t, ok)
	_, ok = s.Find("john@example.com", "ORD1")
	assert.False(t, ok)
}

func TestOrderStore_CopiesIsolateState(t *testing.T) {
	s := NewOrderStore()
	email := "jane@example.com"
	order := sampleOrder("ORD1")
	s.Add(email, order)

	// Mutating the input after Add must not leak in
	order.Items[0].Quantity = 99

	got, _ := s.Find(email, "ORD1")
	assert.Equal(t, 3, got.Items[0].Quantity)

	// Mutating a returned copy must not leak in either
	got.Items[0].Name = "Changed"
	got.Status = models.OrderStatusCancelled

	list := s.Get(email)
	list[0].Items[1].Price = 0

	again, _ := s.Find(email, "ORD1")
	assert.Equal(t, "Keyboard", again.Items[0].Name)
	assert.Equal(t, models.OrderStatusProcessing, again.Status)
	assert.Equal(t, 4.50, again.Items[1].Price)
}

func TestOrderStore_Set(t *testing.T) {
	s := NewOrderStore()
	email := "jane@example.com"
	s.Add(email, sampleOrder("OLD"))

	s.Set(email, []models.Order{sampleOrder("A"), sampleOrder("B")})

	orders := s.Get(email)
	require.Len(t, orders, 2)
	assert.Equal(t, "A", orders[0].ID)
	assert.Equal(t, "B", orders[1].ID)
	assert.Equal(t, 39.00, orders[1].Total)

	s.Set(email, nil)
	assert.Equal(t, 0, s.Users())
}

func TestOrderStore_UpdateMerges(t *testing.T) {
	s := NewOrderStore()
	email := "jane@example.com"
	s.Add(email, sampleOrder("ORD1"))

	addr := models.Address{Street: "2 Side St", City: "Shelbyville", Country: "US"}
	ok := s.Update(email, "ORD1", models.OrderPatch{ShippingAddress: &addr})
	require.True(t, ok)

	got, _ := s.Find(email, "ORD1")
	assert.Equal(t, addr, got.ShippingAddress)
	// Untouched fields survive
	assert.Equal(t, models.OrderStatusProcessing, got.Status)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, 39.00, got.Total)

	shipped := models.OrderStatusShipped
	require.True(t, s.Update(email, "ORD1", models.OrderPatch{Status: &shipped}))
	got, _ = s.Find(email, "ORD1")
	assert.Equal(t, models.OrderStatusShipped, got.Status)
	assert.Equal(t, addr, got.ShippingAddress)
}

func TestOrderStore_UpdateNeverInserts(t *testing.T) {
	s := NewOrderStore()
	status := models.OrderStatusShipped

	assert.False(t, s.Update("jane@example.com", "ORD1", models.OrderPatch{Status: &status}))
	assert.Equal(t, 0, s.Users())
}

func TestOrderStore_ReplaceRecomputesTotal(t *testing.T) {
	s := NewOrderStore()
	email := "jane@example.com"
	original := sampleOrder("ORD1")
	s.Add(email, original)

	ok := s.Replace(email, "ORD1", models.Order{
		ID:     "IGNORED",
		Items:  []models.LineItem{{Name: "Monitor", Price: 199.99, Quantity: 2}},
		Status: models.OrderStatusShipped,
		Total:  1, // stale totals from callers are ignored
	})
	require.True(t, ok)

	got, ok := s.Find(email, "ORD1")
	require.True(t, ok)
	assert.Equal(t, "ORD1", got.ID)
	assert.Equal(t, email, got.Email)
	assert.Equal(t, original.CreatedAt, got.CreatedAt)
	assert.Equal(t, 399.98, got.Total)
	assert.Equal(t, models.Address{}, got.ShippingAddress)

	assert.False(t, s.Replace(email, "ORD404", models.Order{}))
}

func TestOrderStore_RemoveLastDropsUser(t *testing.T) {
	s := NewOrderStore()
	email := "jane@example.com"
	s.Add(email, sampleOrder("ORD1"))
	s.Add(email, sampleOrder("ORD2"))

	require.True(t, s.Remove(email, "ORD1"))
	assert.Equal(t, 1, s.Users())
	remaining := s.Get(email)
	require.Len(t, remaining, 1)
	assert.Equal(t, "ORD2", remaining[0].ID)

	require.True(t, s.Remove(email, "ORD2"))
	assert.Equal(t, 0, s.Users(), "user entry should be dropped, not left empty")

	assert.False(t, s.Remove(email, "ORD2"))
}

func TestOrderStore_LookupAndAll(t *testing.T) {
	s := NewOrderStore()
	s.Add("john@example.com", sampleOrder("J1"))
	s.Add("jane@example.com", sampleOrder("A1"))
	s.Add("jane@example.com", sampleOrder("A2"))

	got, ok := s.Lookup("J1")
	require.True(t, ok)
	assert.Equal(t, "john@example.com", got.Email)

	_, ok = s.Lookup("missing")
	assert.False(t, ok)

	all := s.All()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"A1", "A2", "J1"}, []string{all[0].ID, all[1].ID, all[2].ID})
}

func TestOrderStore_ConcurrentAccess(t *testing.T) {
	s := NewOrderStore()
	var wg sync.WaitGroup

	for u := 0; u < 8; u++ {
		wg.Add(1)
		go func(u int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", u)
			for i := 0; i < 50; i++ {
				id := fmt.Sprintf("ORD-%d-%d", u, i)
				s.Add(email, sampleOrder(id))
				status := models.OrderStatusShipped
				s.Update(email, id, models.OrderPatch{Status: &status})
				s.Find(email, id)
				s.All()
			}
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 8, s.Users())
	assert.Len(t, s.All(), 400)
}

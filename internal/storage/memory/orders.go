package memory

import (
	"sort"
	"sync"

	"github.com/mmynk/shopfront/internal/calculator"
	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/storage"
)

var _ storage.OrderStore = (*OrderStore)(nil)

// OrderStore implements storage.OrderStore with a map guarded by one mutex.
// Orders go in and come out as deep copies.
type OrderStore struct {
	mu     sync.Mutex
	orders map[string][]models.Order
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string][]models.Order)}
}

// Get returns copies of the user's orders; never nil.
func (s *OrderStore) Get(email string) []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneOrders(s.orders[email])
}

// Set replaces the user's orders. Owner and totals are normalised on the way in.
func (s *OrderStore) Set(email string, orders []models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(orders) == 0 {
		delete(s.orders, email)
		return
	}
	list := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		list = append(list, normalise(email, o))
	}
	s.orders[email] = list
}

// Add appends a copy of order to the user's list.
func (s *OrderStore) Add(email string, order models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[email] = append(s.orders[email], normalise(email, order))
}

// Find returns a copy of the user's order with the given ID.
func (s *OrderStore) Find(email, id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.orders[email], id)
	if i < 0 {
		return models.Order{}, false
	}
	return s.orders[email][i].Clone(), true
}

// Update merges patch into the stored order.
func (s *OrderStore) Update(email, id string, patch models.OrderPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.orders[email]
	i := indexOf(list, id)
	if i < 0 {
		return false
	}
	if patch.Status != nil {
		list[i].Status = *patch.Status
	}
	if patch.ShippingAddress != nil {
		list[i].ShippingAddress = *patch.ShippingAddress
	}
	return true
}

// Replace swaps the stored order for order, keeping ID, owner and CreatedAt.
func (s *OrderStore) Replace(email, id string, order models.Order) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.orders[email]
	i := indexOf(list, id)
	if i < 0 {
		return false
	}
	order.ID = id
	order.CreatedAt = list[i].CreatedAt
	list[i] = normalise(email, order)
	return true
}

// Remove deletes the order and drops the user when nothing is left.
func (s *OrderStore) Remove(email, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.orders[email]
	i := indexOf(list, id)
	if i < 0 {
		return false
	}
	if len(list) == 1 {
		delete(s.orders, email)
		return true
	}
	s.orders[email] = append(list[:i:i], list[i+1:]...)
	return true
}

// Lookup finds an order by ID across all users.
func (s *OrderStore) Lookup(id string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, email := range s.emailsLocked() {
		if i := indexOf(s.orders[email], id); i >= 0 {
			return s.orders[email][i].Clone(), true
		}
	}
	return models.Order{}, false
}

// All returns copies of every order, users in email order.
func (s *OrderStore) All() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Order{}
	for _, email := range s.emailsLocked() {
		out = append(out, cloneOrders(s.orders[email])...)
	}
	return out
}

// Users returns the number of users with at least one order.
func (s *OrderStore) Users() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// emailsLocked returns the user keys sorted. Must be called with mu held.
func (s *OrderStore) emailsLocked() []string {
	emails := make([]string, 0, len(s.orders))
	for e := range s.orders {
		emails = append(emails, e)
	}
	sort.Strings(emails)
	return emails
}

// normalise deep-copies o, stamps the owner and recomputes line subtotals and total.
func normalise(email string, o models.Order) models.Order {
	c := o.Clone()
	c.Email = email
	c.Total = calculator.PriceLines(c.Items)
	return c
}

func indexOf(list []models.Order, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneOrders(list []models.Order) []models.Order {
	out := make([]models.Order, len(list))
	for i, o := range list {
		out[i] = o.Clone()
	}
	return out
}

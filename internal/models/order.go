package models

import "time"

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order represents one order owned by a user.
//
// Total always equals the rounded sum of the line subtotals. The order store
// recomputes it whenever an order is added or fully replaced.
type Order struct {
	// ID is the unique identifier for the order (e.g., "ORD-<uuid prefix>").
	ID string `json:"id" yaml:"id"`

	// Email is the owning user's email address.
	Email string `json:"email" yaml:"email"`

	// Items are the ordered lines of the order.
	Items []LineItem `json:"items" yaml:"items"`

	// ShippingAddress is where the order ships to.
	ShippingAddress Address `json:"shipping_address" yaml:"shipping_address"`

	// Status is the fulfilment state.
	Status OrderStatus `json:"status" yaml:"status"`

	// Total is the computed order total.
	Total float64 `json:"total" yaml:"total"`

	// CreatedAt is when the order was placed.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]LineItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return c
}

// LineItem represents a single priced line on an order.
type LineItem struct {
	ItemID   string  `json:"item_id,omitempty" yaml:"item_id"`
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Quantity int     `json:"quantity" yaml:"quantity"`

	// Subtotal is round(Price*Quantity, 2).
	Subtotal float64 `json:"subtotal" yaml:"subtotal"`
}

// Address represents a shipping address.
type Address struct {
	Street  string `json:"street" yaml:"street"`
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Zip     string `json:"zip" yaml:"zip"`
	Country string `json:"country" yaml:"country"`
}

// OrderPatch carries the fields a partial update may change.
// Nil fields are left untouched.
type OrderPatch struct {
	Status          *OrderStatus
	ShippingAddress *Address
}

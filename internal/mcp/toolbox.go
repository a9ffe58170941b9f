// Package mcp implements the context resources and tools served over the
// MCP-style session protocol.
package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/storage"
)

var (
	ErrUnknownResource = errors.New("resource_not_found")
	ErrUnknownTool     = errors.New("unknown_tool")
	ErrOrderNotFound   = errors.New("order_not_found")
	ErrInvalidInput    = errors.New("invalid_input")
)

// Resource names.
const (
	ResourceProducts   = "products"
	ResourceOrders     = "orders"
	ResourceReturns    = "returns"
	ResourceFAQ        = "faq"
	ResourceCategories = "categories"
)

// Tool names.
const (
	ToolSearchProducts         = "search_products"
	ToolCheckOrder             = "check_order"
	ToolCheckReturnEligibility = "check_return_eligibility"
	ToolSearchFAQ              = "search_faq"
	ToolAnalyzeSentiment       = "analyze_sentiment"
	ToolCategorizeTicket       = "categorize_ticket"
)

// Capabilities is advertised when a session opens.
type Capabilities struct {
	Context []string `json:"context"`
	Tools   []string `json:"tools"`
}

// Toolbox answers context requests and runs tools against the shop state.
type Toolbox struct {
	catalog storage.Catalog
	orders  storage.OrderStore
	now     func() time.Time
}

// NewToolbox creates a toolbox reading from catalog and orders.
func NewToolbox(catalog storage.Catalog, orders storage.OrderStore) *Toolbox {
	return &Toolbox{catalog: catalog, orders: orders, now: time.Now}
}

// Capabilities lists the resources and tools this toolbox serves.
func (t *Toolbox) Capabilities() Capabilities {
	return Capabilities{
		Context: []string{ResourceProducts, ResourceOrders, ResourceReturns, ResourceFAQ, ResourceCategories},
		Tools: []string{
			ToolSearchProducts,
			ToolCheckOrder,
			ToolCheckReturnEligibility,
			ToolSearchFAQ,
			ToolAnalyzeSentiment,
			ToolCategorizeTicket,
		},
	}
}

// OrderSummary is one entry of the "orders" resource.
type OrderSummary struct {
	ID        string             `json:"id"`
	Email     string             `json:"email"`
	Status    models.OrderStatus `json:"status"`
	Total     float64            `json:"total"`
	ItemCount int                `json:"item_count"`
	CreatedAt time.Time          `json:"created_at"`
}

// Resource returns the named context resource.
func (t *Toolbox) Resource(name string) (any, error) {
	switch name {
	case ResourceProducts:
		return t.catalog.List(), nil
	case ResourceOrders:
		all := t.orders.All()
		out := make([]OrderSummary, 0, len(all))
		for _, o := range all {
			n := 0
			for _, li := range o.Items {
				n += li.Quantity
			}
			out = append(out, OrderSummary{
				ID:        o.ID,
				Email:     o.Email,
				Status:    o.Status,
				Total:     o.Total,
				ItemCount: n,
				CreatedAt: o.CreatedAt,
			})
		}
		return out, nil
	case ResourceReturns:
		return Policy(), nil
	case ResourceFAQ:
		return FAQs(), nil
	case ResourceCategories:
		return TicketCategories(), nil
	default:
		return nil, ErrUnknownResource
	}
}

type queryInput struct {
	Q string `json:"q"`
}

type orderInput struct {
	OrderID string `json:"order_id"`
}

type textInput struct {
	Text string `json:"text"`
}

// OrderCheck is the output of the check_order tool.
type OrderCheck struct {
	OrderID           string             `json:"order_id"`
	Status            models.OrderStatus `json:"status"`
	Email             string             `json:"email"`
	Total             float64            `json:"total"`
	EstimatedDelivery string             `json:"estimated_delivery,omitempty"`
}

// standardShipping bounds estimated delivery dates.
const standardShipping = 5 * 24 * time.Hour

// Run executes tool with its raw JSON input. A missing input is treated as {}.
func (t *Toolbox) Run(tool string, input json.RawMessage) (any, error) {
	switch tool {
	case ToolSearchProducts:
		var in queryInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return t.catalog.Search(in.Q), nil

	case ToolSearchFAQ:
		var in queryInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return SearchFAQ(in.Q), nil

	case ToolCheckOrder:
		o, err := t.lookupOrder(input)
		if err != nil {
			return nil, err
		}
		res := OrderCheck{OrderID: o.ID, Status: o.Status, Email: o.Email, Total: o.Total}
		if o.Status != models.OrderStatusCancelled {
			res.EstimatedDelivery = o.CreatedAt.Add(standardShipping).UTC().Format(time.DateOnly)
		}
		return res, nil

	case ToolCheckReturnEligibility:
		o, err := t.lookupOrder(input)
		if err != nil {
			return nil, err
		}
		return CheckReturnEligibility(o, t.now()), nil

	case ToolAnalyzeSentiment:
		var in textInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return AnalyzeSentiment(in.Text), nil

	case ToolCategorizeTicket:
		var in textInput
		if err := decodeInput(input, &in); err != nil {
			return nil, err
		}
		return CategorizeTicket(in.Text), nil

	default:
		return nil, ErrUnknownTool
	}
}

func (t *Toolbox) lookupOrder(input json.RawMessage) (models.Order, error) {
	var in orderInput
	if err := decodeInput(input, &in); err != nil {
		return models.Order{}, err
	}
	if in.OrderID == "" {
		return models.Order{}, fmt.Errorf("%w: order_id is required", ErrInvalidInput)
	}
	o, ok := t.orders.Lookup(in.OrderID)
	if !ok {
		return models.Order{}, ErrOrderNotFound
	}
	return o, nil
}

func decodeInput(input json.RawMessage, dst any) error {
	input = bytes.TrimSpace(input)
	if len(input) == 0 || bytes.Equal(input, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(input, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mmynk/shopfront/internal/calculator"
	"github.com/mmynk/shopfront/internal/middleware"
	"github.com/mmynk/shopfront/internal/models"
	"github.com/mmynk/shopfront/internal/storage"
)

// NoActiveUserMessage is sent when an order route has no user to act for.
const NoActiveUserMessage = "No active user"

// OrderService serves order reads, mutations and bulk quotes.
type OrderService struct {
	catalog storage.Catalog
	orders  storage.OrderStore
	users   storage.UserSlot
	logger  *slog.Logger
	now     func() time.Time
}

// NewOrderService creates an order service.
func NewOrderService(catalog storage.Catalog, orders storage.OrderStore, users storage.UserSlot, logger *slog.Logger) *OrderService {
	return &OrderService{
		catalog: catalog,
		orders:  orders,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// currentEmail resolves the user a request acts for: the current-user slot.
// A bearer token, when present, must name that user and be issued no earlier
// than the login that filled the slot, so tokens stop working on logout or
// when another user logs in.
func (s *OrderService) currentEmail(r *http.Request) (string, error) {
	u, ok := s.users.Current()
	if !ok {
		return "", storage.ErrNoActiveUser
	}
	if p, ok := middleware.GetUser(r.Context()); ok {
		// token times have second precision
		if p.Subject != u.Email || p.IssuedAt.Before(u.LoggedInAt.Truncate(time.Second)) {
			s.logger.Warn("Token does not match the current user", "token_user", p.Subject)
			return "", storage.ErrNoActiveUser
		}
	}
	return u.Email, nil
}

// requireUser writes 401 and returns false when there is no active user.
func (s *OrderService) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	email, err := s.currentEmail(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, NoActiveUserMessage)
		return "", false
	}
	return email, true
}

// ListOrders handles GET /api/orders.
func (s *OrderService) ListOrders(w http.ResponseWriter, r *http.Request) {
	email, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.orders.Get(email))
}

type orderLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	Items           []orderLineRequest `json:"items"`
	ShippingAddress *models.Address    `json:"shipping_address"`
}

// CreateOrder handles POST /api/orders. Lines are priced from the catalog.
func (s *OrderService) CreateOrder(w http.ResponseWriter, r *http.Request) {
	email, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order must have at least one item")
		return
	}
	if err := validateAddress(req.ShippingAddress); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines := make([]models.LineItem, 0, len(req.Items))
	for i, li := range req.Items {
		if li.ItemID == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d: item_id is required", i))
			return
		}
		if li.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d: quantity must be a positive integer", i))
			return
		}
		item, found := s.catalog.Get(li.ItemID)
		if !found {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Item not found: %s", li.ItemID))
			return
		}
		lines = append(lines, models.LineItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: li.Quantity,
		})
	}
	if err := calculator.ValidateLines(lines); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := models.Order{
		ID:              newOrderID(),
		Items:           lines,
		ShippingAddress: *req.ShippingAddress,
		Status:          models.OrderStatusProcessing,
		CreatedAt:       s.now().UTC(),
	}
	s.orders.Add(email, order)

	created, _ := s.orders.Find(email, order.ID)
	s.logger.Info("Order created", "order_id", created.ID, "email", email, "total", created.Total)
	writeJSON(w, http.StatusCreated, created)
}

// DeleteOrder handles DELETE /api/orders/{id}.
func (s *OrderService) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	email, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if !s.orders.Remove(email, id) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	s.logger.Info("Order deleted", "order_id", id, "email", email)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted", "order_id": id})
}

// OrderStatus handles GET /order/status?order_id=.
func (s *OrderService) OrderStatus(w http.ResponseWriter, r *http.Request) {
	email, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(r.URL.Query().Get("order_id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'order_id' is required")
		return
	}
	order, found := s.orders.Find(email, id)
	if !found {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"order_id": order.ID, "status": order.Status})
}

type bulkLineRequest struct {
	Name     string          `json:"name"`
	Quantity json.RawMessage `json:"quantity"`
}

type bulkRequest struct {
	Items []bulkLineRequest `json:"items"`
}

// CalculateBulk handles POST /order/calculate-bulk. Validation stops at the
// first bad line.
func (s *OrderService) CalculateBulk(w http.ResponseWriter, r *http.Request) {
	var req bulkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must be a non-empty list")
		return
	}

	lines := make([]calculator.QuoteLine, 0, len(req.Items))
	for i, li := range req.Items {
		if li.Name == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d: name is required", i))
			return
		}
		qty, err := parseQuantity(li.Quantity)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d (%s): %v", i, li.Name, err))
			return
		}
		item, found := s.catalog.GetByName(li.Name)
		if !found {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Item not found: %s", li.Name))
			return
		}
		lines = append(lines, calculator.QuoteLine{Name: item.Name, UnitPrice: item.Price, Quantity: qty})
	}

	quote, err := calculator.CalculateQuote(lines)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// parseQuantity accepts only a JSON integer greater than zero.
func parseQuantity(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, errors.New("quantity is required")
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n <= 0 {
		return 0, errors.New("quantity must be a positive integer")
	}
	return n, nil
}

type updateShippingRequest struct {
	OrderID         string          `json:"order_id"`
	ShippingAddress *models.Address `json:"shipping_address"`
}

// UpdateShipping handles POST /order/update-shipping. Only the shipping
// address is merged into the order.
func (s *OrderService) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	email, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req updateShippingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.OrderID == "" {
		writeError(w, http.StatusBadRequest, "order_id is required")
		return
	}
	if err := validateAddress(req.ShippingAddress); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.orders.Update(email, req.OrderID, models.OrderPatch{ShippingAddress: req.ShippingAddress}) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	updated, _ := s.orders.Find(email, req.OrderID)
	s.logger.Info("Shipping address updated", "order_id", req.OrderID, "email", email)
	writeJSON(w, http.StatusOK, updated)
}

type putOrderRequest struct {
	Items           []models.LineItem  `json:"items"`
	ShippingAddress *models.Address    `json:"shipping_address"`
	Status          models.OrderStatus `json:"status"`
}

// PutOrder handles PUT /order/put_order/{id}: a full replace of the order
// body. ID, owner and creation time are kept and the total is recomputed.
func (s *OrderService) PutOrder(w http.ResponseWriter, r *http.Request) {
	email, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req putOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := calculator.ValidateLines(req.Items); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateAddress(req.ShippingAddress); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Status.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("status %q is not a valid order status", req.Status))
		return
	}

	for i, li := range req.Items {
		if li.Name != "" {
			continue
		}
		if item, found := s.catalog.Get(li.ItemID); found {
			req.Items[i].Name = item.Name
		}
	}

	id := chi.URLParam(r, "id")
	replacement := models.Order{
		Items:           req.Items,
		ShippingAddress: *req.ShippingAddress,
		Status:          req.Status,
	}
	if !s.orders.Replace(email, id, replacement) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}

	updated, _ := s.orders.Find(email, id)
	s.logger.Info("Order replaced", "order_id", id, "email", email, "total", updated.Total)
	writeJSON(w, http.StatusOK, updated)
}

// validateAddress requires the fields a carrier needs.
func validateAddress(a *models.Address) error {
	if a == nil {
		return errors.New("shipping_address is required")
	}
	switch {
	case strings.TrimSpace(a.Street) == "":
		return errors.New("shipping_address.street is required")
	case strings.TrimSpace(a.City) == "":
		return errors.New("shipping_address.city is required")
	case strings.TrimSpace(a.Zip) == "":
		return errors.New("shipping_address.zip is required")
	case strings.TrimSpace(a.Country) == "":
		return errors.New("shipping_address.country is required")
	}
	return nil
}

// newOrderID returns an id like "ORD-1A2B3C4D".
func newOrderID() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

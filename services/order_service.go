package services

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/dress-orders-api/models"
)

// Actor is who performs an operation: the admin (valid token) or a customer
// identified only by the email they claim.
type Actor struct {
	Admin bool
	Email string
}

// CanManage reports whether the actor may cancel o
func (a Actor) CanManage(o *models.Order) bool {
	return a.Admin || o.OwnedBy(a.Email)
}

// CreateOrderInput holds the customer-supplied fields of a new order.
// Quantity accepts any JSON-decoded value that is a positive integer
// (a number or a numeric string).
type CreateOrderInput struct {
	Name     string
	Phone    string
	Email    string
	Address  string
	DressID  string
	Size     string
	Quantity any
	Notes    string
}

// OrderPatch is an admin edit keyed by JSON field name.
// Keys outside EditableFields are ignored.
type OrderPatch map[string]any

// EditableFields lists the keys EditFields applies
var EditableFields = []string{"name", "phone", "address", "dressId", "size", "quantity", "notes", "status", "email"}

// OrderService validates, authorizes and persists order operations.
// Every mutation runs load → change → save under one write lock.
type OrderService struct {
	store OrderStore
	now   func() time.Time
	newID func() string

	mu sync.RWMutex
}

// OrderServiceOption configures an OrderService
type OrderServiceOption func(*OrderService)

// WithOrderClock replaces time.Now, for tests
func WithOrderClock(now func() time.Time) OrderServiceOption {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithIDGenerator replaces the order id generator, for tests
func WithIDGenerator(newID func() string) OrderServiceOption {
	return func(s *OrderService) {
		s.newID = newID
	}
}

// NewOrderService creates an order service over store
func NewOrderService(store OrderStore, opts ...OrderServiceOption) *OrderService {
	s := &OrderService{
		store: store,
		now:   time.Now,
		newID: newOrderID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newOrderID returns a UUIDv7: time-ordered with 74 random bits
func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Create validates in and appends a new received order
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	required := []struct {
		field string
		value string
	}{
		{"name", in.Name},
		{"phone", in.Phone},
		{"address", in.Address},
		{"dressId", in.DressID},
		{"size", in.Size},
		{"email", in.Email},
	}
	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if in.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if len(missing) > 0 {
		return nil, validationError("Missing required fields: " + strings.Join(missing, ", "))
	}

	quantity, ok := coerceQuantity(in.Quantity)
	if !ok {
		return nil, validationError("Quantity must be a positive integer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(orders))
	for i := range orders {
		taken[orders[i].ID] = struct{}{}
	}
	id := s.newID()
	for {
		if _, dup := taken[id]; !dup {
			break
		}
		id = s.newID()
	}

	order := models.Order{
		ID:        id,
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     normalizeEmail(in.Email),
		Address:   in.Address,
		DressID:   in.DressID,
		Size:      in.Size,
		Quantity:  quantity,
		Notes:     in.Notes,
		Status:    models.StatusReceived,
		CreatedAt: s.now().UTC(),
	}

	if err := s.save(ctx, append(orders, order)); err != nil {
		return nil, err
	}

	log.Printf("Order %s created for %s (%s x%d)", order.ID, order.Email, order.DressID, order.Quantity)
	return &order, nil
}

// List returns every order for the admin, otherwise the orders whose email
// matches the actor's email case-insensitively.
func (s *OrderService) List(ctx context.Context, actor Actor) ([]models.Order, error) {
	if !actor.Admin && strings.TrimSpace(actor.Email) == "" {
		return nil, unauthorizedError("Admin token or email required")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if actor.Admin {
		return orders, nil
	}

	mine := make([]models.Order, 0)
	for i := range orders {
		if orders[i].OwnedBy(actor.Email) {
			mine = append(mine, orders[i])
		}
	}
	return mine, nil
}

// Cancel moves an order to cancelled. Cancelling a cancelled order returns
// it unchanged.
func (s *OrderService) Cancel(ctx context.Context, id string, actor Actor) (*models.Order, error) {
	return s.mutate(ctx, id, func(o *models.Order) (bool, error) {
		if !actor.CanManage(o) {
			return false, forbiddenError("Not allowed to cancel this order")
		}
		if o.Status == models.StatusCancelled {
			return false, nil
		}
		now := s.now().UTC()
		o.Status = models.StatusCancelled
		o.CancelledAt = &now
		log.Printf("Order %s cancelled (admin=%t)", o.ID, actor.Admin)
		return true, nil
	})
}

// EditFields applies the allow-listed fields of patch. Admin only.
// Unlike Create, string fields are stored as given without a non-empty check.
func (s *OrderService) EditFields(ctx context.Context, id string, actor Actor, patch OrderPatch) (*models.Order, error) {
	if !actor.Admin {
		return nil, forbiddenError("Admin access only")
	}

	return s.mutate(ctx, id, func(o *models.Order) (bool, error) {
		now := s.now().UTC()
		for _, field := range EditableFields {
			value, present := patch[field]
			if !present {
				continue
			}
			if err := applyField(o, field, value, now); err != nil {
				return false, err
			}
		}
		o.UpdatedAt = &now
		return true, nil
	})
}

// SetStatus is the admin override for an order's status. It does not enforce
// the customer state machine: any known status may follow any other.
func (s *OrderService) SetStatus(ctx context.Context, id string, actor Actor, status models.OrderStatus) (*models.Order, error) {
	if !actor.Admin {
		return nil, forbiddenError("Admin access only")
	}
	if status == "" {
		return nil, validationError("Status is required")
	}
	if !status.Valid() {
		return nil, validationError("Unknown status " + strconv.Quote(string(status)))
	}

	return s.mutate(ctx, id, func(o *models.Order) (bool, error) {
		now := s.now().UTC()
		previous := o.Status
		o.Status = status
		o.UpdatedAt = &now
		switch status {
		case models.StatusCompleted:
			o.CompletedAt = &now
		case models.StatusCancelled:
			if o.CancelledAt == nil {
				o.CancelledAt = &now
			}
		}
		log.Printf("Order %s status %s -> %s", o.ID, previous, status)
		return true, nil
	})
}

// mutate applies fn to a copy of order id and saves the collection if fn
// reports a change. On any error nothing is written.
func (s *OrderService) mutate(ctx context.Context, id string, fn func(o *models.Order) (bool, error)) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range orders {
		if orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, notFoundError()
	}

	order := orders[idx]
	changed, err := fn(&order)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &order, nil
	}

	orders[idx] = order
	if err := s.save(ctx, orders); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) load(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.LoadAll(ctx)
	if err != nil {
		log.Printf("Failed to load orders: %v", err)
		return nil, persistenceError("Failed to load orders", err)
	}
	return orders, nil
}

func (s *OrderService) save(ctx context.Context, orders []models.Order) error {
	if err := s.store.SaveAll(ctx, orders); err != nil {
		log.Printf("Failed to save orders: %v", err)
		return persistenceError("Failed to save orders", err)
	}
	return nil
}

func applyField(o *models.Order, field string, value any, now time.Time) error {
	if field == "quantity" {
		q, ok := coerceQuantity(value)
		if !ok {
			return validationError("Quantity must be a positive integer")
		}
		o.Quantity = q
		return nil
	}

	str, ok := stringValue(value)
	if !ok {
		return validationError("Field " + field + " must be a string")
	}

	switch field {
	case "name":
		o.Name = str
	case "phone":
		o.Phone = str
	case "address":
		o.Address = str
	case "dressId":
		o.DressID = str
	case "size":
		o.Size = str
	case "notes":
		o.Notes = str
	case "email":
		o.Email = normalizeEmail(str)
	case "status":
		status := models.OrderStatus(str)
		if !status.Valid() {
			return validationError("Unknown status " + strconv.Quote(str))
		}
		if status == o.Status {
			return nil
		}
		o.Status = status
		switch status {
		case models.StatusCompleted:
			o.CompletedAt = &now
		case models.StatusCancelled:
			if o.CancelledAt == nil {
				o.CancelledAt = &now
			}
		}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// coerceQuantity converts a JSON-decoded value to a positive int
func coerceQuantity(v any) (int, bool) {
	var f float64
	switch q := v.(type) {
	case int:
		f = float64(q)
	case int64:
		f = float64(q)
	case float64:
		f = q
	case json.Number:
		n, err := q.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if f < 1 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// stringValue accepts strings, null (as "") and plain numbers
func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case nil:
		return "", true
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	}
	return "", false
}

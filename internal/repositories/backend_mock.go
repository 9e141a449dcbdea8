package repositories

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"farmmarket/internal/api"
	"farmmarket/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

type mockUser struct {
	identity     models.Identity
	passwordHash []byte
}

// MockBackend is an in-memory stand-in for the marketplace backend. It keeps the
// same rules the real one enforces (one open cart per buyer, snapshot prices,
// farmer-owned products) so the storefront can run without a server.
type MockBackend struct {
	mu         sync.RWMutex
	users      map[string]*mockUser // keyed by username
	products   map[int64]models.Product
	categories map[int64]models.Category
	orders     map[int64]models.Order
	nextID     int64
}

// NewMockBackend creates an empty in-memory backend.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		users:      make(map[string]*mockUser),
		products:   make(map[int64]models.Product),
		categories: make(map[int64]models.Category),
		orders:     make(map[int64]models.Order),
	}
}

// Session returns a handle bound to a fresh, signed-out backend session.
func (b *MockBackend) Session() *MockSession {
	return &MockSession{backend: b}
}

// AddCategory registers a category and returns it with its assigned ID.
func (b *MockBackend) AddCategory(c models.Category) models.Category {
	b.mu.Lock()
	defer b.mu.Unlock()

	if c.ID == 0 {
		c.ID = b.newID()
	}
	b.categories[c.ID] = c
	return c
}

// AddUser creates an account with a bcrypt password hash. A taken username is
// rejected with the same 400 payload the real backend sends.
func (b *MockBackend) AddUser(req models.RegisterRequest) (models.Identity, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to hash password: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.users[req.Username]; taken {
		return models.Identity{}, &api.APIError{
			StatusCode: http.StatusBadRequest,
			Payload:    map[string]any{"username": []any{"A user with that username already exists."}},
		}
	}
	identity := models.Identity{
		ID:          b.newID(),
		Username:    req.Username,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		UserType:    req.UserType,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	}
	b.users[req.Username] = &mockUser{identity: identity, passwordHash: hashedPassword}
	return identity, nil
}

// AddProduct stores a product as-is and returns it with its assigned ID.
func (b *MockBackend) AddProduct(p models.Product) models.Product {
	b.mu.Lock()
	defer b.mu.Unlock()

	if p.ID == 0 {
		p.ID = b.newID()
	}
	if c, ok := b.categories[p.Category]; ok {
		p.CategoryName = c.Name
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	b.products[p.ID] = p
	return p
}

// Order returns a copy of any order by ID, regardless of owner.
func (b *MockBackend) Order(id int64) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	if !ok {
		return models.Order{}, false
	}
	return *o.Clone(), true
}

func (b *MockBackend) newID() int64 {
	b.nextID++
	return b.nextID
}

// openCartLocked returns the buyer's open cart, creating one if needed.
// Callers must hold the write lock.
func (b *MockBackend) openCartLocked(buyer *models.Identity) models.Order {
	for _, o := range b.orders {
		if o.Buyer == buyer.ID && o.Status == models.StatusCart {
			return o
		}
	}
	now := time.Now()
	cart := models.Order{
		ID:          b.newID(),
		Buyer:       buyer.ID,
		BuyerName:   buyer.Username,
		Status:      models.StatusCart,
		TotalAmount: decimal.Zero,
		Items:       []models.OrderItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.orders[cart.ID] = cart
	return cart
}

// saveLocked recomputes totals and stores the order. Callers must hold the write lock.
func (b *MockBackend) saveLocked(o models.Order) models.Order {
	total := decimal.Zero
	for i := range o.Items {
		o.Items[i].Subtotal = o.Items[i].LineTotal()
		total = total.Add(o.Items[i].Subtotal)
	}
	o.TotalAmount = total
	o.UpdatedAt = time.Now()
	b.orders[o.ID] = o
	return o
}

func notFound(what string) error {
	return &api.APIError{
		StatusCode: http.StatusNotFound,
		Payload:    map[string]any{"detail": what + " not found."},
	}
}

func badRequest(msg string) error {
	return &api.APIError{
		StatusCode: http.StatusBadRequest,
		Payload:    map[string]any{"error": msg},
	}
}

func forbidden() error {
	return &api.APIError{
		StatusCode: http.StatusForbidden,
		Payload:    map[string]any{"detail": "Authentication credentials were not provided."},
	}
}

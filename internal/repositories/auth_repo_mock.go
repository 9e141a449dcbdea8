package repositories

import (
	"context"
	"net/http"
	"sync"

	"farmmarket/internal/api"
	"farmmarket/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// MockSession is one signed-in (or anonymous) session against a MockBackend.
// It implements AuthRepository; Orders and Products expose the other repositories.
type MockSession struct {
	backend *MockBackend
	mu      sync.RWMutex
	user    *models.Identity
}

// MockOrderRepository is the OrderRepository view of a MockSession.
type MockOrderRepository struct {
	s *MockSession
}

// MockProductRepository is the ProductRepository view of a MockSession.
type MockProductRepository struct {
	s *MockSession
}

// Orders returns the session's order repository.
func (s *MockSession) Orders() *MockOrderRepository {
	return &MockOrderRepository{s: s}
}

// Products returns the session's product repository.
func (s *MockSession) Products() *MockProductRepository {
	return &MockProductRepository{s: s}
}

func (s *MockSession) current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *MockSession) setCurrent(u *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// Register creates an account and signs the session in as it.
func (s *MockSession) Register(_ context.Context, req models.RegisterRequest) (*models.Identity, error) {
	identity, err := s.backend.AddUser(req)
	if err != nil {
		return nil, err
	}
	s.setCurrent(&identity)
	return &identity, nil
}

// Login signs the session in when the password matches.
func (s *MockSession) Login(_ context.Context, creds models.Credentials) (*models.Identity, error) {
	s.backend.mu.RLock()
	u, ok := s.backend.users[creds.Username]
	s.backend.mu.RUnlock()

	if !ok || bcrypt.CompareHashAndPassword(u.passwordHash, []byte(creds.Password)) != nil {
		return nil, &api.APIError{
			StatusCode: http.StatusUnauthorized,
			Payload:    map[string]any{"error": "Invalid credentials"},
		}
	}
	identity := u.identity
	s.setCurrent(&identity)
	out := identity
	return &out, nil
}

// Logout signs the session out.
func (s *MockSession) Logout(context.Context) error {
	s.setCurrent(nil)
	return nil
}

// CurrentUser returns the signed-in identity or a 403 when anonymous.
func (s *MockSession) CurrentUser(context.Context) (*models.Identity, error) {
	u := s.current()
	if u == nil {
		return nil, forbidden()
	}
	out := *u
	return &out, nil
}

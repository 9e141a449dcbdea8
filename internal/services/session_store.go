package services

import (
	"context"
	"log"
	"sync"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"
)

// IdentityListener is notified after every identity change. identity is nil on sign-out.
type IdentityListener func(ctx context.Context, identity *models.Identity)

// SessionStore holds the identity of the current backend session.
type SessionStore struct {
	repo repositories.AuthRepository

	listeners []IdentityListener

	mu       sync.RWMutex
	identity *models.Identity
	lastErr  error
}

// NewSessionStore creates a new SessionStore that starts anonymous.
func NewSessionStore(repo repositories.AuthRepository, listeners ...IdentityListener) *SessionStore {
	return &SessionStore{
		repo:      repo,
		listeners: listeners,
	}
}

// Current returns a copy of the signed-in identity, or nil when anonymous.
func (s *SessionStore) Current() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	identity := *s.identity
	return &identity
}

// LastError returns the most recent login or registration failure.
func (s *SessionStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Probe asks the backend who the session belongs to. Any failure means anonymous
// and is not reported.
func (s *SessionStore) Probe(ctx context.Context) {
	identity, err := s.repo.CurrentUser(ctx)
	if err != nil {
		log.Printf("User not logged in or session expired: %v", err)
		return
	}
	s.setIdentity(ctx, identity)
}

// Login authenticates against the backend. On failure the backend error is
// returned unchanged and the identity is left as it was.
func (s *SessionStore) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	s.setLastError(nil)
	identity, err := s.repo.Login(ctx, creds)
	if err != nil {
		s.setLastError(err)
		return nil, err
	}
	s.setIdentity(ctx, identity)
	return s.Current(), nil
}

// Register creates an account; the backend signs the new user in.
func (s *SessionStore) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	s.setLastError(nil)
	identity, err := s.repo.Register(ctx, req)
	if err != nil {
		s.setLastError(err)
		return nil, err
	}
	s.setIdentity(ctx, identity)
	return s.Current(), nil
}

// Logout signs out locally no matter what the backend answers.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.repo.Logout(ctx); err != nil {
		log.Printf("Logout error: %v", err)
	}
	s.setIdentity(ctx, nil)
}

func (s *SessionStore) setLastError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

// setIdentity replaces the identity and then runs the listeners outside the lock.
func (s *SessionStore) setIdentity(ctx context.Context, identity *models.Identity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	for _, l := range s.listeners {
		l(ctx, identity)
	}
}

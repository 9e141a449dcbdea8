package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"golang.org/x/sync/singleflight"
)

// CartStoreOptions tunes how responses are reconciled into the store.
type CartStoreOptions struct {
	// DropStaleResponses discards a response issued before the last applied one.
	// When false the last response to arrive wins.
	DropStaleResponses bool
}

// CartStore mirrors the buyer's open cart. Its state is only ever replaced
// wholesale by a server response; it is never patched locally.
type CartStore struct {
	repo      repositories.OrderRepository
	dropStale bool
	sfg       singleflight.Group // coalesces concurrent refreshes

	mu      sync.RWMutex
	cart    *models.Cart
	lastErr string
	issued  uint64 // last token handed out
	applied uint64 // token of the state currently held
	floor   uint64 // responses issued before this token are always dropped
}

// NewCartStore creates a new, empty CartStore.
func NewCartStore(repo repositories.OrderRepository, opts CartStoreOptions) *CartStore {
	return &CartStore{
		repo:      repo,
		dropStale: opts.DropStaleResponses,
	}
}

// OnIdentityChange resynchronizes the cart: fetch for a signed-in identity,
// clear without any request on sign-out.
func (s *CartStore) OnIdentityChange(ctx context.Context, identity *models.Identity) {
	if identity == nil {
		s.Clear()
		return
	}
	if _, err := s.Refresh(ctx); err != nil {
		log.Printf("Error fetching cart: %v", err)
	}
}

// Refresh fetches the open cart from the backend and holds it.
func (s *CartStore) Refresh(ctx context.Context) (*models.Cart, error) {
	v, err, _ := s.sfg.Do("cart", func() (interface{}, error) {
		token := s.begin()
		cart, err := s.repo.GetCart(ctx)
		if err != nil {
			s.setError("Failed to load cart")
			return nil, fmt.Errorf("failed to fetch cart: %w", err)
		}
		s.setError("")
		s.apply(token, cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Cart).Clone(), nil
}

// refetch loads the cart without joining a refresh already in flight, and
// discards every response issued before it.
func (s *CartStore) refetch(ctx context.Context) (*models.Cart, error) {
	s.sfg.Forget("cart")
	token := s.fence()
	cart, err := s.repo.GetCart(ctx)
	if err != nil {
		s.setError("Failed to load cart")
		return nil, fmt.Errorf("failed to fetch cart: %w", err)
	}
	s.setError("")
	s.apply(token, cart)
	return cart.Clone(), nil
}

// Clear drops the held cart. Responses still in flight are treated as stale.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	s.lastErr = ""
	s.issued++
	s.applied = s.issued
	s.floor = s.issued
}

// Cart returns a copy of the held cart, or nil.
func (s *CartStore) Cart() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// ItemCount is the sum of item quantities; 0 without a cart.
func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.ItemCount()
}

// LastError is the inline banner text of the last failed cart operation.
func (s *CartStore) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// cartID captures the ID mutations act on.
func (s *CartStore) cartID() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0, ErrCartNotInitialized
	}
	return s.cart.ID, nil
}

func (s *CartStore) setError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}

// begin hands out a monotonic token for a request about to be issued.
func (s *CartStore) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// fence hands out a token and drops every response issued before it.
func (s *CartStore) fence() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.floor = s.issued
	return s.issued
}

// apply replaces the held cart with a response. It reports false when the
// response was dropped as stale.
func (s *CartStore) apply(token uint64, cart *models.Cart) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token < s.floor {
		log.Printf("Dropping cart response issued before %d (token %d)", s.floor, token)
		return false
	}
	if s.dropStale && token < s.applied {
		log.Printf("Dropping stale cart response (token %d, applied %d)", token, s.applied)
		return false
	}
	if token > s.applied {
		s.applied = token
	}
	s.cart = cart.Clone()
	return true
}

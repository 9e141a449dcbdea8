package workspace

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"farmmarket/internal/api"
	"farmmarket/internal/repositories"
	"farmmarket/internal/services"

	"github.com/google/uuid"
)

// Backend is the set of repositories one browser session talks to.
type Backend struct {
	Auth     repositories.AuthRepository
	Orders   repositories.OrderRepository
	Products repositories.ProductRepository
}

// BackendFactory opens a fresh backend session.
type BackendFactory func() (Backend, error)

// RemoteBackend returns a factory that gives every workspace its own REST client,
// and with it its own cookie jar.
func RemoteBackend(cfg api.Config) BackendFactory {
	return func() (Backend, error) {
		client, err := api.NewClient(cfg)
		if err != nil {
			return Backend{}, err
		}
		return Backend{
			Auth:     client.Auth(),
			Orders:   client.Orders(),
			Products: client.Products(),
		}, nil
	}
}

// MemoryBackend returns a factory that opens sessions on an in-memory backend.
func MemoryBackend(b *repositories.MockBackend) BackendFactory {
	return func() (Backend, error) {
		s := b.Session()
		return Backend{
			Auth:     s,
			Orders:   s.Orders(),
			Products: s.Products(),
		}, nil
	}
}

// Workspace is the client state of one browser session.
type Workspace struct {
	ID            string
	Session       *services.SessionStore
	Cart          *services.CartStore
	Dispatcher    *services.CartDispatcher
	Products      *services.ProductService
	Orders        *services.OrderService
	Notifications *services.NotificationCenter

	mu       sync.Mutex
	lastSeen time.Time
}

func (w *Workspace) touch(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSeen = now
}

func (w *Workspace) idleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSeen
}

// Options configures the stores of every new workspace.
type Options struct {
	IdleTTL         time.Duration
	NotificationTTL time.Duration
	Cart            services.CartStoreOptions
	Publisher       services.EventPublisher
}

// Registry owns the workspaces, keyed by browser session ID.
type Registry struct {
	newBackend BackendFactory
	opts       Options
	now        func() time.Time

	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

// NewRegistry creates an empty registry.
func NewRegistry(factory BackendFactory, opts Options) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = 30 * time.Minute
	}
	return &Registry{
		newBackend: factory,
		opts:       opts,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Resolve returns the workspace for id, creating one when id is unknown.
// created reports whether a new workspace (with a new ID) was made.
func (r *Registry) Resolve(ctx context.Context, id string) (w *Workspace, created bool, err error) {
	if w, ok := r.Get(id); ok {
		return w, false, nil
	}
	w, err = r.Create(ctx)
	if err != nil {
		return nil, false, err
	}
	return w, true, nil
}

// Get returns a known workspace and marks it as active.
func (r *Registry) Get(id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.RLock()
	w, ok := r.workspaces[id]
	r.mu.RUnlock()
	if ok {
		w.touch(r.now())
	}
	return w, ok
}

// Create builds a workspace on a new backend session and probes its identity.
func (r *Registry) Create(ctx context.Context) (*Workspace, error) {
	backend, err := r.newBackend()
	if err != nil {
		return nil, fmt.Errorf("failed to open backend session: %w", err)
	}

	cart := services.NewCartStore(backend.Orders, r.opts.Cart)
	session := services.NewSessionStore(backend.Auth, cart.OnIdentityChange)
	w := &Workspace{
		ID:            uuid.New().String(),
		Session:       session,
		Cart:          cart,
		Dispatcher:    services.NewCartDispatcher(cart, backend.Orders, session, r.opts.Publisher),
		Products:      services.NewProductService(backend.Products),
		Orders:        services.NewOrderService(backend.Orders, backend.Products),
		Notifications: services.NewNotificationCenter(r.opts.NotificationTTL),
		lastSeen:      r.now(),
	}
	session.Probe(ctx)

	r.mu.Lock()
	r.workspaces[w.ID] = w
	r.mu.Unlock()
	return w, nil
}

// Len returns the number of live workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}

// Sweep evicts workspaces idle for longer than the TTL and returns how many
// were removed. Requests still running against an evicted workspace finish
// normally; their results simply are not seen again.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.opts.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, w := range r.workspaces {
		if w.idleSince().Before(cutoff) {
			delete(r.workspaces, id)
			evicted++
		}
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("Evicted %d idle workspaces", n)
			}
		}
	}
}

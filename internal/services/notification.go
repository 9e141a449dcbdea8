package services

import (
	"sync"
	"time"
)

// Notification kinds.
const (
	NotifySuccess = "success"
	NotifyDanger  = "danger"
	NotifyWarning = "warning"
	NotifyInfo    = "info"
)

// Notification is a timed message shown once to the user.
type Notification struct {
	Message   string    `json:"message"`
	Kind      string    `json:"type"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NotificationCenter holds at most one notification, which dismisses itself
// after a fixed interval.
type NotificationCenter struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	current *Notification
}

// NewNotificationCenter creates a center whose notifications live for ttl.
func NewNotificationCenter(ttl time.Duration) *NotificationCenter {
	if ttl <= 0 {
		ttl = 3 * time.Second
	}
	return &NotificationCenter{ttl: ttl, now: time.Now}
}

// Show replaces the current notification.
func (n *NotificationCenter) Show(message, kind string) {
	if kind == "" {
		kind = NotifySuccess
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = &Notification{
		Message:   message,
		Kind:      kind,
		ExpiresAt: n.now().Add(n.ttl),
	}
}

// Current returns the live notification, or nil once it has expired.
func (n *NotificationCenter) Current() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	if !n.now().Before(n.current.ExpiresAt) {
		n.current = nil
		return nil
	}
	c := *n.current
	return &c
}

// Dismiss hides the current notification.
func (n *NotificationCenter) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
}

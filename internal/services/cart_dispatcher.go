package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// IdentitySource exposes the signed-in identity.
type IdentitySource interface {
	Current() *models.Identity
}

// CartDispatcher turns cart mutations into backend calls and reconciles each
// response into the CartStore. Every call issues its requests sequentially and
// touches the store only after a request succeeded. Nothing is retried.
type CartDispatcher struct {
	store     *CartStore
	repo      repositories.OrderRepository
	session   IdentitySource
	publisher EventPublisher
	validate  *validator.Validate
}

// NewCartDispatcher creates a new CartDispatcher. session and publisher may be nil.
func NewCartDispatcher(store *CartStore, repo repositories.OrderRepository, session IdentitySource, publisher EventPublisher) *CartDispatcher {
	return &CartDispatcher{
		store:     store,
		repo:      repo,
		session:   session,
		publisher: publisher,
		validate:  NewValidator(),
	}
}

// AddItem adds quantity units of a product to the cart.
func (d *CartDispatcher) AddItem(ctx context.Context, productID int64, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{Fields: map[string]string{"quantity": "Quantity must be at least 1"}}
	}
	return d.mutate("Failed to add item to cart", func(cartID int64) (*models.Cart, error) {
		return d.repo.AddItem(ctx, cartID, models.AddItemRequest{ProductID: productID, Quantity: quantity})
	})
}

// RemoveItem removes a line from the cart.
func (d *CartDispatcher) RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	return d.mutate("Failed to remove item from cart", func(cartID int64) (*models.Cart, error) {
		return d.repo.RemoveItem(ctx, cartID, itemID)
	})
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less is a removal.
func (d *CartDispatcher) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return d.RemoveItem(ctx, itemID)
	}
	return d.mutate("Failed to update item quantity", func(cartID int64) (*models.Cart, error) {
		return d.repo.UpdateItemQuantity(ctx, cartID, itemID, quantity)
	})
}

func (d *CartDispatcher) mutate(failMsg string, call func(cartID int64) (*models.Cart, error)) (*models.Cart, error) {
	cartID, err := d.store.cartID()
	if err != nil {
		d.store.setError(failMsg)
		return nil, err
	}

	d.store.setError("")
	token := d.store.begin()
	cart, err := call(cartID)
	if err != nil {
		log.Printf("Cart %d mutation error: %v", cartID, err)
		d.store.setError(failMsg)
		return nil, err
	}
	d.store.apply(token, cart)
	return cart.Clone(), nil
}

// Checkout places the cart as an order, marks it paid and then loads the new
// empty cart. The steps are not atomic: when marking as paid fails the placed
// order is returned together with a *PaymentError and the cart is left as is.
func (d *CartDispatcher) Checkout(ctx context.Context, info models.DeliveryInfo) (*models.Order, error) {
	if err := Validate(d.validate, info); err != nil {
		return nil, err
	}
	cartID, err := d.store.cartID()
	if err != nil {
		d.store.setError("Failed to checkout")
		return nil, err
	}

	d.store.setError("")
	order, err := d.repo.Checkout(ctx, cartID, info)
	if err != nil {
		log.Printf("Checkout error for cart %d: %v", cartID, err)
		d.store.setError("Failed to checkout")
		return nil, err
	}
	if order.ID == 0 {
		order.ID = cartID
	}
	d.publish(models.EventOrderCheckedOut, order, nil)

	paid, err := d.repo.MarkAsPaid(ctx, order.ID)
	if err != nil {
		log.Printf("Order %d placed but mark-as-paid failed: %v", order.ID, err)
		d.store.setError("Failed to checkout")
		d.publish(models.EventOrderPaymentPending, order, err)
		return order, &PaymentError{OrderID: order.ID, Err: err}
	}
	if paid != nil && paid.ID == order.ID {
		order = paid
	} else {
		order.IsPaid = true
	}
	d.publish(models.EventOrderPaid, order, nil)

	if _, err := d.store.refetch(ctx); err != nil {
		return order, fmt.Errorf("order %d placed but the new cart could not be loaded: %w", order.ID, err)
	}
	return order, nil
}

func (d *CartDispatcher) publish(eventType string, order *models.Order, cause error) {
	if d.publisher == nil {
		return
	}
	event := models.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now(),
	}
	if d.session != nil {
		if identity := d.session.Current(); identity != nil {
			event.UserID = identity.ID
		}
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if err := d.publisher.PublishOrderEvent(event); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}

package repositories

import (
	"context"

	"farmmarket/internal/models"
)

// OrderRepository defines the interface for cart and order access.
// Every mutating call returns the full server-side cart after the change.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	GetCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, cartID int64, req models.AddItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, cartID, itemID int64) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) (*models.Cart, error)
	Checkout(ctx context.Context, cartID int64, info models.DeliveryInfo) (*models.Order, error)
	MarkAsPaid(ctx context.Context, orderID int64) (*models.Order, error)
}

package api

import (
	"context"
	"fmt"
	"net/http"

	"farmmarket/internal/models"
)

// OrdersAPI wraps /api/orders/. It implements repositories.OrderRepository.
type OrdersAPI struct {
	c *Client
}

func orderPath(id int64, action string) string {
	return fmt.Sprintf("/api/orders/%d/%s/", id, action)
}

func (o *OrdersAPI) GetAll(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := o.c.getJSON(ctx, "/api/orders/", &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *OrdersAPI) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	if err := o.c.getJSON(ctx, fmt.Sprintf("/api/orders/%d/", id), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (o *OrdersAPI) GetCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := o.c.getJSON(ctx, "/api/orders/cart/", &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (o *OrdersAPI) postCart(ctx context.Context, cartID int64, action string, in any) (*models.Cart, error) {
	var cart models.Cart
	if err := o.c.sendJSON(ctx, http.MethodPost, orderPath(cartID, action), in, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (o *OrdersAPI) AddItem(ctx context.Context, cartID int64, req models.AddItemRequest) (*models.Cart, error) {
	return o.postCart(ctx, cartID, "add_item", req)
}

func (o *OrdersAPI) RemoveItem(ctx context.Context, cartID, itemID int64) (*models.Cart, error) {
	return o.postCart(ctx, cartID, "remove_item", models.ItemQuantityRequest{ItemID: itemID})
}

func (o *OrdersAPI) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) (*models.Cart, error) {
	return o.postCart(ctx, cartID, "update_item_quantity", models.ItemQuantityRequest{ItemID: itemID, Quantity: &quantity})
}

func (o *OrdersAPI) Checkout(ctx context.Context, cartID int64, info models.DeliveryInfo) (*models.Order, error) {
	return o.postCart(ctx, cartID, "checkout", info)
}

func (o *OrdersAPI) MarkAsPaid(ctx context.Context, orderID int64) (*models.Order, error) {
	return o.postCart(ctx, orderID, "mark_as_paid", nil)
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. A cart is an order in StatusCart.
type OrderStatus string

const (
	StatusCart      OrderStatus = "CART"
	StatusOrdered   OrderStatus = "ORDERED"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Badge returns the display variant used for a status label.
func (s OrderStatus) Badge() string {
	switch s {
	case StatusCompleted:
		return "success"
	case StatusOrdered:
		return "primary"
	case StatusCancelled:
		return "danger"
	default:
		return "warning"
	}
}

// OrderItem represents a single line within a cart or order.
// ProductName and ProductPrice are snapshots taken when the item was added.
type OrderItem struct {
	ID           int64           `json:"id"`
	Product      int64           `json:"product"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	ProductImage string          `json:"product_image,omitempty"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// LineTotal is price times quantity, computed locally for display.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a buyer's order. The open cart is the order with status CART.
type Order struct {
	ID              int64           `json:"id"`
	Buyer           int64           `json:"buyer,omitempty"`
	BuyerName       string          `json:"buyer_name,omitempty"`
	Status          OrderStatus     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	DeliveryAddress string          `json:"delivery_address,omitempty"`
	ContactPhone    string          `json:"contact_phone,omitempty"`
	IsPaid          bool            `json:"is_paid"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Cart is the buyer's currently open order.
type Cart = Order

// ItemCount sums the quantities of all items. A nil cart counts as empty.
func (o *Order) ItemCount() int {
	if o == nil {
		return 0
	}
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// PaymentLabel is the display text for the paid flag.
func (o *Order) PaymentLabel() string {
	if o.IsPaid {
		return "Paid"
	}
	return "Pending"
}

// Clone returns a deep copy so readers never share the item slice with the store.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return &c
}

// DeliveryInfo is the checkout request body.
type DeliveryInfo struct {
	DeliveryAddress string `json:"delivery_address" validate:"required"`
	ContactPhone    string `json:"contact_phone" validate:"required"`
}

// AddItemRequest is the add_item request body.
type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ItemQuantityRequest is the remove_item and update_item_quantity request body.
type ItemQuantityRequest struct {
	ItemID   int64 `json:"item_id"`
	Quantity *int  `json:"quantity,omitempty"`
}

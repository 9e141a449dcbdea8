package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order event types published during checkout.
const (
	EventOrderCheckedOut     = "order.checked_out"
	EventOrderPaid           = "order.paid"
	EventOrderPaymentPending = "order.payment_pending"
)

// OrderEvent is the message emitted when a checkout step completes or fails.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Error       string          `json:"error,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCartNotInitialized is returned by cart mutations issued before a cart was fetched.
var ErrCartNotInitialized = errors.New("cart not initialized")

// ValidationError maps form fields (by their JSON name) to a displayable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// PaymentError reports an order that was placed but could not be marked as paid.
// The order exists on the backend in an unpaid state.
type PaymentError struct {
	OrderID int64
	Err     error
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("order %d was placed but marking it as paid failed: %v", e.OrderID, e.Err)
}

func (e *PaymentError) Unwrap() error {
	return e.Err
}

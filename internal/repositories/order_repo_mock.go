package repositories

import (
	"context"
	"fmt"
	"sort"

	"farmmarket/internal/models"
)

// GetAll returns the buyer's orders, or for a farmer the orders containing their products.
func (r *MockOrderRepository) GetAll(context.Context) ([]models.Order, error) {
	u := r.s.current()
	if u == nil {
		return nil, forbidden()
	}

	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	orderList := make([]models.Order, 0, len(b.orders))
	for _, o := range b.orders {
		if o.Buyer == u.ID || (u.IsFarmer() && b.containsProductOfLocked(o, u.ID)) {
			orderList = append(orderList, *o.Clone())
		}
	}
	sort.Slice(orderList, func(i, j int) bool { return orderList[i].ID > orderList[j].ID })
	return orderList, nil
}

func (b *MockBackend) containsProductOfLocked(o models.Order, farmerID int64) bool {
	if o.Status == models.StatusCart {
		return false
	}
	for _, item := range o.Items {
		if p, ok := b.products[item.Product]; ok && p.Farmer == farmerID {
			return true
		}
	}
	return false
}

// GetByID returns one of the session's orders.
func (r *MockOrderRepository) GetByID(_ context.Context, id int64) (*models.Order, error) {
	u := r.s.current()
	if u == nil {
		return nil, forbidden()
	}

	b := r.s.backend
	b.mu.RLock()
	defer b.mu.RUnlock()

	o, ok := b.orders[id]
	if !ok || (o.Buyer != u.ID && !b.containsProductOfLocked(o, u.ID)) {
		return nil, notFound("Order")
	}
	return o.Clone(), nil
}

// GetCart returns the buyer's open cart, creating an empty one on first use.
func (r *MockOrderRepository) GetCart(context.Context) (*models.Cart, error) {
	u := r.s.current()
	if u == nil {
		return nil, forbidden()
	}

	b := r.s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	cart := b.openCartLocked(u)
	return cart.Clone(), nil
}

// withCart loads the session's open cart by ID, applies fn and saves the result.
func (r *MockOrderRepository) withCart(cartID int64, fn func(b *MockBackend, cart *models.Order) error) (*models.Cart, error) {
	u := r.s.current()
	if u == nil {
		return nil, forbidden()
	}

	b := r.s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	cart, ok := b.orders[cartID]
	if !ok || cart.Buyer != u.ID {
		return nil, notFound("Order")
	}
	if cart.Status != models.StatusCart {
		return nil, badRequest("Order is not in cart status")
	}
	cart = *cart.Clone()
	if err := fn(b, &cart); err != nil {
		return nil, err
	}
	saved := b.saveLocked(cart)
	return saved.Clone(), nil
}

// AddItem adds a product to the cart, merging with an existing line for the same product.
func (r *MockOrderRepository) AddItem(_ context.Context, cartID int64, req models.AddItemRequest) (*models.Cart, error) {
	return r.withCart(cartID, func(b *MockBackend, cart *models.Order) error {
		if req.Quantity < 1 {
			return badRequest("Quantity must be at least 1")
		}
		product, ok := b.products[req.ProductID]
		if !ok {
			return notFound("Product")
		}
		if !product.IsAvailable {
			return badRequest(fmt.Sprintf("Product %s is not available", product.Name))
		}
		for i := range cart.Items {
			if cart.Items[i].Product == product.ID {
				cart.Items[i].Quantity += req.Quantity
				return nil
			}
		}
		cart.Items = append(cart.Items, models.OrderItem{
			ID:           b.newID(),
			Product:      product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			ProductImage: product.Image,
			Quantity:     req.Quantity,
		})
		return nil
	})
}

// RemoveItem deletes a line from the cart.
func (r *MockOrderRepository) RemoveItem(_ context.Context, cartID, itemID int64) (*models.Cart, error) {
	return r.withCart(cartID, func(_ *MockBackend, cart *models.Order) error {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
		return notFound("Item")
	})
}

// UpdateItemQuantity sets a line's quantity; zero or less removes the line.
func (r *MockOrderRepository) UpdateItemQuantity(_ context.Context, cartID, itemID int64, quantity int) (*models.Cart, error) {
	return r.withCart(cartID, func(_ *MockBackend, cart *models.Order) error {
		for i := range cart.Items {
			if cart.Items[i].ID != itemID {
				continue
			}
			if quantity <= 0 {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			} else {
				cart.Items[i].Quantity = quantity
			}
			return nil
		}
		return notFound("Item")
	})
}

// Checkout converts the open cart into an ORDERED order.
func (r *MockOrderRepository) Checkout(_ context.Context, cartID int64, info models.DeliveryInfo) (*models.Order, error) {
	return r.withCart(cartID, func(_ *MockBackend, cart *models.Order) error {
		if len(cart.Items) == 0 {
			return badRequest("Cannot checkout an empty cart")
		}
		cart.Status = models.StatusOrdered
		cart.DeliveryAddress = info.DeliveryAddress
		cart.ContactPhone = info.ContactPhone
		return nil
	})
}

// MarkAsPaid flags a placed order as paid.
func (r *MockOrderRepository) MarkAsPaid(_ context.Context, orderID int64) (*models.Order, error) {
	u := r.s.current()
	if u == nil {
		return nil, forbidden()
	}

	b := r.s.backend
	b.mu.Lock()
	defer b.mu.Unlock()

	o, ok := b.orders[orderID]
	if !ok || o.Buyer != u.ID {
		return nil, notFound("Order")
	}
	if o.Status == models.StatusCart {
		return nil, badRequest("Order has not been checked out")
	}
	o.IsPaid = true
	saved := b.saveLocked(*o.Clone())
	return saved.Clone(), nil
}

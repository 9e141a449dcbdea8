package handlers

import (
	"errors"

	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles the buyer's cart and checkout.
type CartHandler struct {
	images imageResolver
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(mediaBase string) *CartHandler {
	return &CartHandler{images: imageResolver{mediaBase: mediaBase}}
}

// RegisterRoutes registers the cart routes. router must already require an identity.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Delete("/items/:itemId", h.HandleRemoveItem)
	cartRoutes.Patch("/items/:itemId", h.HandleUpdateQuantity)
	cartRoutes.Post("/checkout", h.HandleCheckout)
}

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleGetCart renders the held cart. It is fetched first when none is held yet.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	ws := middleware.Workspace(c)
	if ws.Cart.Cart() == nil {
		if _, err := ws.Cart.Refresh(c.UserContext()); err != nil {
			return respondError(c, "Failed to load cart", err)
		}
	}
	return h.renderCart(c, fiber.StatusOK, nil)
}

// HandleAddItem adds a product to the cart.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req models.AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	ws := middleware.Workspace(c)
	if _, err := ws.Dispatcher.AddItem(c.UserContext(), req.ProductID, req.Quantity); err != nil {
		ws.Notifications.Show("Failed to add product to cart.", services.NotifyDanger)
		return respondError(c, "Failed to add item to cart", err)
	}
	ws.Notifications.Show("Product added to cart!", services.NotifySuccess)
	return h.renderCart(c, fiber.StatusOK, nil)
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return badRequest(c, "Invalid item ID", err)
	}

	ws := middleware.Workspace(c)
	if _, err := ws.Dispatcher.RemoveItem(c.UserContext(), itemID); err != nil {
		ws.Notifications.Show("Failed to remove item from cart", services.NotifyDanger)
		return respondError(c, "Failed to remove item from cart", err)
	}
	ws.Notifications.Show("Item removed from cart", services.NotifySuccess)
	return h.renderCart(c, fiber.StatusOK, nil)
}

// HandleUpdateQuantity sets a line's quantity; zero or less removes the line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	itemID, err := paramID(c, "itemId")
	if err != nil {
		return badRequest(c, "Invalid item ID", err)
	}
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	ws := middleware.Workspace(c)
	if _, err := ws.Dispatcher.UpdateQuantity(c.UserContext(), itemID, req.Quantity); err != nil {
		ws.Notifications.Show("Failed to update item quantity", services.NotifyDanger)
		return respondError(c, "Failed to update item quantity", err)
	}
	ws.Notifications.Show("Cart updated", services.NotifySuccess)
	return h.renderCart(c, fiber.StatusOK, nil)
}

// HandleCheckout places the cart as an order and pays for it.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	var info models.DeliveryInfo
	if err := c.BodyParser(&info); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	ws := middleware.Workspace(c)
	if cart := ws.Cart.Cart(); cart != nil && cart.ItemCount() == 0 {
		return render(c, fiber.StatusBadRequest, fiber.Map{
			"message": "Your cart is empty",
		})
	}

	order, err := ws.Dispatcher.Checkout(c.UserContext(), info)
	var paymentErr *services.PaymentError
	switch {
	case errors.As(err, &paymentErr):
		ws.Notifications.Show("Your order was placed but payment could not be confirmed.", services.NotifyWarning)
		return render(c, fiber.StatusAccepted, fiber.Map{
			"message": "Order placed, payment pending",
			"order":   newOrderView(h.images.order(order)),
			"error":   paymentErr.Error(),
		})
	case err != nil && order != nil:
		// Placed and paid; only reloading the new cart failed.
		ws.Notifications.Show("Order placed successfully!", services.NotifySuccess)
		return render(c, fiber.StatusCreated, fiber.Map{
			"message": "Order placed successfully",
			"order":   newOrderView(h.images.order(order)),
			"warning": err.Error(),
		})
	case err != nil:
		ws.Notifications.Show("Failed to checkout", services.NotifyDanger)
		return respondError(c, "Failed to checkout", err)
	}

	ws.Notifications.Show("Order placed successfully!", services.NotifySuccess)
	return render(c, fiber.StatusCreated, fiber.Map{
		"message": "Order placed successfully",
		"order":   newOrderView(h.images.order(order)),
	})
}

func (h *CartHandler) renderCart(c *fiber.Ctx, status int, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["cart"] = h.images.order(middleware.Workspace(c).Cart.Cart())
	return render(c, status, data)
}

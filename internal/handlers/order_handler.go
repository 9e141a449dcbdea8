package handlers

import (
	"farmmarket/internal/middleware"
	"farmmarket/internal/models"

	"github.com/gofiber/fiber/v2"
)

// orderView is an order with its display labels.
type orderView struct {
	*models.Order
	StatusBadge   string `json:"status_badge"`
	PaymentStatus string `json:"payment_status"`
}

func newOrderView(o *models.Order) *orderView {
	if o == nil {
		return nil
	}
	return &orderView{
		Order:         o,
		StatusBadge:   o.Status.Badge(),
		PaymentStatus: o.PaymentLabel(),
	}
}

func newOrderViews(orders []models.Order, images imageResolver) []*orderView {
	views := make([]*orderView, len(orders))
	for i := range orders {
		views[i] = newOrderView(images.order(&orders[i]))
	}
	return views
}

// OrderHandler handles the order history.
type OrderHandler struct {
	images imageResolver
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(mediaBase string) *OrderHandler {
	return &OrderHandler{images: imageResolver{mediaBase: mediaBase}}
}

// RegisterRoutes registers the order routes. router must already require an identity.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
}

// HandleGetOrders lists placed orders, newest first as the backend returns them.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := middleware.Workspace(c).Orders.GetOrderHistory(c.UserContext())
	if err != nil {
		return respondError(c, "Failed to load orders", err)
	}
	return render(c, fiber.StatusOK, fiber.Map{"orders": newOrderViews(orders, h.images)})
}

// HandleGetOrderByID shows a single order with its lines.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid order ID", err)
	}
	order, err := middleware.Workspace(c).Orders.GetOrderByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, "Failed to load order details", err)
	}
	return render(c, fiber.StatusOK, fiber.Map{"order": newOrderView(h.images.order(order))})
}

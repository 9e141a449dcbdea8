package handlers

import (
	"farmmarket/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler lets the browser close the notification before it expires.
type NotificationHandler struct{}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler() *NotificationHandler {
	return &NotificationHandler{}
}

// RegisterRoutes registers the notification routes.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Delete("/notifications", h.HandleDismiss)
}

// HandleDismiss hides the current notification.
func (h *NotificationHandler) HandleDismiss(c *fiber.Ctx) error {
	middleware.Workspace(c).Notifications.Dismiss()
	return render(c, fiber.StatusOK, fiber.Map{"message": "Notification dismissed"})
}

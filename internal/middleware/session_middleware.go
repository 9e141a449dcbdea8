package middleware

import (
	"log"
	"time"

	"farmmarket/internal/workspace"

	"github.com/gofiber/fiber/v2"
)

// SessionCookie names the browser session cookie.
const SessionCookie = "farmmarket_sid"

const workspaceKey = "workspace"

// Session resolves the caller's workspace from the session cookie, creating one
// (and setting the cookie) for an unknown or missing session.
func Session(registry *workspace.Registry, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(SessionCookie)
		ws, created, err := registry.Resolve(c.UserContext(), sid)
		if err != nil {
			log.Printf("Failed to open workspace: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not start session",
				"error":   err.Error(),
			})
		}
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    ws.ID,
				Path:     "/",
				MaxAge:   int(ttl.Seconds()),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		// Store the workspace in Fiber context for subsequent handlers
		c.Locals(workspaceKey, ws)
		return c.Next()
	}
}

// Workspace returns the workspace resolved by Session.
func Workspace(c *fiber.Ctx) *workspace.Workspace {
	ws, _ := c.Locals(workspaceKey).(*workspace.Workspace)
	return ws
}

// IdentityRequired rejects anonymous callers.
func IdentityRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws := Workspace(c)
		if ws == nil || ws.Session.Current() == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Login required",
			})
		}
		return c.Next()
	}
}

// FarmerRequired rejects callers that are not signed in as a farmer.
func FarmerRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ws := Workspace(c)
		if ws == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Login required",
			})
		}
		identity := ws.Session.Current()
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Login required",
			})
		}
		if !identity.IsFarmer() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Farmer account required",
			})
		}
		return c.Next()
	}
}

package handlers

import (
	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	validate *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		validate: services.NewValidator(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/me", h.HandleMe)
}

// HandleRegister creates an account and signs it in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := services.Validate(h.validate, req); err != nil {
		return respondError(c, "Registration failed", err)
	}

	ws := middleware.Workspace(c)
	identity, err := ws.Session.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, "Registration failed", err)
	}

	ws.Notifications.Show("Registration successful!", services.NotifySuccess)
	return render(c, fiber.StatusCreated, fiber.Map{
		"message": "User registered successfully",
		"user":    identity,
	})
}

// HandleLogin signs in with a username and password. A rejected login returns
// the backend's error payload unchanged.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var creds models.Credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(c, "Invalid request body", err)
	}
	if err := services.Validate(h.validate, creds); err != nil {
		return respondError(c, "Authentication failed", err)
	}

	ws := middleware.Workspace(c)
	identity, err := ws.Session.Login(c.UserContext(), creds)
	if err != nil {
		return respondError(c, "Authentication failed", err)
	}

	ws.Notifications.Show("Login successful!", services.NotifySuccess)
	return render(c, fiber.StatusOK, fiber.Map{
		"message": "Login successful",
		"user":    identity,
	})
}

// HandleLogout signs out. The local session is cleared even if the backend
// could not be reached.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	ws := middleware.Workspace(c)
	ws.Session.Logout(c.UserContext())
	ws.Notifications.Show("Logged out successfully", services.NotifyInfo)
	return render(c, fiber.StatusOK, fiber.Map{
		"message": "Logout successful",
		"user":    nil,
	})
}

// HandleMe returns the signed-in identity, or a null user when anonymous.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, fiber.Map{
		"user": middleware.Workspace(c).Session.Current(),
	})
}

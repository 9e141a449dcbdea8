package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"
	"farmmarket/internal/workspace"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *workspace.Registry, *repositories.MockBackend) {
	t.Helper()
	backend := repositories.NewMockBackend()
	registry := workspace.NewRegistry(workspace.MemoryBackend(backend), workspace.Options{})

	app := fiber.New()
	app.Use(middleware.Session(registry, time.Hour))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(middleware.Workspace(c).ID)
	})
	app.Get("/buyer", middleware.IdentityRequired(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/farmer", middleware.FarmerRequired(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	return app, registry, backend
}

func TestSession_SetsCookieForNewWorkspace(t *testing.T) {
	app, registry, _ := setupApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/whoami", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	_, ok := registry.Get(cookies[0].Value)
	assert.True(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, 1, registry.Len())
}

func TestGuards(t *testing.T) {
	app, registry, backend := setupApp(t)
	ctx := context.Background()

	_, err := backend.AddUser(models.RegisterRequest{Username: "farmer", Password: "farmer123", UserType: models.UserTypeFarmer})
	require.NoError(t, err)
	_, err = backend.AddUser(models.RegisterRequest{Username: "ana", Password: "secret1", UserType: models.UserTypeBuyer})
	require.NoError(t, err)

	status := func(path, sid string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if sid != "" {
			req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusUnauthorized, status("/buyer", ""))
	assert.Equal(t, http.StatusUnauthorized, status("/farmer", ""))

	buyer, err := registry.Create(ctx)
	require.NoError(t, err)
	_, err = buyer.Session.Login(ctx, models.Credentials{Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status("/buyer", buyer.ID))
	assert.Equal(t, http.StatusForbidden, status("/farmer", buyer.ID))

	farmer, err := registry.Create(ctx)
	require.NoError(t, err)
	_, err = farmer.Session.Login(ctx, models.Credentials{Username: "farmer", Password: "farmer123"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, status("/farmer", farmer.ID))
}

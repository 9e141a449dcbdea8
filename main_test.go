package main

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmarket/internal/config"
	"farmmarket/internal/middleware"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"
	"farmmarket/internal/workspace"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestApp(t *testing.T) (*workspace.Registry, *repositories.MockBackend, func(*http.Request) *http.Response) {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("BACKEND_MODE", config.BackendMemory)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	backend := repositories.NewMockBackend()
	seedCatalogue(backend)
	registry := workspace.NewRegistry(workspace.MemoryBackend(backend), workspace.Options{IdleTTL: cfg.WorkspaceIdleTTL})
	app := NewApp(cfg, registry)

	return registry, backend, func(req *http.Request) *http.Response {
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp
	}
}

func TestHealthCheck(t *testing.T) {
	_, _, do := newTestApp(t)

	resp := do(httptest.NewRequest(http.MethodGet, "/health", nil))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "memory", body["backend"])
	assert.Empty(t, resp.Cookies(), "health checks do not open a session")
}

func TestSeededDemoFarmerCanSignIn(t *testing.T) {
	registry, _, do := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{"username":"farmer","password":"farmer123"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := do(req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sid string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookie {
			sid = c.Value
		}
	}
	require.NotEmpty(t, sid)
	assert.Equal(t, 1, registry.Len())

	req = httptest.NewRequest(http.MethodGet, "/v1/farmer/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: sid})
	resp = do(req)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Products, 4)
	assert.Equal(t, "http://localhost:8000/media/products/carrots.jpg", body.Products[0].Image)
}

func TestLogOrderEvent(t *testing.T) {
	assert.NoError(t, logOrderEvent(models.OrderEvent{Type: models.EventOrderPaid, OrderID: 1}))
}

package api

import (
	"context"
	"net/http"

	"farmmarket/internal/models"
)

// AuthAPI wraps /api/auth/. It implements repositories.AuthRepository.
type AuthAPI struct {
	c *Client
}

func (a *AuthAPI) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	var identity models.Identity
	if err := a.c.sendJSON(ctx, http.MethodPost, "/api/auth/register/", req, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (a *AuthAPI) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	var identity models.Identity
	if err := a.c.sendJSON(ctx, http.MethodPost, "/api/auth/login/", creds, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.sendJSON(ctx, http.MethodPost, "/api/auth/logout/", nil, nil)
}

func (a *AuthAPI) CurrentUser(ctx context.Context) (*models.Identity, error) {
	var identity models.Identity
	if err := a.c.getJSON(ctx, "/api/auth/user/", &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

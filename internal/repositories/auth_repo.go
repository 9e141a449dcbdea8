package repositories

import (
	"context"

	"farmmarket/internal/models"
)

// AuthRepository defines the interface for the backend session endpoints.
type AuthRepository interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error)
	Login(ctx context.Context, creds models.Credentials) (*models.Identity, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.Identity, error)
}

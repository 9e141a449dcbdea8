package repositories

import (
	"context"

	"farmmarket/internal/models"
)

// ProductRepository defines the interface for catalogue access.
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	GetByCategory(ctx context.Context, categoryID int64) ([]models.Product, error)
	GetMine(ctx context.Context) ([]models.Product, error)
	Create(ctx context.Context, input models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id int64) error
	Categories(ctx context.Context) ([]models.Category, error)
}

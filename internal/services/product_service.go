package services

import (
	"context"
	"fmt"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ProductService handles catalogue browsing and the farmer's product management.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: NewValidator(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductsByCategory retrieves the products of one category.
func (s *ProductService) GetProductsByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	return s.repo.GetByCategory(ctx, categoryID)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// GetMyProducts retrieves the signed-in farmer's products.
func (s *ProductService) GetMyProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetMine(ctx)
}

// GetCategories retrieves all categories.
func (s *ProductService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories(ctx)
}

// CreateProduct validates the form and creates the product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	if err := Validate(s.validate, input); err != nil {
		return nil, err
	}
	product, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UpdateProduct validates the form and updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	if err := Validate(s.validate, input); err != nil {
		return nil, err
	}
	product, err := s.repo.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

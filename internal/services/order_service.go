package services

import (
	"context"
	"fmt"

	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"golang.org/x/sync/errgroup"
)

// OrderService handles order history and the farmer dashboard.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

// GetOrderHistory retrieves placed orders; the open cart is not part of the history.
func (s *OrderService) GetOrderHistory(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	history := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status != models.StatusCart {
			history = append(history, o)
		}
	}
	return history, nil
}

// GetOrderByID retrieves a single order, including one that was placed but never marked paid.
func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", id, err)
	}
	return order, nil
}

// Dashboard is the farmer's view of their products and the orders containing them.
type Dashboard struct {
	Products []models.Product `json:"products"`
	Orders   []models.Order   `json:"orders"`
}

// GetFarmerDashboard loads products and orders concurrently.
func (s *OrderService) GetFarmerDashboard(ctx context.Context) (*Dashboard, error) {
	var dashboard Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.productRepo.GetMine(gctx)
		if err != nil {
			return fmt.Errorf("failed to load products: %w", err)
		}
		dashboard.Products = products
		return nil
	})
	g.Go(func() error {
		orders, err := s.GetOrderHistory(gctx)
		if err != nil {
			return err
		}
		dashboard.Orders = orders
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

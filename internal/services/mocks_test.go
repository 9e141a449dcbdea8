package services_test

import (
	"context"

	"farmmarket/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of repositories.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) cart(args mock.Arguments) (*models.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return m.cart(m.Called(ctx, id))
}

func (m *MockOrderRepository) GetCart(ctx context.Context) (*models.Cart, error) {
	return m.cart(m.Called(ctx))
}

func (m *MockOrderRepository) AddItem(ctx context.Context, cartID int64, req models.AddItemRequest) (*models.Cart, error) {
	return m.cart(m.Called(ctx, cartID, req))
}

func (m *MockOrderRepository) RemoveItem(ctx context.Context, cartID, itemID int64) (*models.Cart, error) {
	return m.cart(m.Called(ctx, cartID, itemID))
}

func (m *MockOrderRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID int64, quantity int) (*models.Cart, error) {
	return m.cart(m.Called(ctx, cartID, itemID, quantity))
}

func (m *MockOrderRepository) Checkout(ctx context.Context, cartID int64, info models.DeliveryInfo) (*models.Order, error) {
	return m.cart(m.Called(ctx, cartID, info))
}

func (m *MockOrderRepository) MarkAsPaid(ctx context.Context, orderID int64) (*models.Order, error) {
	return m.cart(m.Called(ctx, orderID))
}

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) products(args mock.Arguments) ([]models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) product(args mock.Arguments) (*models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductRepository) GetByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	return m.products(m.Called(ctx, categoryID))
}

func (m *MockProductRepository) GetMine(ctx context.Context) ([]models.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductRepository) Create(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	return m.product(m.Called(ctx, input))
}

func (m *MockProductRepository) Update(ctx context.Context, id int64, input models.ProductInput) (*models.Product, error) {
	return m.product(m.Called(ctx, id, input))
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

// MockAuthRepository is a mock implementation of repositories.AuthRepository
type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) identity(args mock.Arguments) (*models.Identity, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Identity), args.Error(1)
}

func (m *MockAuthRepository) Register(ctx context.Context, req models.RegisterRequest) (*models.Identity, error) {
	return m.identity(m.Called(ctx, req))
}

func (m *MockAuthRepository) Login(ctx context.Context, creds models.Credentials) (*models.Identity, error) {
	return m.identity(m.Called(ctx, creds))
}

func (m *MockAuthRepository) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockAuthRepository) CurrentUser(ctx context.Context) (*models.Identity, error) {
	return m.identity(m.Called(ctx))
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderEvent(event models.OrderEvent) error {
	return m.Called(event).Error(0)
}

package services_test

import (
	"context"
	"errors"
	"testing"

	"farmmarket/internal/models"
	"farmmarket/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_GetOrderHistorySkipsCart(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockProductRepository))

	orderRepo.On("GetAll", mock.Anything).Return([]models.Order{
		{ID: 3, Status: models.StatusCart},
		{ID: 2, Status: models.StatusOrdered},
		{ID: 1, Status: models.StatusCompleted},
	}, nil).Once()

	orders, err := service.GetOrderHistory(context.Background())

	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(2), orders[0].ID)
	assert.Equal(t, int64(1), orders[1].ID)
}

func TestOrderService_GetOrderByID(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	service := services.NewOrderService(orderRepo, new(MockProductRepository))

	orderRepo.On("GetByID", mock.Anything, int64(2)).Return(&models.Order{ID: 2, Status: models.StatusOrdered}, nil).Once()
	orderRepo.On("GetByID", mock.Anything, int64(9)).Return(nil, errors.New("not found")).Once()

	order, err := service.GetOrderByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "Pending", order.PaymentLabel())

	_, err = service.GetOrderByID(context.Background(), 9)
	assert.EqualError(t, err, "failed to load order 9: not found")
}

func TestOrderService_GetFarmerDashboard(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo)

	productRepo.On("GetMine", mock.Anything).Return([]models.Product{{ID: 1}, {ID: 2}}, nil).Once()
	orderRepo.On("GetAll", mock.Anything).Return([]models.Order{{ID: 5, Status: models.StatusOrdered}}, nil).Once()

	dashboard, err := service.GetFarmerDashboard(context.Background())

	require.NoError(t, err)
	assert.Len(t, dashboard.Products, 2)
	assert.Len(t, dashboard.Orders, 1)
	orderRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestOrderService_GetFarmerDashboardFailure(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	productRepo := new(MockProductRepository)
	service := services.NewOrderService(orderRepo, productRepo)

	productRepo.On("GetMine", mock.Anything).Return(nil, errors.New("forbidden")).Once()
	orderRepo.On("GetAll", mock.Anything).Return([]models.Order{}, nil).Maybe()

	dashboard, err := service.GetFarmerDashboard(context.Background())

	assert.Nil(t, dashboard)
	assert.ErrorContains(t, err, "failed to load products")
}

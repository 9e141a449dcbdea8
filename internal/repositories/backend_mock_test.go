package repositories_test

import (
	"context"
	"net/http"
	"testing"

	"farmmarket/internal/api"
	"farmmarket/internal/models"
	"farmmarket/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username string, userType models.UserType) models.RegisterRequest {
	return models.RegisterRequest{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "secret1",
		FirstName:   "Test",
		LastName:    "User",
		PhoneNumber: "555",
		Address:     "Farm road",
		UserType:    userType,
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr.StatusCode
}

// seeded returns a backend with one farmer, one category and two products,
// one of which is unavailable.
func seeded(t *testing.T) (*repositories.MockBackend, models.Product, models.Product) {
	t.Helper()
	b := repositories.NewMockBackend()
	farmer, err := b.AddUser(newUser("farmer", models.UserTypeFarmer))
	require.NoError(t, err)
	veg := b.AddCategory(models.Category{Name: "Vegetables"})
	carrots := b.AddProduct(models.Product{Farmer: farmer.ID, Category: veg.ID, Name: "Carrots", Price: decimal.RequireFromString("10.00"), Unit: "kg", IsAvailable: true})
	leeks := b.AddProduct(models.Product{Farmer: farmer.ID, Category: veg.ID, Name: "Leeks", Price: decimal.RequireFromString("3.00"), Unit: "kg"})
	return b, carrots, leeks
}

func TestMockSession_RegisterLoginLogout(t *testing.T) {
	b := repositories.NewMockBackend()
	ctx := context.Background()
	s := b.Session()

	_, err := s.CurrentUser(ctx)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	identity, err := s.Register(ctx, newUser("ana", models.UserTypeBuyer))
	require.NoError(t, err)
	assert.True(t, identity.IsBuyer())

	_, err = b.Session().Register(ctx, newUser("ana", models.UserTypeBuyer))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	require.NoError(t, s.Logout(ctx))
	_, err = s.CurrentUser(ctx)
	assert.Error(t, err)

	_, err = s.Login(ctx, models.Credentials{Username: "ana", Password: "wrong"})
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, map[string]any{"error": "Invalid credentials"}, apiErr.Payload)

	identity, err = s.Login(ctx, models.Credentials{Username: "ana", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "ana", identity.Username)
}

func TestMockOrders_CartLifecycle(t *testing.T) {
	b, carrots, leeks := seeded(t)
	ctx := context.Background()
	s := b.Session()
	_, err := s.Register(ctx, newUser("ana", models.UserTypeBuyer))
	require.NoError(t, err)
	orders := s.Orders()

	cart, err := orders.GetCart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	again, err := orders.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)

	cart, err = orders.AddItem(ctx, cart.ID, models.AddItemRequest{ProductID: carrots.ID, Quantity: 1})
	require.NoError(t, err)
	cart, err = orders.AddItem(ctx, cart.ID, models.AddItemRequest{ProductID: carrots.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "Carrots", cart.Items[0].ProductName)
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("20.00")))

	_, err = orders.AddItem(ctx, cart.ID, models.AddItemRequest{ProductID: leeks.ID, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	itemID := cart.Items[0].ID
	cart, err = orders.UpdateItemQuantity(ctx, cart.ID, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.ItemCount())

	cart, err = orders.UpdateItemQuantity(ctx, cart.ID, itemID, 2)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, cart.ID, models.DeliveryInfo{DeliveryAddress: "Farm road", ContactPhone: "555"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOrdered, order.Status)
	assert.False(t, order.IsPaid)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("20.00")))

	_, err = orders.AddItem(ctx, order.ID, models.AddItemRequest{ProductID: carrots.ID, Quantity: 1})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	paid, err := orders.MarkAsPaid(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)

	next, err := orders.GetCart(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID)
	assert.Equal(t, 0, next.ItemCount())

	history, err := orders.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, next.ID, history[0].ID)
}

func TestMockOrders_RemoveAndEmptyCheckout(t *testing.T) {
	b, carrots, _ := seeded(t)
	ctx := context.Background()
	s := b.Session()
	_, err := s.Register(ctx, newUser("ana", models.UserTypeBuyer))
	require.NoError(t, err)
	orders := s.Orders()

	cart, err := orders.GetCart(ctx)
	require.NoError(t, err)
	cart, err = orders.AddItem(ctx, cart.ID, models.AddItemRequest{ProductID: carrots.ID, Quantity: 3})
	require.NoError(t, err)

	cart, err = orders.UpdateItemQuantity(ctx, cart.ID, cart.Items[0].ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	_, err = orders.RemoveItem(ctx, cart.ID, 12345)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	_, err = orders.Checkout(ctx, cart.ID, models.DeliveryInfo{DeliveryAddress: "a", ContactPhone: "b"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestMockOrders_OtherBuyersCartIsHidden(t *testing.T) {
	b, _, _ := seeded(t)
	ctx := context.Background()
	ana, bob := b.Session(), b.Session()
	_, err := ana.Register(ctx, newUser("ana", models.UserTypeBuyer))
	require.NoError(t, err)
	_, err = bob.Register(ctx, newUser("bob", models.UserTypeBuyer))
	require.NoError(t, err)

	cart, err := ana.Orders().GetCart(ctx)
	require.NoError(t, err)

	_, err = bob.Orders().GetByID(ctx, cart.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	_, err = bob.Orders().RemoveItem(ctx, cart.ID, 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestMockProducts_FarmerManagement(t *testing.T) {
	b, carrots, leeks := seeded(t)
	ctx := context.Background()

	buyer := b.Session()
	_, err := buyer.Register(ctx, newUser("ana", models.UserTypeBuyer))
	require.NoError(t, err)

	all, err := buyer.Products().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, carrots.ID, all[0].ID)
	assert.Equal(t, "Vegetables", all[0].CategoryName)

	byCategory, err := buyer.Products().GetByCategory(ctx, carrots.Category)
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	_, err = buyer.Products().Create(ctx, models.ProductInput{Name: "Beets"})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	farmer := b.Session()
	_, err = farmer.Login(ctx, models.Credentials{Username: "farmer", Password: "secret1"})
	require.NoError(t, err)

	mine, err := farmer.Products().GetMine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	created, err := farmer.Products().Create(ctx, models.ProductInput{
		Name: "Beets", Category: carrots.Category, Price: decimal.RequireFromString("1.20"), Unit: "kg", IsAvailable: true,
		Image: &models.ImageUpload{Filename: "beets.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/products/beets.png", created.Image)
	assert.Equal(t, "farmer", created.FarmerName)

	updated, err := farmer.Products().Update(ctx, created.ID, models.ProductInput{
		Name: "Red Beets", Category: carrots.Category, Price: decimal.RequireFromString("1.50"), Unit: "kg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Red Beets", updated.Name)
	assert.Equal(t, "/media/products/beets.png", updated.Image)

	require.NoError(t, farmer.Products().Delete(ctx, leeks.ID))
	_, err = farmer.Products().GetByID(ctx, leeks.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	categories, err := farmer.Products().Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}

func TestMockOrders_FarmerSeesOrdersWithTheirProducts(t *testing.T) {
	b, carrots, _ := seeded(t)
	ctx := context.Background()

	buyer := b.Session()
	_, err := buyer.Register(ctx, newUser("ana", models.UserTypeBuyer))
	require.NoError(t, err)
	cart, err := buyer.Orders().GetCart(ctx)
	require.NoError(t, err)
	_, err = buyer.Orders().AddItem(ctx, cart.ID, models.AddItemRequest{ProductID: carrots.ID, Quantity: 1})
	require.NoError(t, err)

	farmer := b.Session()
	_, err = farmer.Login(ctx, models.Credentials{Username: "farmer", Password: "secret1"})
	require.NoError(t, err)

	orders, err := farmer.Orders().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders, "open carts are not visible to farmers")

	_, err = buyer.Orders().Checkout(ctx, cart.ID, models.DeliveryInfo{DeliveryAddress: "a", ContactPhone: "b"})
	require.NoError(t, err)

	orders, err = farmer.Orders().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, cart.ID, orders[0].ID)

	stored, ok := b.Order(cart.ID)
	require.True(t, ok)
	assert.Equal(t, models.StatusOrdered, stored.Status)
}

func TestMockBackend_UnknownOrder(t *testing.T) {
	b := repositories.NewMockBackend()

	_, ok := b.Order(42)

	assert.False(t, ok)
}

package service

import (
	"testing"

	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/app/viewmodel"
	"github.com/kawuz/kawuz-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderServiceTest(t *testing.T) (*gorm.DB, OrderService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	orderRepo := repository.NewOrderRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	svc := NewOrderService(testDB, orderRepo, productRepo, userRepo, nil)
	return testDB, svc
}

func seedOrderFixtures(t *testing.T, testDB *gorm.DB) (model.User, []model.Product) {
	user := model.User{
		Email:        "jan@example.com",
		PasswordHash: "irrelevant",
		Name:         "Jan",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(&user).Error)

	products := []model.Product{
		{Name: "Brazylia Santos", Price: 39.99, StockQuantity: 5, Sales: 0},
		{Name: "Etiopia Yirgacheffe", Price: 54.50, StockQuantity: 2, Sales: 3},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}
	return user, products
}

func TestOrderService_PlaceOrder(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, products := seedOrderFixtures(t, testDB)

	order, err := svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: products[0].ID, Quantity: 3},
		{ProductID: products[1].ID, Quantity: 1},
	})
	assert.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, model.OrderStatusConfirmed, order.Status)
	assert.InDelta(t, 3*39.99+54.50, order.TotalPrice, 0.001)
	assert.Len(t, order.OrderItems, 2)

	// Stock went down, sales went up
	var p0, p1 model.Product
	require.NoError(t, testDB.First(&p0, products[0].ID).Error)
	require.NoError(t, testDB.First(&p1, products[1].ID).Error)
	assert.Equal(t, 2, p0.StockQuantity)
	assert.Equal(t, 3, p0.Sales)
	assert.Equal(t, 1, p1.StockQuantity)
	assert.Equal(t, 4, p1.Sales)
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, _ := seedOrderFixtures(t, testDB)

	order, err := svc.PlaceOrder(user.ID, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_NotEnoughStock(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, products := seedOrderFixtures(t, testDB)

	// Second line exceeds stock: the whole order rolls back, including the
	// valid first line
	order, err := svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: products[0].ID, Quantity: 1},
		{ProductID: products[1].ID, Quantity: 3},
	})
	assert.ErrorIs(t, err, ErrNotEnoughStock)
	assert.Nil(t, order)

	var p0 model.Product
	require.NoError(t, testDB.First(&p0, products[0].ID).Error)
	assert.Equal(t, 5, p0.StockQuantity)
	assert.Equal(t, 0, p0.Sales)

	var count int64
	require.NoError(t, testDB.Model(&model.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOrderService_PlaceOrder_UnknownProduct(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, _ := seedOrderFixtures(t, testDB)

	order, err := svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: 9999, Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Nil(t, order)
}

func TestOrderService_PlaceOrder_SnapshotsPrice(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, products := seedOrderFixtures(t, testDB)

	order, err := svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: products[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	// A later price change must not rewrite the order history
	require.NoError(t, testDB.Model(&model.Product{}).
		Where("id = ?", products[0].ID).
		Update("price", 99.99).Error)

	reloaded, err := svc.GetOrderByID(order.ID, user.ID, false)
	require.NoError(t, err)
	require.Len(t, reloaded.OrderItems, 1)
	assert.Equal(t, 39.99, reloaded.OrderItems[0].Price)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, products := seedOrderFixtures(t, testDB)

	_, err := svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: products[0].ID, Quantity: 1},
	})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: products[1].ID, Quantity: 1},
	})
	require.NoError(t, err)

	orders, err := svc.GetUserOrders(user.ID)
	assert.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderService_GetOrderByID_Access(t *testing.T) {
	testDB, svc := setupOrderServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, products := seedOrderFixtures(t, testDB)

	other := model.User{
		Email:        "anna@example.com",
		PasswordHash: "irrelevant",
		Name:         "Anna",
		Role:         model.RoleUser,
	}
	require.NoError(t, testDB.Create(&other).Error)

	order, err := svc.PlaceOrder(user.ID, []viewmodel.CheckoutItem{
		{ProductID: products[0].ID, Quantity: 1},
	})
	require.NoError(t, err)

	// Owner sees it
	found, err := svc.GetOrderByID(order.ID, user.ID, false)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Another user does not
	_, err = svc.GetOrderByID(order.ID, other.ID, false)
	assert.ErrorIs(t, err, ErrOrderForbidden)

	// Admin always sees it
	found, err = svc.GetOrderByID(order.ID, other.ID, true)
	assert.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Unknown order
	_, err = svc.GetOrderByID(9999, user.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

package service

import (
	"context"
	"testing"

	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProductServiceTest(t *testing.T) (*gorm.DB, ProductService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := repository.NewProductRepository(testDB)
	svc := NewProductService(repo, false)
	return testDB, svc
}

func validProductInput() ProductInput {
	return ProductInput{
		Name:          "Brazylia Santos",
		Description:   "Łagodna kawa o orzechowym profilu",
		Price:         39.99,
		Weight:        model.Weight500g,
		RoastLevel:    2,
		Acidity:       1,
		CaffeineLevel: 2,
		Sweetness:     3,
		StockQuantity: 50,
	}
}

func TestProductService_CreateProduct(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	product, err := svc.CreateProduct(validProductInput())
	assert.NoError(t, err)
	require.NotNil(t, product)
	assert.NotZero(t, product.ID)
	assert.Equal(t, "Brazylia Santos", product.Name)
	assert.Equal(t, model.Weight500g, product.Weight)
}

func TestProductService_CreateProduct_Validation(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	tests := []struct {
		name    string
		mutate  func(*ProductInput)
		wantErr error
	}{
		{
			name:    "Empty name",
			mutate:  func(in *ProductInput) { in.Name = "" },
			wantErr: ErrProductNameEmpty,
		},
		{
			name:    "Zero price",
			mutate:  func(in *ProductInput) { in.Price = 0 },
			wantErr: ErrInvalidPrice,
		},
		{
			name:    "Negative stock",
			mutate:  func(in *ProductInput) { in.StockQuantity = -1 },
			wantErr: ErrInvalidStock,
		},
		{
			name:    "Unknown weight",
			mutate:  func(in *ProductInput) { in.Weight = "250g" },
			wantErr: ErrInvalidWeight,
		},
		{
			name:    "Roast level too high",
			mutate:  func(in *ProductInput) { in.RoastLevel = 4 },
			wantErr: ErrInvalidAttribute,
		},
		{
			name:    "Acidity below range",
			mutate:  func(in *ProductInput) { in.Acidity = 0 },
			wantErr: ErrInvalidAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validProductInput()
			tt.mutate(&input)

			product, err := svc.CreateProduct(input)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, product)
		})
	}
}

func TestProductService_UpdateProduct(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	created, err := svc.CreateProduct(validProductInput())
	require.NoError(t, err)

	input := validProductInput()
	input.Price = 44.99
	input.StockQuantity = 10

	updated, err := svc.UpdateProduct(created.ID, input)
	assert.NoError(t, err)
	assert.Equal(t, 44.99, updated.Price)
	assert.Equal(t, 10, updated.StockQuantity)
}

func TestProductService_UpdateProduct_NotFound(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, err := svc.UpdateProduct(9999, validProductInput())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	created, err := svc.CreateProduct(validProductInput())
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteProduct(created.ID))

	_, err = svc.GetProductByID(created.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, svc.DeleteProduct(9999), ErrProductNotFound)
}

func TestProductService_GetTopSellers_NoCache(t *testing.T) {
	testDB, svc := setupProductServiceTest(t)
	defer db.CleanupTestDB(testDB)

	names := []string{"Brazylia Santos", "Etiopia Yirgacheffe", "Kolumbia Supremo"}
	sales := []int{3, 15, 7}
	for i, name := range names {
		input := validProductInput()
		input.Name = name
		created, err := svc.CreateProduct(input)
		require.NoError(t, err)
		require.NoError(t, testDB.Model(&model.Product{}).Where("id = ?", created.ID).
			Update("sales", sales[i]).Error)
	}

	top, err := svc.GetTopSellers(context.Background())
	assert.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "Etiopia Yirgacheffe", top[0].Name)
	assert.Equal(t, "Kolumbia Supremo", top[1].Name)
	assert.Equal(t, "Brazylia Santos", top[2].Name)
}

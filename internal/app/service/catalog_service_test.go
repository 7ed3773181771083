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

func setupCatalogServiceTest(t *testing.T) (*gorm.DB, CatalogService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := repository.NewProductRepository(testDB)
	svc := NewCatalogService(repo)
	return testDB, svc
}

func TestCatalogService_ListCatalog(t *testing.T) {
	testDB, svc := setupCatalogServiceTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{Name: "Brazylia Santos", Price: 39.99, Weight: model.Weight500g, RoastLevel: 2, Acidity: 1, CaffeineLevel: 2, Sweetness: 3, StockQuantity: 10},
		{Name: "Etiopia Yirgacheffe", Price: 54.50, Weight: model.Weight500g, RoastLevel: 1, Acidity: 3, CaffeineLevel: 2, Sweetness: 2, StockQuantity: 10},
		{Name: "Kolumbia Supremo", Price: 44.99, Weight: model.Weight1000g, RoastLevel: 2, Acidity: 2, CaffeineLevel: 2, Sweetness: 2, StockQuantity: 10},
	}
	for i := range products {
		require.NoError(t, testDB.Create(&products[i]).Error)
	}

	t.Run("No constraints keeps catalog order", func(t *testing.T) {
		result, err := svc.ListCatalog(viewmodel.Query{})
		assert.NoError(t, err)
		require.Len(t, result, 3)
		assert.Equal(t, "Brazylia Santos", result[0].Name)
		assert.Equal(t, "Etiopia Yirgacheffe", result[1].Name)
		assert.Equal(t, "Kolumbia Supremo", result[2].Name)
	})

	t.Run("Search narrows the list", func(t *testing.T) {
		result, err := svc.ListCatalog(viewmodel.Query{Search: "etiopia"})
		assert.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Etiopia Yirgacheffe", result[0].Name)
	})

	t.Run("Filter and sort compose", func(t *testing.T) {
		filters := viewmodel.NewFilterState()
		filters.Set(viewmodel.AttrRoastLevel, "2")

		result, err := svc.ListCatalog(viewmodel.Query{
			Filters: filters,
			Sort:    viewmodel.SortState{Key: viewmodel.AttrPrice, Ascending: false},
		})
		assert.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "Kolumbia Supremo", result[0].Name)
		assert.Equal(t, "Brazylia Santos", result[1].Name)
	})
}

package repository

import (
	"strings"

	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	FindAll() ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	Search(keyword string) ([]model.Product, error)
	FindTopSellers(limit int) ([]model.Product, error)
	// UpdateStockAndSales applies a stock decrement and sales increment in
	// one statement. Must run inside the caller's transaction.
	UpdateStockAndSales(tx *gorm.DB, productID uint, quantity int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":   product.Name,
		"price":  product.Price,
		"weight": product.Weight,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

// FindAll returns the whole catalog in stable id order. Search, filtering and
// sorting happen in memory on top of this snapshot.
func (r *productRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products", err, nil)
		return nil, err
	}

	logger.Debug("Products retrieved", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find product by ID", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByName(name string) (*model.Product, error) {
	var product model.Product
	if err := r.db.Where("name = ?", name).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Search matches the keyword against name and description, case-insensitive,
// keeping catalog order.
func (r *productRepository) Search(keyword string) ([]model.Product, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"

	var products []model.Product
	if err := r.db.
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Order("id ASC").
		Find(&products).Error; err != nil {
		logger.Error("Failed to search products", err, map[string]interface{}{
			"keyword": keyword,
		})
		return nil, err
	}

	logger.Debug("Products searched", map[string]interface{}{
		"keyword": keyword,
		"count":   len(products),
	})
	return products, nil
}

// FindTopSellers returns products ordered by units sold, ties broken by id.
func (r *productRepository) FindTopSellers(limit int) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("sales DESC, id ASC").Limit(limit).Find(&products).Error; err != nil {
		logger.Error("Failed to find top sellers", err, map[string]interface{}{
			"limit": limit,
		})
		return nil, err
	}
	return products, nil
}

func (r *productRepository) UpdateStockAndSales(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&model.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", quantity),
			"sales":          gorm.Expr("sales + ?", quantity),
		})
	if result.Error != nil {
		logger.Error("Failed to update stock and sales", result.Error, map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/pkg/logger"
	"github.com/kawuz/kawuz-backend/pkg/redis"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidWeight    = errors.New("invalid package weight")
	ErrInvalidAttribute = errors.New("coffee profile attribute out of range")
	ErrInvalidPrice     = errors.New("price must be positive")
	ErrInvalidStock     = errors.New("stock quantity cannot be negative")
	ErrProductNameEmpty = errors.New("product name is required")
)

const (
	topSellersLimit    = 10
	topSellersCacheTTL = time.Hour
)

// ProductInput carries the fields an admin submits when creating or updating
// a product.
type ProductInput struct {
	Name          string              `json:"name" binding:"required"`
	Description   string              `json:"description"`
	Price         float64             `json:"price" binding:"required"`
	Weight        model.PackageWeight `json:"weight"`
	RoastLevel    int                 `json:"roastLevel"`
	Acidity       int                 `json:"acidity"`
	CaffeineLevel int                 `json:"caffeineLevel"`
	Sweetness     int                 `json:"sweetness"`
	StockQuantity int                 `json:"stockQuantity"`
}

type ProductService interface {
	CreateProduct(input ProductInput) (*model.Product, error)
	UpdateProduct(id uint, input ProductInput) (*model.Product, error)
	DeleteProduct(id uint) error
	GetProductByID(id uint) (*model.Product, error)
	SearchProducts(keyword string) ([]model.Product, error)
	GetTopSellers(ctx context.Context) ([]model.Product, error)
	// RefreshTopSellers recomputes the ranking and rewrites the cache.
	RefreshTopSellers(ctx context.Context) error
}

type productService struct {
	productRepo repository.ProductRepository
	cacheReady  bool
}

// NewProductService creates a product service. cacheReady reports whether a
// Redis connection was established; without it the ranking is computed from
// the database on every request.
func NewProductService(productRepo repository.ProductRepository, cacheReady bool) ProductService {
	return &productService{
		productRepo: productRepo,
		cacheReady:  cacheReady,
	}
}

func validateInput(input ProductInput) error {
	if input.Name == "" {
		return ErrProductNameEmpty
	}
	if input.Price <= 0 {
		return ErrInvalidPrice
	}
	if input.StockQuantity < 0 {
		return ErrInvalidStock
	}
	if input.Weight != "" && !model.ValidWeight(input.Weight) {
		return ErrInvalidWeight
	}
	for _, v := range []int{input.RoastLevel, input.Acidity, input.CaffeineLevel, input.Sweetness} {
		if !model.ValidAttribute(v) {
			return ErrInvalidAttribute
		}
	}
	return nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":  input.Name,
		"price": input.Price,
	})

	if err := validateInput(input); err != nil {
		logger.Warn("Product validation failed", map[string]interface{}{
			"name":  input.Name,
			"error": err.Error(),
		})
		return nil, err
	}

	weight := input.Weight
	if weight == "" {
		weight = model.Weight500g
	}

	product := &model.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Weight:        weight,
		RoastLevel:    input.RoastLevel,
		Acidity:       input.Acidity,
		CaffeineLevel: input.CaffeineLevel,
		Sweetness:     input.Sweetness,
		StockQuantity: input.StockQuantity,
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return product, nil
}

func (s *productService) UpdateProduct(id uint, input ProductInput) (*model.Product, error) {
	logger.Info("Updating product", map[string]interface{}{
		"product_id": id,
	})

	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	if input.Weight != "" {
		product.Weight = input.Weight
	}
	product.RoastLevel = input.RoastLevel
	product.Acidity = input.Acidity
	product.CaffeineLevel = input.CaffeineLevel
	product.Sweetness = input.Sweetness
	product.StockQuantity = input.StockQuantity

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	logger.Info("Deleting product", map[string]interface{}{
		"product_id": id,
	})

	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	return s.productRepo.Delete(id)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// SearchProducts runs a database keyword search over name and description.
// An empty keyword returns the whole catalog.
func (s *productService) SearchProducts(keyword string) ([]model.Product, error) {
	if keyword == "" {
		return s.productRepo.FindAll()
	}
	return s.productRepo.Search(keyword)
}

// GetTopSellers returns the ten best-selling products, served from the Redis
// cache when warm.
func (s *productService) GetTopSellers(ctx context.Context) ([]model.Product, error) {
	if s.cacheReady {
		cached, err := redis.GetCachedTopSellers(ctx)
		if err == nil && cached != nil {
			logger.Debug("Top sellers served from cache", map[string]interface{}{
				"count": len(cached),
			})
			return cached, nil
		}
		if err != nil {
			logger.Warn("Top sellers cache read failed, falling back to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	products, err := s.productRepo.FindTopSellers(topSellersLimit)
	if err != nil {
		return nil, err
	}

	if s.cacheReady {
		if err := redis.CacheTopSellers(ctx, products, topSellersCacheTTL); err != nil {
			logger.Warn("Failed to cache top sellers", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return products, nil
}

func (s *productService) RefreshTopSellers(ctx context.Context) error {
	products, err := s.productRepo.FindTopSellers(topSellersLimit)
	if err != nil {
		return err
	}

	if !s.cacheReady {
		return nil
	}
	return redis.CacheTopSellers(ctx, products, topSellersCacheTTL)
}

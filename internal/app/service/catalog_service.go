package service

import (
	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/app/viewmodel"
	"github.com/kawuz/kawuz-backend/pkg/logger"
)

// CatalogService serves the storefront and admin product listings: one
// catalog snapshot from the repository, then the pure search/filter/sort
// pipeline on top.
type CatalogService interface {
	ListCatalog(q viewmodel.Query) ([]model.Product, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(productRepo repository.ProductRepository) CatalogService {
	return &catalogService{productRepo: productRepo}
}

func (s *catalogService) ListCatalog(q viewmodel.Query) ([]model.Product, error) {
	products, err := s.productRepo.FindAll()
	if err != nil {
		logger.Error("Failed to load catalog", err, nil)
		return nil, err
	}

	result := viewmodel.Apply(products, q)

	logger.Debug("Catalog listed", map[string]interface{}{
		"total":    len(products),
		"returned": len(result),
		"search":   q.Search,
		"sort_key": string(q.Sort.Key),
	})
	return result, nil
}

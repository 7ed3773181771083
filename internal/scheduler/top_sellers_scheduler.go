package scheduler

import (
	"context"
	"time"

	"github.com/kawuz/kawuz-backend/internal/app/service"
	"github.com/kawuz/kawuz-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TopSellersScheduler keeps the cached best-seller ranking fresh so the
// storefront never serves a ranking older than an hour.
type TopSellersScheduler struct {
	cron           *cron.Cron
	productService service.ProductService
}

func NewTopSellersScheduler(productService service.ProductService) *TopSellersScheduler {
	return &TopSellersScheduler{
		cron:           cron.New(),
		productService: productService,
	}
}

// Start registers the hourly refresh and runs one immediately to warm the
// cache.
func (s *TopSellersScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", s.refresh)
	if err != nil {
		logger.Error("Failed to add cron job for top sellers refresh", err)
		return err
	}

	s.cron.Start()
	logger.Info("Top sellers scheduler started (hourly)", nil)

	go s.refresh()
	return nil
}

func (s *TopSellersScheduler) refresh() {
	logger.Info("Refreshing top sellers ranking", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.productService.RefreshTopSellers(ctx); err != nil {
		logger.Error("Failed to refresh top sellers ranking", err)
		return
	}

	logger.Info("Top sellers ranking refreshed", nil)
}

// Stop stops the scheduler.
func (s *TopSellersScheduler) Stop() {
	logger.Info("Stopping top sellers scheduler...", nil)
	s.cron.Stop()
	logger.Info("Top sellers scheduler stopped", nil)
}

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kawuz/kawuz-backend/config"
	"github.com/kawuz/kawuz-backend/internal/app/controller"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/app/service"
	"github.com/kawuz/kawuz-backend/internal/db"
	"github.com/kawuz/kawuz-backend/internal/middleware"
	"github.com/kawuz/kawuz-backend/internal/router"
	"github.com/kawuz/kawuz-backend/internal/scheduler"
	"github.com/kawuz/kawuz-backend/internal/websocket"
	"github.com/kawuz/kawuz-backend/pkg/captcha"
	"github.com/kawuz/kawuz-backend/pkg/logger"
	"github.com/kawuz/kawuz-backend/pkg/mailer"
	"github.com/kawuz/kawuz-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting KawUZ Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis. The server runs without it: no token blacklist, no
	// ranking cache.
	redisReady := true
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, continuing without cache and token blacklist", map[string]interface{}{
			"error": err.Error(),
		})
		redisReady = false
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	captchaClient := captcha.NewClient(cfg.Captcha)
	mail := mailer.New(cfg.SMTP)

	authService := service.NewAuthService(
		userRepo,
		captchaClient,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	catalogService := service.NewCatalogService(productRepo)
	productService := service.NewProductService(productRepo, redisReady)
	cartService := service.NewCartService(productRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, productRepo, userRepo, mail)

	// WebSocket hub for catalog change notifications
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize controllers
	secureCookies := cfg.Server.Environment != "development"
	authController := controller.NewAuthController(
		authService,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		redisReady,
		secureCookies,
	)
	productController := controller.NewProductController(catalogService, productService, hub)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, redisReady)

	// Start the top sellers refresh scheduler
	topSellersScheduler := scheduler.NewTopSellersScheduler(productService)
	if err := topSellersScheduler.Start(); err != nil {
		logger.Warn("Failed to start top sellers scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer topSellersScheduler.Stop()
	}

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		cartController,
		orderController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}

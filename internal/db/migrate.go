package db

import (
	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/pkg/logger"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData()
}

func seedInitialData() error {
	logger.Info("Seeding initial data...")

	if err := seedProducts(); err != nil {
		logger.Error("Failed to seed products", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// seedProducts creates the starter coffee catalog on an empty database
func seedProducts() error {
	var count int64
	if err := DB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		logger.Info("Products already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding coffee catalog...")

	products := []model.Product{
		{
			Name:          "Brazylia Santos",
			Description:   "Łagodna kawa o orzechowo-czekoladowym profilu, idealna na espresso.",
			Price:         39.99,
			Weight:        model.Weight500g,
			RoastLevel:    2,
			Acidity:       1,
			CaffeineLevel: 2,
			Sweetness:     3,
			StockQuantity: 50,
		},
		{
			Name:          "Etiopia Yirgacheffe",
			Description:   "Kwiatowo-cytrusowa kawa z regionu Yirgacheffe, jasno palona.",
			Price:         54.50,
			Weight:        model.Weight500g,
			RoastLevel:    1,
			Acidity:       3,
			CaffeineLevel: 2,
			Sweetness:     2,
			StockQuantity: 35,
		},
		{
			Name:          "Kolumbia Supremo",
			Description:   "Zbalansowana kawa o nutach karmelu i czerwonych owoców.",
			Price:         44.99,
			Weight:        model.Weight500g,
			RoastLevel:    2,
			Acidity:       2,
			CaffeineLevel: 2,
			Sweetness:     2,
			StockQuantity: 40,
		},
		{
			Name:          "Gwatemala Huehuetenango",
			Description:   "Wyrazista kawa o nutach kakao i suszonych owoców.",
			Price:         49.99,
			Weight:        model.Weight1000g,
			RoastLevel:    3,
			Acidity:       2,
			CaffeineLevel: 3,
			Sweetness:     1,
			StockQuantity: 25,
		},
		{
			Name:          "Kenia AA",
			Description:   "Intensywna kawa o winnej kwasowości i nutach czarnej porzeczki.",
			Price:         59.99,
			Weight:        model.Weight500g,
			RoastLevel:    1,
			Acidity:       3,
			CaffeineLevel: 3,
			Sweetness:     1,
			StockQuantity: 20,
		},
		{
			Name:          "Peru Cajamarca",
			Description:   "Delikatna kawa organiczna o nutach miodu i herbaty.",
			Price:         42.50,
			Weight:        model.Weight1000g,
			RoastLevel:    2,
			Acidity:       1,
			CaffeineLevel: 1,
			Sweetness:     3,
			StockQuantity: 30,
		},
	}

	totalInserted := 0
	for _, product := range products {
		if err := DB.Create(&product).Error; err != nil {
			logger.Error("Failed to create product", err, map[string]interface{}{
				"product": product.Name,
			})
			return err
		}
		totalInserted++
	}

	logger.Info("Coffee catalog seeded successfully", map[string]interface{}{
		"total_products": totalInserted,
	})

	return nil
}

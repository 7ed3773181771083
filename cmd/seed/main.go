// Command seed imports a coffee catalog from an XLSX file.
//
// Expected columns, first row is the header:
// name | description | price | weight | roastLevel | acidity | caffeineLevel | sweetness | stockQuantity
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kawuz/kawuz-backend/config"
	"github.com/kawuz/kawuz-backend/internal/app/model"
	"github.com/kawuz/kawuz-backend/internal/app/repository"
	"github.com/kawuz/kawuz-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, skipped, err := readProductsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(products), skipped)

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range products {
		if err := productRepo.Create(&products[i]); err != nil {
			fmt.Printf("Failed to import %q: %v\n", products[i].Name, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed!")
	fmt.Printf("Total products imported: %d\n", imported)
}

func readProductsFromXLSX(filePath string) ([]model.Product, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenNames := make(map[string]bool)
	skipped := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 9 {
			skipped++
			continue
		}

		name := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		priceStr := strings.TrimSpace(row[2])
		weight := model.PackageWeight(strings.TrimSpace(row[3]))

		if name == "" || seenNames[name] {
			skipped++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			fmt.Printf("Row %d: invalid price %q, skipping\n", i+1, priceStr)
			skipped++
			continue
		}

		if !model.ValidWeight(weight) {
			fmt.Printf("Row %d: invalid weight %q, skipping\n", i+1, weight)
			skipped++
			continue
		}

		attrs := make([]int, 4)
		valid := true
		for j := 0; j < 4; j++ {
			v, err := strconv.Atoi(strings.TrimSpace(row[4+j]))
			if err != nil || !model.ValidAttribute(v) {
				valid = false
				break
			}
			attrs[j] = v
		}
		if !valid {
			fmt.Printf("Row %d: invalid coffee profile, skipping\n", i+1)
			skipped++
			continue
		}

		stock, err := strconv.Atoi(strings.TrimSpace(row[8]))
		if err != nil || stock < 0 {
			stock = 0
		}

		seenNames[name] = true
		products = append(products, model.Product{
			Name:          name,
			Description:   description,
			Price:         price,
			Weight:        weight,
			RoastLevel:    attrs[0],
			Acidity:       attrs[1],
			CaffeineLevel: attrs[2],
			Sweetness:     attrs[3],
			StockQuantity: stock,
		})
	}

	return products, skipped, nil
}

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Bulk-imports country/capital pairs from a spreadsheet. Expected columns:
// A = country, B = capital. The first row is treated as a header. Countries
// already present are skipped so the import can be re-run.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_capitals <file.xlsx>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)
		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 2 {
				continue
			}

			country := strings.TrimSpace(row[0])
			capital := strings.TrimSpace(row[1])
			if country == "" || capital == "" {
				fmt.Printf("Skipping incomplete row %d in %s\n", i+1, sheetName)
				continue
			}

			var existing models.CapitalFact
			err := db.Where("country = ?", country).First(&existing).Error
			if err == nil {
				fmt.Printf("Skipping %s: already present\n", country)
				continue
			}
			if err != gorm.ErrRecordNotFound {
				fmt.Printf("Error checking %s: %v\n", country, err)
				continue
			}

			fact := models.CapitalFact{Country: country, Capital: capital}
			if err := db.Create(&fact).Error; err != nil {
				fmt.Printf("Error creating row %d: %v\n", i+1, err)
			} else {
				totalImported++
			}
		}
	}

	fmt.Printf("Successfully imported %d capitals.\n", totalImported)
}

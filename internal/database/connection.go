package database

import (
	"fmt"
	"time"

	"github.com/otabek-dev/poytaxt_bot/internal/config"
	"github.com/otabek-dev/poytaxt_bot/internal/models"
	"github.com/otabek-dev/poytaxt_bot/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.GetDSN()

	var logLevel gormlogger.LogLevel
	if cfg.AppEnv == "development" {
		logLevel = gormlogger.Info
	} else {
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// The bot reads a handful of rows once and caches them; a small pool is plenty.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("Database connected successfully")
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	if err := db.AutoMigrate(&models.CapitalFact{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// The built-in reference set. Seeded only when the capitals table is empty,
// so restarting the bot never duplicates rows.
var seedCapitals = []models.CapitalFact{
	{Country: "O'zbekiston", Capital: "Toshkent"},
	{Country: "Qozog'iston", Capital: "Astana"},
	{Country: "Rossiya", Capital: "Moskva"},
	{Country: "Xitoy", Capital: "Pekin"},
	{Country: "AQSh", Capital: "Vashington"},
	{Country: "Fransiya", Capital: "Parij"},
	{Country: "Yaponiya", Capital: "Tokio"},
	{Country: "Germaniya", Capital: "Berlin"},
	{Country: "Buyuk Britaniya", Capital: "London"},
	{Country: "Italiya", Capital: "Rim"},
}

func SeedCapitals(db *gorm.DB) error {
	logger.Info("Checking reference capitals...")

	var count int64
	if err := db.Model(&models.CapitalFact{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count capitals: %w", err)
	}
	if count > 0 {
		logger.Debug("Capitals already seeded", "count", count)
		return nil
	}

	logger.Info("Seeding reference capitals...")
	facts := make([]models.CapitalFact, len(seedCapitals))
	copy(facts, seedCapitals)

	if err := db.Create(&facts).Error; err != nil {
		return fmt.Errorf("failed to seed capitals: %w", err)
	}

	logger.Info("Reference capitals seeded", "count", len(facts))
	return nil
}

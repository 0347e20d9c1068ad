package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/otabek-dev/poytaxt_bot/internal/config"
	"github.com/otabek-dev/poytaxt_bot/internal/database"
	"github.com/otabek-dev/poytaxt_bot/pkg/logger"
	"github.com/otabek-dev/poytaxt_bot/telegram"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize logger
	logger.Init()
	defer logger.Sync()

	logger.Info("Starting Poytaxt Quiz Bot...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}

	// Run GORM auto-migration
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed the built-in reference set; an empty reference set would make
	// every quiz fail, so a seed failure is fatal at startup.
	if err := database.SeedCapitals(db); err != nil {
		logger.Fatal("Failed to seed capitals", err)
	}

	// Initialize and start Telegram bot
	bot, err := telegram.InitBot(cfg, db)
	if err != nil {
		logger.Fatal("Failed to initialize bot", err)
	}

	logger.Info("Bot started successfully", "env", cfg.AppEnv)

	// Graceful shutdown on signal, or on /stop in parity mode
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down gracefully...")
	case <-bot.Done():
		logger.Info("Stop command received, shutting down...")
	}

	bot.Stop()
	logger.Info("Bot stopped")
}

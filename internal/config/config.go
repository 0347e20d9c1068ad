package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Telegram
	BotToken string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Application
	AppEnv   string
	LogLevel string

	// Quiz
	QuizCountOptions []int
	QuizDistractors  int

	// Behavior parity with the original bot: /stop halts the whole process
	StopHaltsProcess bool

	// Rate limiting
	RateLimitPerUser int
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		BotToken:   getEnv("BOT_TOKEN", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "poytaxtbot"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "poytaxtbot_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		QuizDistractors:  getEnvInt("QUIZ_DISTRACTORS", 3),
		StopHaltsProcess: getEnvBool("STOP_HALTS_PROCESS", false),
		RateLimitPerUser: getEnvInt("RATE_LIMIT_PER_USER", 20),
	}

	counts, err := parseCountOptions(getEnv("QUIZ_COUNT_OPTIONS", "5,10,15"))
	if err != nil {
		return nil, fmt.Errorf("invalid QUIZ_COUNT_OPTIONS: %w", err)
	}
	cfg.QuizCountOptions = counts

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.DBPassword == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if len(c.QuizCountOptions) == 0 {
		return fmt.Errorf("QUIZ_COUNT_OPTIONS must offer at least one count")
	}
	if c.QuizDistractors < 1 {
		return fmt.Errorf("QUIZ_DISTRACTORS must be at least 1")
	}
	return nil
}

func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

func parseCountOptions(raw string) ([]int, error) {
	var counts []int
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("count option must be positive, got %d", n)
		}
		counts = append(counts, n)
	}
	return counts, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

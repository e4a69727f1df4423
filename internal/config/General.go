package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// Application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// WebPort is the port the HTTP API listens on.
	WebPort string

	// MarketDataBaseURL is the base URL of the market data provider API.
	MarketDataBaseURL string
	// MarketDataAPIKey is the optional API key for the market data provider.
	MarketDataAPIKey string
	// UnlocksBaseURL is the base URL of the token unlock schedule provider.
	UnlocksBaseURL string

	// SectorTablePath optionally points to a YAML file overriding the
	// built-in sector classification table.
	SectorTablePath string

	// DBHost and friends configure the optional PostgreSQL state store.
	// An empty DBHost disables persistence entirely.
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
)

const (
	defaultWebPort           = "8080"
	defaultMarketDataBaseURL = "https://api.coingecko.com/api/v3"
	defaultUnlocksBaseURL    = "https://api.unlocks.app/v4"
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. Only the database settings are conditionally required:
// if DB_HOST is set, the remaining DB_* variables must be set too.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	WebPort = getEnvOrDefault("WEB_PORT", defaultWebPort)
	MarketDataBaseURL = getEnvOrDefault("MARKET_DATA_BASE_URL", defaultMarketDataBaseURL)
	MarketDataAPIKey = os.Getenv("MARKET_DATA_API_KEY")
	UnlocksBaseURL = getEnvOrDefault("UNLOCKS_BASE_URL", defaultUnlocksBaseURL)
	SectorTablePath = os.Getenv("SECTOR_TABLE_PATH")

	DBHost = os.Getenv("DB_HOST")
	if DBHost != "" {
		var err error
		if DBPort, err = getEnvAsInt("DB_PORT", 5432); err != nil {
			return err
		}
		if DBUser, err = getEnv("DB_USER"); err != nil {
			return err
		}
		if DBPassword, err = getEnv("DB_PASSWORD"); err != nil {
			return err
		}
		if DBName, err = getEnv("DB_NAME"); err != nil {
			return err
		}
		DBSSLMode = getEnvOrDefault("DB_SSLMODE", "disable")
	}

	log.Debug().
		Str("WebPort", WebPort).
		Str("MarketDataBaseURL", MarketDataBaseURL).
		Str("UnlocksBaseURL", UnlocksBaseURL).
		Bool("DatabaseConfigured", DBHost != "").
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvOrDefault retrieves a string environment variable with a fallback.
func getEnvOrDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an int with a fallback.
// Returns error if set but invalid.
func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid integer, got: " + valueStr)
	}
	return value, nil
}

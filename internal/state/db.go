// ./internal/state/db.go
package state

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
)

// DB is a global database connection pool. It stays nil when persistence is
// disabled and every store function reports that as an error.
var DB *sql.DB

// DBConfig holds database connection parameters.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // "disable", "require", "verify-full", etc.
}

// InitDB initializes the database connection pool.
func InitDB(cfg DBConfig) error {
	psqlInfo := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var err error
	DB, err = sql.Open("postgres", psqlInfo)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	err = DB.Ping()
	if err != nil {
		DB.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Msg("Successfully connected to the PostgreSQL database!")
	return nil
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		log.Info().Msg("Closing database connection...")
		if err := DB.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection")
		}
	}
}

// EnsureSchema applies the necessary DDL to create tables if they don't exist.
func EnsureSchema() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}

	schemaSQL := `
		CREATE TABLE IF NOT EXISTS scoring_tables (
			tables_id SERIAL PRIMARY KEY,
			version INTEGER NOT NULL DEFAULT 1,
			config_name VARCHAR(255) NOT NULL DEFAULT 'default',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			payload JSONB NOT NULL,
			activated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (config_name, version)
		);

		CREATE TABLE IF NOT EXISTS diagnostic_runs (
			run_id SERIAL PRIMARY KEY,
			horizon VARCHAR(16) NOT NULL,
			risk_tolerance VARCHAR(16) NOT NULL,
			objectives JSONB NOT NULL,
			allocation JSONB NOT NULL,
			adherence_score DECIMAL(6, 2) NOT NULL,
			adherence_level VARCHAR(16) NOT NULL,
			total_score DECIMAL(6, 2) NOT NULL,
			red_flags INTEGER NOT NULL DEFAULT 0,
			yellow_flags INTEGER NOT NULL DEFAULT 0,
			green_flags INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_diagnostic_runs_created_at
			ON diagnostic_runs(created_at DESC);
	`
	if _, err := DB.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	log.Info().Msg("Database schema ensured.")
	return nil
}

// TestDBConnection pings the database to verify the pool is alive.
func TestDBConnection() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	return DB.Ping()
}

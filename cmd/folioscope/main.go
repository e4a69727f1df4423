package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/config"
	"github.com/folioscope/folioscope/internal/datafetcher"
	"github.com/folioscope/folioscope/internal/diagnostic"
	"github.com/folioscope/folioscope/internal/logger"
	"github.com/folioscope/folioscope/internal/state"
	"github.com/folioscope/folioscope/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	SCORING_CONFIG_NAME    = "default_scoring_tables"
	SCORING_CONFIG_VERSION = 1
)

// main is the entry point for the folioscope diagnostic service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Folioscope diagnostic service starting...")

	// --- 2. Optional Database Connection ---
	// Persistence is opt-in: an empty DB_HOST runs the service stateless.
	persist := config.DBHost != ""
	tables := config.DefaultScoringTables
	if persist {
		dbCfg := state.DBConfig{
			Host: config.DBHost, Port: config.DBPort,
			User: config.DBUser, Password: config.DBPassword,
			DBName: config.DBName, SSLMode: config.DBSSLMode,
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}

		loaded, version, err := state.LoadActiveScoringTables(SCORING_CONFIG_NAME)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load active scoring tables, using defaults and saving.")
			if _, err := state.SaveScoringTables(tables, SCORING_CONFIG_NAME, SCORING_CONFIG_VERSION, true); err != nil {
				log.Fatal().Err(err).Msg("Failed to save initial default scoring tables.")
			}
		} else {
			tables = loaded
			log.Info().Int("version", version).Msg("Scoring tables loaded from database.")
		}
	} else {
		log.Info().Msg("DB_HOST not set, running stateless with default scoring tables.")
	}

	// --- 3. Classifier and Providers ---
	var sectors classifier.SectorClassifier
	if config.SectorTablePath != "" {
		loaded, err := classifier.NewStaticFromFile(config.SectorTablePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", config.SectorTablePath).Msg("Failed to load sector table overrides")
		}
		sectors = loaded
	} else {
		sectors = classifier.NewStatic()
	}

	marketData := datafetcher.NewCoinGeckoClient(config.MarketDataBaseURL, config.MarketDataAPIKey)

	engineCfg := diagnostic.Config{
		Sectors:    sectors,
		Tables:     tables,
		MarketData: marketData,
		History:    marketData,
	}
	if unlocks := datafetcher.NewUnlocksClient(config.UnlocksBaseURL); unlocks != nil {
		engineCfg.Unlocks = unlocks
	}

	engine, err := diagnostic.NewEngine(engineCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create diagnostic engine")
	}
	log.Info().Msg("Diagnostic engine created successfully")

	// --- 4. Web Server ---
	webServer := web.NewWebServer(config.WebPort, engine, tables, persist)
	go func() {
		log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting diagnostic API")
		if err := webServer.Start(); err != nil {
			log.Fatal().Err(err).Msg("Web server failed")
		}
	}()

	// --- 5. Wait for Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("Shutdown signal received, exiting.")
}

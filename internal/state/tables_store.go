// ./internal/state/tables_store.go
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/folioscope/folioscope/internal/types"
	"github.com/rs/zerolog/log"
)

// SaveScoringTables saves a new version of the scoring tables as a JSONB
// payload. When makeActive is true the previous active version of the same
// config name is deactivated in the same transaction.
func SaveScoringTables(tables types.ScoringTables, configName string, version int, makeActive bool) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	payload, err := json.Marshal(tables)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal scoring tables: %w", err)
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-panic after rollback
		} else if err != nil {
			tx.Rollback()
		}
	}()

	if makeActive {
		stmtDeactivate := `UPDATE scoring_tables SET is_active = FALSE WHERE config_name = $1 AND is_active = TRUE;`
		if _, err = tx.Exec(stmtDeactivate, configName); err != nil {
			return 0, fmt.Errorf("failed to deactivate existing active tables for %s: %w", configName, err)
		}
	}

	stmt := `
		INSERT INTO scoring_tables (version, config_name, is_active, payload, activated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING tables_id;
	`
	var tablesID int64
	err = tx.QueryRow(stmt, version, configName, makeActive, payload, time.Now().UTC()).Scan(&tablesID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scoring tables: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scoring tables: %w", err)
	}

	log.Info().
		Int64("tablesID", tablesID).
		Str("configName", configName).
		Int("version", version).
		Bool("active", makeActive).
		Msg("Saved scoring tables")
	return tablesID, nil
}

// LoadActiveScoringTables loads the active scoring tables for a config name.
// Returns sql.ErrNoRows when no active version exists.
func LoadActiveScoringTables(configName string) (types.ScoringTables, int, error) {
	var tables types.ScoringTables
	if DB == nil {
		return tables, 0, fmt.Errorf("database not initialized")
	}

	stmt := `
		SELECT payload, version FROM scoring_tables
		WHERE config_name = $1 AND is_active = TRUE
		ORDER BY activated_at DESC
		LIMIT 1;
	`
	var payload []byte
	var version int
	err := DB.QueryRow(stmt, configName).Scan(&payload, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return tables, 0, err
		}
		return tables, 0, fmt.Errorf("failed to load active scoring tables: %w", err)
	}

	if err := json.Unmarshal(payload, &tables); err != nil {
		return tables, 0, fmt.Errorf("failed to unmarshal scoring tables payload: %w", err)
	}
	return tables, version, nil
}

// LoadLatestScoringTables loads the most recently created version regardless
// of active status, for inspection and rollback tooling.
func LoadLatestScoringTables(configName string) (types.ScoringTables, int, error) {
	var tables types.ScoringTables
	if DB == nil {
		return tables, 0, fmt.Errorf("database not initialized")
	}

	stmt := `
		SELECT payload, version FROM scoring_tables
		WHERE config_name = $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	var payload []byte
	var version int
	err := DB.QueryRow(stmt, configName).Scan(&payload, &version)
	if err != nil {
		if err == sql.ErrNoRows {
			return tables, 0, err
		}
		return tables, 0, fmt.Errorf("failed to load latest scoring tables: %w", err)
	}

	if err := json.Unmarshal(payload, &tables); err != nil {
		return tables, 0, fmt.Errorf("failed to unmarshal scoring tables payload: %w", err)
	}
	return tables, version, nil
}

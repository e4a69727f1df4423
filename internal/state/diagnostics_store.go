// ./internal/state/diagnostics_store.go
package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/folioscope/folioscope/internal/types"
	"github.com/rs/zerolog/log"
)

// DiagnosticRecord is the persisted summary of one diagnostic run. The full
// diagnostic is recomputable, so only the inputs and headline results are
// stored.
type DiagnosticRecord struct {
	RunID          int64                 `json:"run_id"`
	Horizon        types.Horizon         `json:"horizon"`
	RiskTolerance  types.RiskTolerance   `json:"risk_tolerance"`
	Objectives     []types.Objective     `json:"objectives"`
	Allocation     types.Allocation      `json:"allocation"`
	AdherenceScore float64               `json:"adherence_score"`
	AdherenceLevel types.AdherenceLevel  `json:"adherence_level"`
	TotalScore     float64               `json:"total_score"`
	RedFlags       int                   `json:"red_flags"`
	YellowFlags    int                   `json:"yellow_flags"`
	GreenFlags     int                   `json:"green_flags"`
	CreatedAt      time.Time             `json:"created_at"`
}

// SaveDiagnosticRun persists the summary of a completed diagnostic.
func SaveDiagnosticRun(diag *types.PortfolioDiagnostic) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}
	if diag == nil {
		return 0, fmt.Errorf("diagnostic cannot be nil")
	}

	// Strip the fetched market data before persisting, it is point-in-time
	// and would be stale on read.
	stripped := make(types.Allocation, len(diag.Allocation))
	for i, entry := range diag.Allocation {
		stripped[i] = types.AllocationEntry{Token: entry.Token, Percentage: entry.Percentage}
	}
	allocationJSON, err := json.Marshal(stripped)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal allocation: %w", err)
	}
	objectivesJSON, err := json.Marshal(diag.Profile.Objectives)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal objectives: %w", err)
	}

	var red, yellow, green int
	for _, flag := range diag.Flags {
		switch flag.Type {
		case types.FlagRed:
			red++
		case types.FlagYellow:
			yellow++
		case types.FlagGreen:
			green++
		}
	}

	stmt := `
		INSERT INTO diagnostic_runs (
			horizon, risk_tolerance, objectives, allocation,
			adherence_score, adherence_level, total_score,
			red_flags, yellow_flags, green_flags
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING run_id;
	`
	var runID int64
	err = DB.QueryRow(stmt,
		diag.Profile.Horizon, diag.Profile.RiskTolerance, objectivesJSON, allocationJSON,
		diag.AdherenceScore, diag.AdherenceLevel, diag.Score.Total,
		red, yellow, green,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert diagnostic run: %w", err)
	}

	log.Debug().Int64("runID", runID).Msg("Saved diagnostic run")
	return runID, nil
}

// GetRecentDiagnosticRuns returns the most recent run summaries, newest first.
func GetRecentDiagnosticRuns(limit int) ([]DiagnosticRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	stmt := `
		SELECT run_id, horizon, risk_tolerance, objectives, allocation,
		       adherence_score, adherence_level, total_score,
		       red_flags, yellow_flags, green_flags, created_at
		FROM diagnostic_runs
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := DB.Query(stmt, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostic runs: %w", err)
	}
	defer rows.Close()

	var records []DiagnosticRecord
	for rows.Next() {
		var record DiagnosticRecord
		var objectivesJSON, allocationJSON []byte
		err := rows.Scan(
			&record.RunID, &record.Horizon, &record.RiskTolerance, &objectivesJSON, &allocationJSON,
			&record.AdherenceScore, &record.AdherenceLevel, &record.TotalScore,
			&record.RedFlags, &record.YellowFlags, &record.GreenFlags, &record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic run: %w", err)
		}
		if err := json.Unmarshal(objectivesJSON, &record.Objectives); err != nil {
			return nil, fmt.Errorf("failed to unmarshal objectives: %w", err)
		}
		if err := json.Unmarshal(allocationJSON, &record.Allocation); err != nil {
			return nil, fmt.Errorf("failed to unmarshal allocation: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

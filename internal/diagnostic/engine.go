/*

This file contains the diagnostic engine: the orchestrator that takes one
validated request through classification, rule evaluation, scoring, market
data enrichment, backtesting, and assembly of the final diagnostic.

The deterministic core (flags, adherence, score) never depends on the
network. Enrichment and backtesting fetch concurrently per token and any
provider failure degrades the output instead of failing the run.

*/

package diagnostic

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/datafetcher"
	"github.com/folioscope/folioscope/internal/logger"
	"github.com/folioscope/folioscope/internal/rules"
	"github.com/folioscope/folioscope/internal/scoring"
	"github.com/folioscope/folioscope/internal/types"
)

// unlockAlertWindow is how far ahead the engine looks for unlock events.
const unlockAlertWindow = 90 * 24 * time.Hour

// unlockRedThreshold is the supply percentage above which an unlock alert
// turns red.
const unlockRedThreshold = 5.0

// Engine runs portfolio diagnostics with injected collaborators.
type Engine struct {
	logger     zerolog.Logger
	sectors    classifier.SectorClassifier
	tables     types.ScoringTables
	marketData datafetcher.MarketDataProvider
	history    datafetcher.HistoryProvider
	unlocks    datafetcher.UnlockProvider
}

// Config holds the dependencies for creating a new Engine.
type Config struct {
	Sectors    classifier.SectorClassifier
	Tables     types.ScoringTables
	MarketData datafetcher.MarketDataProvider
	History    datafetcher.HistoryProvider
	Unlocks    datafetcher.UnlockProvider
}

// NewEngine creates an Engine with dependency injection. MarketData, History,
// and Unlocks may be nil; the corresponding sections of the diagnostic are
// then omitted. Sectors and scoring tables are required.
func NewEngine(cfg Config) (*Engine, error) {
	if err := validateEngineConfig(cfg); err != nil {
		return nil, fmt.Errorf("engine configuration validation failed: %w", err)
	}
	return &Engine{
		logger:     logger.GetForComponent("diagnostic_engine"),
		sectors:    cfg.Sectors,
		tables:     cfg.Tables,
		marketData: cfg.MarketData,
		history:    cfg.History,
		unlocks:    cfg.Unlocks,
	}, nil
}

func validateEngineConfig(cfg Config) error {
	if cfg.Sectors == nil {
		return fmt.Errorf("sector classifier cannot be nil")
	}
	if len(cfg.Tables.Horizon) == 0 || len(cfg.Tables.Risk) == 0 {
		return fmt.Errorf("scoring tables are incomplete")
	}
	if len(cfg.Tables.Diversification) == 0 || len(cfg.Tables.Objective) == 0 {
		return fmt.Errorf("scoring tables are incomplete")
	}
	return nil
}

// GenerateDiagnostic runs one full diagnostic for a profile and allocation.
//
// Inputs:
//   - ctx: bounds the enrichment and backtest fetches
//   - profile: the validated investor questionnaire answers
//   - allocation: the submitted portfolio
//
// Output: the complete diagnostic, or a ValidationError when the input is
// rejected. Provider failures never fail the run; they shrink the output.
func (e *Engine) GenerateDiagnostic(ctx context.Context, profile types.InvestorProfile, allocation types.Allocation) (*types.PortfolioDiagnostic, error) {
	start := time.Now()
	if err := ValidateRequest(profile, allocation); err != nil {
		return nil, err
	}

	// Enrichment first so the rule engine can see TokenData where available.
	enriched := e.enrichAllocation(ctx, allocation)

	summary := classifier.Summarize(enriched, e.sectors)

	flags := rules.GenerateFlags(profile, enriched, summary, e.sectors)
	adherence := rules.ComputeAdherence(flags)

	input := types.PortfolioInput{
		Horizon:          profile.Horizon,
		Risk:             profile.RiskTolerance,
		Objectives:       profile.Objectives,
		Assets:           summary.Breakdown,
		NumAssets:        summary.NumAssets,
		SectorIndex:      summary.SectorIndex,
		StakeablePercent: summary.StakeablePercent,
	}
	score, err := scoring.ScorePortfolio(input, e.tables)
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	diagnostic := &types.PortfolioDiagnostic{
		Profile:         profile,
		Allocation:      enriched,
		AdherenceScore:  adherence,
		AdherenceLevel:  rules.AdherenceLevelFor(adherence),
		Flags:           flags,
		Score:           score,
		Rebalance:       BuildRebalanceSuggestions(profile, enriched, summary, flags),
		SectorBreakdown: summary.SectorBreakdown,
		UnlockAlerts:    e.collectUnlockAlerts(ctx, enriched),
		GeneratedAt:     time.Now().UTC(),
	}

	backtest, series := e.runBacktests(ctx, enriched)
	diagnostic.Backtest = backtest
	diagnostic.BacktestSeries = series

	diagnostic.Metrics = e.computeMetrics(ctx, enriched, summary)

	e.logger.Info().
		Int("numAssets", summary.NumAssets).
		Int("flags", len(flags)).
		Float64("adherence", adherence).
		Float64("score", score.Total).
		Dur("elapsed", time.Since(start)).
		Msg("Diagnostic generated")

	return diagnostic, nil
}

// enrichAllocation fetches TokenData for every entry concurrently. Entries
// whose fetch fails keep a nil TokenData and the data-dependent rules skip
// them. The input allocation is never mutated.
func (e *Engine) enrichAllocation(ctx context.Context, allocation types.Allocation) types.Allocation {
	enriched := make(types.Allocation, len(allocation))
	copy(enriched, allocation)
	if e.marketData == nil {
		return enriched
	}

	var wg sync.WaitGroup
	for i := range enriched {
		wg.Add(1)
		go func(entry *types.AllocationEntry) {
			defer wg.Done()
			data, err := e.marketData.TokenData(ctx, entry.Token)
			if err != nil {
				e.logger.Warn().
					Str("token", entry.Token).
					Err(err).
					Msg("Token enrichment failed, continuing without market data")
				return
			}
			entry.TokenData = &data
		}(&enriched[i])
	}
	wg.Wait()
	return enriched
}

// collectUnlockAlerts fetches unlock calendars concurrently and maps events
// into alerts. Red above the supply threshold, yellow below.
func (e *Engine) collectUnlockAlerts(ctx context.Context, allocation types.Allocation) []types.UnlockAlert {
	if e.unlocks == nil {
		return nil
	}

	var mu sync.Mutex
	var alerts []types.UnlockAlert
	var wg sync.WaitGroup
	for _, symbol := range allocation.Symbols() {
		if classifier.IsStablecoin(symbol) || symbol == "BTC" {
			continue
		}
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			events, err := e.unlocks.UpcomingUnlocks(ctx, symbol, unlockAlertWindow)
			if err != nil {
				e.logger.Warn().
					Str("token", symbol).
					Err(err).
					Msg("Unlock lookup failed, continuing without alerts for token")
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, event := range events {
				severity := types.FlagYellow
				if event.Percentage > unlockRedThreshold {
					severity = types.FlagRed
				}
				alerts = append(alerts, types.UnlockAlert{
					Token:      event.Token,
					UnlockDate: event.UnlockDate,
					Percentage: event.Percentage,
					Amount:     event.Amount,
					Severity:   severity,
				})
			}
		}(symbol)
	}
	wg.Wait()

	// Goroutine completion order is nondeterministic, sort for stable output.
	sort.Slice(alerts, func(i, j int) bool {
		if !alerts[i].UnlockDate.Equal(alerts[j].UnlockDate) {
			return alerts[i].UnlockDate.Before(alerts[j].UnlockDate)
		}
		return alerts[i].Token < alerts[j].Token
	})
	return alerts
}

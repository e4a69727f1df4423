package diagnostic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/config"
	"github.com/folioscope/folioscope/internal/types"
)

type stubMarketData struct {
	data map[string]types.TokenData
	err  error
}

func (s stubMarketData) TokenData(ctx context.Context, symbol string) (types.TokenData, error) {
	if s.err != nil {
		return types.TokenData{}, s.err
	}
	data, ok := s.data[symbol]
	if !ok {
		return types.TokenData{}, errors.New("unknown token")
	}
	return data, nil
}

// stubHistory serves a linear daily series: every token gains growthPct per
// day from a base of 100.
type stubHistory struct {
	growthPct map[string]float64
	err       error
}

func (s stubHistory) DailySeries(ctx context.Context, symbol string, days int) ([]types.PricePoint, error) {
	if s.err != nil {
		return nil, s.err
	}
	growth, ok := s.growthPct[symbol]
	if !ok {
		return nil, errors.New("no history")
	}
	now := time.Now().UTC().Truncate(24 * time.Hour)
	series := make([]types.PricePoint, 0, days+1)
	for i := 0; i <= days; i++ {
		series = append(series, types.PricePoint{
			Timestamp: now.AddDate(0, 0, -(days - i)),
			Price:     100 * (1 + growth/100*float64(i)),
		})
	}
	return series, nil
}

type stubUnlocks struct {
	events map[string][]types.UnlockEvent
}

func (s stubUnlocks) UpcomingUnlocks(ctx context.Context, symbol string, within time.Duration) ([]types.UnlockEvent, error) {
	return s.events[symbol], nil
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	if cfg.Sectors == nil {
		cfg.Sectors = classifier.NewStatic()
	}
	if len(cfg.Tables.Horizon) == 0 {
		cfg.Tables = config.DefaultScoringTables
	}
	engine, err := NewEngine(cfg)
	require.NoError(t, err)
	return engine
}

func TestNewEngineRequiresClassifier(t *testing.T) {
	_, err := NewEngine(Config{Tables: config.DefaultScoringTables})
	assert.Error(t, err)
}

func TestNewEngineRequiresTables(t *testing.T) {
	_, err := NewEngine(Config{Sectors: classifier.NewStatic()})
	assert.Error(t, err)
}

// A balanced moderate preservation portfolio scores well and raises no
// critical findings.
func TestDiagnosticBalancedPortfolio(t *testing.T) {
	engine := newTestEngine(t, Config{})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectivePreserve},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 40},
		{Token: "ETH", Percentage: 25},
		{Token: "SOL", Percentage: 10},
		{Token: "USDC", Percentage: 15},
		{Token: "LINK", Percentage: 10},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)

	assert.Greater(t, diag.Score.Total, 60.0)
	assert.Equal(t, 96.0, diag.Score.Subscores.Horizon)

	var reds, greens int
	for _, flag := range diag.Flags {
		switch flag.Type {
		case types.FlagRed:
			reds++
		case types.FlagGreen:
			greens++
		}
	}
	assert.Zero(t, reds)
	assert.Greater(t, greens, 0)
	assert.Equal(t, types.AdherenceHigh, diag.AdherenceLevel)
	assert.NotEmpty(t, diag.SectorBreakdown)
	assert.False(t, diag.GeneratedAt.IsZero())
}

// A memecoin-dominated portfolio on a conservative preservation profile is
// flagged critically and the adherence score collapses.
func TestDiagnosticMemecoinPortfolio(t *testing.T) {
	engine := newTestEngine(t, Config{})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskLow,
		Objectives:    []types.Objective{types.ObjectivePreserve},
	}
	allocation := types.Allocation{
		{Token: "DOGE", Percentage: 90},
		{Token: "USDC", Percentage: 10},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)

	var memeRed, objectiveRed bool
	for _, flag := range diag.Flags {
		if flag.Type == types.FlagRed && flag.Severity == 5 {
			memeRed = true
		}
		if flag.Type == types.FlagRed && flag.Category == types.CategoryObjective {
			objectiveRed = true
		}
	}
	assert.True(t, memeRed, "expected a critical memecoin flag")
	assert.True(t, objectiveRed, "expected a preservation-contradiction flag")
	assert.Less(t, diag.AdherenceScore, 40.0)
	assert.Equal(t, types.AdherenceLow, diag.AdherenceLevel)
	assert.NotEmpty(t, diag.Rebalance)
}

// Validation runs before any computation.
func TestDiagnosticRejectsInvalidSum(t *testing.T) {
	engine := newTestEngine(t, Config{})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectivePreserve},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 60},
		{Token: "ETH", Percentage: 39.5},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	assert.Nil(t, diag)
	var validationErr *types.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "allocation", validationErr.Field)
}

// Near-total BTC on an aggressive profile is informational: severity 0, no
// adherence penalty from that finding.
func TestDiagnosticBtcConcentrationInformational(t *testing.T) {
	engine := newTestEngine(t, Config{})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonMedium,
		RiskTolerance: types.RiskHigh,
		Objectives:    []types.Objective{types.ObjectiveMultiply},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 95},
		{Token: "USDC", Percentage: 5},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)

	var found bool
	for _, flag := range diag.Flags {
		if flag.Category == types.CategoryAsset && flag.Severity == 0 && flag.Type == types.FlagYellow {
			found = true
		}
	}
	assert.True(t, found, "expected an informational BTC concentration flag")
}

// Five even non-meme positions land in the ideal 4-8 count band.
func TestDiagnosticIdealAssetCount(t *testing.T) {
	engine := newTestEngine(t, Config{})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectiveMultiply},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 20},
		{Token: "ETH", Percentage: 20},
		{Token: "SOL", Percentage: 20},
		{Token: "LINK", Percentage: 20},
		{Token: "AVAX", Percentage: 20},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)

	var found bool
	for _, flag := range diag.Flags {
		if flag.Type == types.FlagGreen && flag.Category == types.CategoryAsset && flag.Severity == 0 &&
			flag.Message == "You hold 5 positions, a manageable and meaningful spread." {
			found = true
		}
	}
	assert.True(t, found, "expected a green asset-count flag")
}

// A failing market data provider degrades enrichment instead of failing the
// diagnostic.
func TestDiagnosticSurvivesProviderFailure(t *testing.T) {
	engine := newTestEngine(t, Config{
		MarketData: stubMarketData{err: errors.New("provider down")},
		History:    stubHistory{err: errors.New("provider down")},
	})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectivePreserve},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 60},
		{Token: "USDC", Percentage: 40},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)
	for _, entry := range diag.Allocation {
		assert.Nil(t, entry.TokenData)
	}
	assert.Empty(t, diag.Backtest)
	assert.Greater(t, diag.Score.Total, 0.0)
}

func TestDiagnosticEnrichmentAndBacktest(t *testing.T) {
	engine := newTestEngine(t, Config{
		MarketData: stubMarketData{data: map[string]types.TokenData{
			"BTC":  {Symbol: "BTC", PriceUSD: 60000, MarketCapUSD: 1e12, Volume24hUSD: 3e10, LiquidityScore: 0.03},
			"LINK": {Symbol: "LINK", PriceUSD: 15, MarketCapUSD: 1e9, FullyDilutedValuation: 5e9, Volume24hUSD: 4e8, LiquidityScore: 0.4},
		}},
		History: stubHistory{growthPct: map[string]float64{
			"BTC":  0.1,
			"LINK": 0.2,
			"USDC": 0,
		}},
	})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectiveMultiply},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 50},
		{Token: "LINK", Percentage: 30},
		{Token: "USDC", Percentage: 20},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)

	// Enrichment attached and the FDV rule fired on LINK.
	var fdvFlag bool
	for _, flag := range diag.Flags {
		if flag.Category == types.CategoryFDVMcap {
			fdvFlag = true
		}
	}
	assert.True(t, fdvFlag)

	// All three windows computed, portfolio beats flat.
	require.Len(t, diag.Backtest, 3)
	for _, result := range diag.Backtest {
		assert.Greater(t, result.PortfolioReturn, 0.0)
		assert.Contains(t, result.TokenReturns, "BTC")
		assert.Contains(t, result.BenchmarkReturns, "BTC")
	}
	assert.NotEmpty(t, diag.BacktestSeries)

	assert.Greater(t, diag.Metrics.Liquidity, 0.0)
	assert.Equal(t, 20.0, diag.Metrics.StablecoinPercentage)
}

func TestDiagnosticUnlockAlerts(t *testing.T) {
	soon := time.Now().UTC().AddDate(0, 0, 14)
	engine := newTestEngine(t, Config{
		Unlocks: stubUnlocks{events: map[string][]types.UnlockEvent{
			"LINK": {
				{Token: "LINK", UnlockDate: soon, Amount: 5e6, Percentage: 6.5},
				{Token: "LINK", UnlockDate: soon.AddDate(0, 0, 7), Amount: 1e6, Percentage: 1.2},
			},
		}},
	})
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectiveMultiply},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 60},
		{Token: "LINK", Percentage: 40},
	}

	diag, err := engine.GenerateDiagnostic(context.Background(), profile, allocation)
	require.NoError(t, err)

	require.Len(t, diag.UnlockAlerts, 2)
	assert.Equal(t, types.FlagRed, diag.UnlockAlerts[0].Severity)
	assert.Equal(t, types.FlagYellow, diag.UnlockAlerts[1].Severity)
	assert.True(t, diag.UnlockAlerts[0].UnlockDate.Before(diag.UnlockAlerts[1].UnlockDate))
}

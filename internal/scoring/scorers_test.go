package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioscope/folioscope/internal/config"
	"github.com/folioscope/folioscope/internal/types"
)

// balancedInput is a long-horizon moderate preservation portfolio:
// BTC 40, ETH 25, SOL 10, stables 15, one top-20 altcoin 10.
func balancedInput() types.PortfolioInput {
	return types.PortfolioInput{
		Horizon:    types.HorizonLong,
		Risk:       types.RiskMedium,
		Objectives: []types.Objective{types.ObjectivePreserve},
		Assets: types.AssetBreakdown{
			BTC: 40, ETH: 25, SOL: 10, Stables: 15, Top20Alt: 10,
		},
		NumAssets:        5,
		SectorIndex:      0.8,
		StakeablePercent: 35,
	}
}

func TestScoreHorizon(t *testing.T) {
	// BES 75 against the long-horizon target 80 with slope 0.8.
	got, err := ScoreHorizon(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 96.0, got)
}

func TestScoreRisk(t *testing.T) {
	// BSC 55 against the moderate target 50 with slope 1.0.
	got, err := ScoreRisk(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 95.0, got)
}

func TestScoreDiversificationModerate(t *testing.T) {
	// Core 90 vs target 60 (slope 0.8) and 5 assets vs ideal 7 (slope 2).
	got, err := ScoreDiversification(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 72.0, got)
}

func TestScoreDiversificationConservative(t *testing.T) {
	input := balancedInput()
	input.Risk = types.RiskLow
	input.Assets = types.AssetBreakdown{BTC: 50, ETH: 20, SOL: 10, Stables: 20}
	input.SectorIndex = 0.6

	// 100 - |100-80|*1.0 - 30*0.6 = 62.
	got, err := ScoreDiversification(input, config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 62.0, got)
}

func TestScoreDiversificationAggressive(t *testing.T) {
	input := balancedInput()
	input.Risk = types.RiskHigh
	input.Assets = types.AssetBreakdown{BTC: 20, Stables: 10, DeFi: 40, MemeSmall: 15, Other: 15}
	input.NumAssets = 10
	input.SectorIndex = 1.0

	// Core exactly on target, ideal count, full sector bonus: 60 + 40 = 100.
	got, err := ScoreDiversification(input, config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestScoreObjectivePreserve(t *testing.T) {
	// BESS 90 vs target 80, no speculative exposure.
	got, err := ScoreObjective(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 90.0, got)
}

func TestScoreObjectiveMultiply(t *testing.T) {
	input := balancedInput()
	input.Objectives = []types.Objective{types.ObjectiveMultiply}
	input.Assets = types.AssetBreakdown{BTC: 20, Stables: 10, DeFi: 50, MemeSmall: 20}

	// Meme/smallcap 20 vs target 60, BESS drag 30 at 0.5/pct: 100-40-15 = 45.
	got, err := ScoreObjective(input, config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 45.0, got)
}

func TestScoreObjectiveMultiplyAllBTC(t *testing.T) {
	// BESS 100, no meme/smallcap: 100 - 60 - 50 floors at zero.
	input := balancedInput()
	input.Objectives = []types.Objective{types.ObjectiveMultiply}
	input.Assets = types.AssetBreakdown{BTC: 100}

	got, err := ScoreObjective(input, config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestScoreObjectivePreserveIgnoresOtherBucket(t *testing.T) {
	// Only the memecoin/smallcap share is penalized; unclassified tokens
	// already cost BESS deviation and are not double-counted.
	input := balancedInput()
	input.Assets = types.AssetBreakdown{BTC: 80, Other: 20}

	got, err := ScoreObjective(input, config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestScoreObjectiveMultiSelectAverages(t *testing.T) {
	input := balancedInput()
	input.Objectives = []types.Objective{types.ObjectivePreserve, types.ObjectivePassiveIncome}

	preserveOnly := balancedInput()
	incomeOnly := balancedInput()
	incomeOnly.Objectives = []types.Objective{types.ObjectivePassiveIncome}

	p, err := ScoreObjective(preserveOnly, config.DefaultScoringTables)
	require.NoError(t, err)
	i, err := ScoreObjective(incomeOnly, config.DefaultScoringTables)
	require.NoError(t, err)
	both, err := ScoreObjective(input, config.DefaultScoringTables)
	require.NoError(t, err)

	assert.InDelta(t, (p+i)/2, both, 0.01)
}

func TestScoreObjectiveEmptyFails(t *testing.T) {
	input := balancedInput()
	input.Objectives = nil
	_, err := ScoreObjective(input, config.DefaultScoringTables)
	assert.Error(t, err)
}

func TestScorePortfolioTotal(t *testing.T) {
	report, err := ScorePortfolio(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)

	assert.Equal(t, 96.0, report.Subscores.Horizon)
	assert.Equal(t, 95.0, report.Subscores.Risk)
	assert.Equal(t, 72.0, report.Subscores.Diversification)
	assert.Equal(t, 90.0, report.Subscores.Objective)
	// Weighted by {0.20, 0.25, 0.25, 0.15}, divided by the 0.85 weight sum.
	assert.Equal(t, 87.59, report.Total)
	assert.NotEmpty(t, report.Messages)
}

func TestScorePortfolioDeterministic(t *testing.T) {
	first, err := ScorePortfolio(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)
	second, err := ScorePortfolio(balancedInput(), config.DefaultScoringTables)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScorePortfolioBounds(t *testing.T) {
	breakdowns := []types.AssetBreakdown{
		{BTC: 100},
		{Stables: 100},
		{MemeSmall: 100},
		{BTC: 25, ETH: 25, SOL: 25, Stables: 25},
		{Other: 100},
	}
	for _, horizon := range []types.Horizon{types.HorizonShort, types.HorizonMedium, types.HorizonLong} {
		for _, risk := range []types.RiskTolerance{types.RiskLow, types.RiskMedium, types.RiskHigh} {
			for _, objective := range []types.Objective{types.ObjectivePreserve, types.ObjectivePassiveIncome, types.ObjectiveMultiply} {
				for _, assets := range breakdowns {
					input := types.PortfolioInput{
						Horizon:    horizon,
						Risk:       risk,
						Objectives: []types.Objective{objective},
						Assets:     assets,
						NumAssets:  4,
					}
					report, err := ScorePortfolio(input, config.DefaultScoringTables)
					require.NoError(t, err)
					assert.GreaterOrEqual(t, report.Total, 0.0)
					assert.LessOrEqual(t, report.Total, 100.0)
					for _, sub := range []float64{report.Subscores.Horizon, report.Subscores.Risk, report.Subscores.Diversification, report.Subscores.Objective} {
						assert.GreaterOrEqual(t, sub, 0.0)
						assert.LessOrEqual(t, sub, 100.0)
					}
				}
			}
		}
	}
}

func TestScoreRiskMonotoneTowardTarget(t *testing.T) {
	// Moving BSC toward the moderate target 50 must not lower the score.
	input := balancedInput()
	previous := -1.0
	for _, stables := range []float64{0, 15, 30} {
		input.Assets = types.AssetBreakdown{BTC: 20, ETH: 25, SOL: 10, Stables: stables, Other: 45 - stables}
		got, err := ScoreRisk(input, config.DefaultScoringTables)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, previous)
		previous = got
	}
}

func TestScoreHorizonMonotoneTowardTarget(t *testing.T) {
	// Moving BES toward the long-horizon target must not lower the score.
	input := balancedInput()
	previous := -1.0
	for _, btc := range []float64{10, 25, 45} {
		input.Assets = types.AssetBreakdown{BTC: btc, ETH: 25, SOL: 10, Stables: 100 - btc - 35}
		got, err := ScoreHorizon(input, config.DefaultScoringTables)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got, previous)
		previous = got
	}
}

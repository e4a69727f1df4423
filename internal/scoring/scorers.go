/*

This file contains the four per-dimension scorers. Each one reduces the
allocation breakdown to a single aggregate, applies a linear penalty around
the profile's target from the scoring tables, and normalizes to 0-100.

The aggregates:
  - BES  = BTC + ETH + SOL (the majors base)
  - BSC  = BTC + stables (the defensive aggregate)
  - core = BTC + ETH + SOL + stables (alias BESS in the objective scorer)

*/

package scoring

import (
	"fmt"

	"github.com/folioscope/folioscope/internal/types"
)

// ScoreHorizon scores the allocation against the declared investment horizon.
// A short horizon rewards a light majors base (flexibility to exit), a long
// horizon rewards a heavy one (accumulation).
func ScoreHorizon(input types.PortfolioInput, tables types.ScoringTables) (float64, error) {
	target, ok := tables.Horizon[input.Horizon]
	if !ok {
		return 0, fmt.Errorf("no horizon target for %q", input.Horizon)
	}
	bes := input.Assets.BTC + input.Assets.ETH + input.Assets.SOL
	if !IsFinite(bes) {
		return 0, ErrInvalidNumeric
	}
	raw := 100 - AbsDiff(bes, target.TargetBES)*target.Slope
	return Normalize(raw)
}

// ScoreRisk scores the allocation against the declared risk tolerance using
// the defensive aggregate BSC. Low tolerance expects a high BSC, high
// tolerance a low one.
func ScoreRisk(input types.PortfolioInput, tables types.ScoringTables) (float64, error) {
	target, ok := tables.Risk[input.Risk]
	if !ok {
		return 0, fmt.Errorf("no risk target for %q", input.Risk)
	}
	bsc := input.Assets.BTC + input.Assets.Stables
	if !IsFinite(bsc) {
		return 0, ErrInvalidNumeric
	}
	raw := 100 - AbsDiff(bsc, target.TargetBSC)*target.Slope
	return Normalize(raw)
}

// ScoreDiversification scores spread quality. The formula branches per risk
// tier because diversification means different things to different profiles:
//
//   - low: core concentration is the point, so sector spread is penalized
//   - medium: core deviation and asset-count deviation from the ideal count
//   - high: same as medium but from a lower base, with a sector spread bonus
func ScoreDiversification(input types.PortfolioInput, tables types.ScoringTables) (float64, error) {
	target, ok := tables.Diversification[input.Risk]
	if !ok {
		return 0, fmt.Errorf("no diversification target for %q", input.Risk)
	}
	core := input.Assets.BTC + input.Assets.ETH + input.Assets.SOL + input.Assets.Stables
	if !IsFinite(core) || !IsFinite(input.SectorIndex) {
		return 0, ErrInvalidNumeric
	}

	raw := target.Base - AbsDiff(core, target.TargetCore)*target.CoreSlope

	switch input.Risk {
	case types.RiskLow:
		raw -= target.SectorPenaltyFactor * input.SectorIndex
	case types.RiskHigh:
		raw -= target.NumAssetsSlope * AbsDiff(float64(input.NumAssets), float64(target.NumAssetsIdeal))
		raw += target.SectorBonusFactor * input.SectorIndex
	default:
		raw -= target.NumAssetsSlope * AbsDiff(float64(input.NumAssets), float64(target.NumAssetsIdeal))
	}

	return Normalize(raw)
}

// ScoreObjective scores the allocation against the declared objectives. With
// multiple objectives the result is the arithmetic mean of the per-objective
// scores, so no single goal dominates.
func ScoreObjective(input types.PortfolioInput, tables types.ScoringTables) (float64, error) {
	if len(input.Objectives) == 0 {
		return 0, fmt.Errorf("no objectives provided")
	}
	var sum float64
	for _, objective := range input.Objectives {
		score, err := scoreSingleObjective(objective, input, tables)
		if err != nil {
			return 0, err
		}
		sum += score
	}
	return Normalize(sum / float64(len(input.Objectives)))
}

func scoreSingleObjective(objective types.Objective, input types.PortfolioInput, tables types.ScoringTables) (float64, error) {
	target, ok := tables.Objective[objective]
	if !ok {
		return 0, fmt.Errorf("no objective target for %q", objective)
	}
	bess := input.Assets.BTC + input.Assets.ETH + input.Assets.SOL + input.Assets.Stables
	highRisk := input.Assets.MemeSmall
	if !IsFinite(bess) || !IsFinite(highRisk) || !IsFinite(input.StakeablePercent) {
		return 0, ErrInvalidNumeric
	}

	var raw float64
	switch objective {
	case types.ObjectivePreserve:
		// Preservation wants a heavy BESS and punishes speculative exposure.
		raw = 100 - AbsDiff(bess, target.Target)*target.Slope - target.PenaltyPerPct*highRisk
	case types.ObjectivePassiveIncome:
		// Income wants yield-bearing positions and punishes idle speculation.
		raw = 100 - AbsDiff(input.StakeablePercent, target.Target)*target.Slope - target.PenaltyPerPct*highRisk
	case types.ObjectiveMultiply:
		// Multiplication wants speculative exposure and punishes defensive drag.
		raw = 100 - AbsDiff(highRisk, target.Target)*target.Slope - target.PenaltyPerPct*bess
	default:
		return 0, fmt.Errorf("no formula for objective %q", objective)
	}
	return Normalize(raw)
}

// ComputeSubscores runs all four dimension scorers and collects the results.
func ComputeSubscores(input types.PortfolioInput, tables types.ScoringTables) (types.Subscores, error) {
	var subscores types.Subscores
	var err error

	if subscores.Horizon, err = ScoreHorizon(input, tables); err != nil {
		return types.Subscores{}, fmt.Errorf("horizon subscore: %w", err)
	}
	if subscores.Risk, err = ScoreRisk(input, tables); err != nil {
		return types.Subscores{}, fmt.Errorf("risk subscore: %w", err)
	}
	if subscores.Diversification, err = ScoreDiversification(input, tables); err != nil {
		return types.Subscores{}, fmt.Errorf("diversification subscore: %w", err)
	}
	if subscores.Objective, err = ScoreObjective(input, tables); err != nil {
		return types.Subscores{}, fmt.Errorf("objective subscore: %w", err)
	}
	return subscores, nil
}

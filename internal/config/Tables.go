/*

This file contains the default scoring tables for the diagnostic engine.

The tables are pure data: per-dimension targets, slopes, and weights. Each
value encodes a piece of the allocation methodology, so change them only
deliberately and version the change through the state store.

*/

package config

import (
	"github.com/folioscope/folioscope/internal/types"
)

// DefaultScoringTables provides the baseline scoring tables. These values are
// used if no active tables are found in the database during initialization.
var DefaultScoringTables = types.ScoringTables{
	// Horizon targets use BES = BTC+ETH+SOL. Short horizons reward a lighter
	// majors base (flexibility to exit), long horizons reward a heavier one
	// (accumulation), with a linear penalty around the profile's ideal.
	Horizon: map[types.Horizon]types.HorizonTarget{
		types.HorizonShort:  {TargetBES: 20, Slope: 1.5},
		types.HorizonMedium: {TargetBES: 50, Slope: 1.0},
		types.HorizonLong:   {TargetBES: 80, Slope: 0.8},
	},

	// Risk targets use BSC = BTC+stables, the defensive aggregate.
	Risk: map[types.RiskTolerance]types.RiskTarget{
		types.RiskLow:    {TargetBSC: 80, Slope: 1.2},
		types.RiskMedium: {TargetBSC: 50, Slope: 1.0},
		types.RiskHigh:   {TargetBSC: 20, Slope: 1.5},
	},

	// Diversification uses core = BTC+ETH+SOL+stables. Each risk tier gets
	// its own formula: conservative penalizes sector spread, moderate
	// penalizes asset-count deviation from 7, aggressive rewards sector
	// spread from a lower base.
	Diversification: map[types.RiskTolerance]types.DiversificationTarget{
		types.RiskLow: {
			TargetCore: 80, CoreSlope: 1.0,
			SectorPenaltyFactor: 30,
			NumAssetsIdeal:      4, NumAssetsSlope: 0,
			Base: 100,
		},
		types.RiskMedium: {
			TargetCore: 60, CoreSlope: 0.8,
			NumAssetsIdeal: 7, NumAssetsSlope: 2,
			SectorPenaltyFactor: 0,
			Base:                100,
		},
		types.RiskHigh: {
			TargetCore: 30, CoreSlope: 1.0,
			NumAssetsIdeal: 10, NumAssetsSlope: 1.5,
			SectorBonusFactor: 40,
			Base:              60,
		},
	},

	// Objective targets. Preserve targets BESS = BTC+ETH+SOL+stables at 80
	// and penalizes the memecoin/smallcap share; income targets stakeable
	// percent at 50 with the same penalty base; multiply targets the
	// memecoin/smallcap share at 60 and penalizes BESS drag.
	Objective: map[types.Objective]types.ObjectiveTarget{
		types.ObjectivePreserve:      {Target: 80, Slope: 1.0, PenaltyPerPct: 0.8},
		types.ObjectivePassiveIncome: {Target: 50, Slope: 1.0, PenaltyPerPct: 0.5},
		types.ObjectiveMultiply:      {Target: 60, Slope: 1.0, PenaltyPerPct: 0.5},
	},

	// Weights intentionally sum to 0.85, not 1.0. A fifth good-practices
	// dimension (0.15) was planned but never wired in; the weighted average
	// divides by the actual weight sum, so totals still land in 0-100.
	Weights: types.ScoreWeights{
		Horizon:         0.20,
		Risk:            0.25,
		Diversification: 0.25,
		Objective:       0.15,
	},

	Thresholds: types.MessageThresholds{High: 85, Medium: 65, Low: 45},
}

// StablecoinRange is the recommended major-stablecoin band for a profile.
type StablecoinRange struct {
	Min float64
	Max float64
}

// MajorStablecoinRanges is the expected major-stablecoin band keyed by risk
// tolerance and whether passive income is among the objectives. Income
// objectives widen the upper bound because major stables are yield-eligible.
var MajorStablecoinRanges = map[types.RiskTolerance]map[bool]StablecoinRange{
	types.RiskLow: {
		true:  {Min: 10, Max: 50},
		false: {Min: 15, Max: 40},
	},
	types.RiskMedium: {
		true:  {Min: 10, Max: 30},
		false: {Min: 10, Max: 20},
	},
	types.RiskHigh: {
		true:  {Min: 5, Max: 25},
		false: {Min: 0, Max: 20},
	},
}

// MemecoinLimits is the maximum tolerated memecoin share per risk tier.
var MemecoinLimits = map[types.RiskTolerance]float64{
	types.RiskLow:    0,
	types.RiskMedium: 5,
	types.RiskHigh:   15,
}

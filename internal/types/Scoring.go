/*

This file contains the types for the portfolio scoring engine, and the tunable
tables that drive it. Different table versions can be persisted and activated
through the state store.

*/

package types

// AssetBreakdown is the allocation aggregated into disjoint semantic classes.
// The classes partition the portfolio: their percentages sum to the total
// allocation (100 for a valid portfolio).
type AssetBreakdown struct {
	BTC       float64 `json:"btc"`
	ETH       float64 `json:"eth"`
	SOL       float64 `json:"sol"`
	Stables   float64 `json:"stables"`    // all stablecoins, major and otherwise
	Top20Alt  float64 `json:"top20_alt"`  // altcoins outside BTC/ETH/SOL inside the top 20
	DeFi      float64 `json:"defi"`       // DeFi protocol tokens
	MemeSmall float64 `json:"meme_small"` // memecoins / small caps / high risk
	Other     float64 `json:"other"`
}

// PortfolioInput is everything the scoring engine needs for one run: the
// profile dimensions plus a normalized summary of the allocation.
type PortfolioInput struct {
	Horizon    Horizon
	Risk       RiskTolerance
	Objectives []Objective

	Assets    AssetBreakdown
	NumAssets int
	// SectorIndex is a 0..1 spread measure: 0 = everything in one sector,
	// 1 = well distributed.
	SectorIndex float64
	// StakeablePercent is the share of the portfolio in tokens with solid,
	// liquid staking yield (ETH/SOL/ATOM/AVAX and similar).
	StakeablePercent float64
}

// Subscores are the four per-dimension scores, each 0-100. They are derived
// values, recomputed fresh per request and never persisted.
type Subscores struct {
	Horizon         float64 `json:"horizon"`
	Risk            float64 `json:"risk"`
	Diversification float64 `json:"diversification"`
	Objective       float64 `json:"objective"`
}

// ScoreReport is the scoring engine output: the weighted total, the
// constituent subscores, and the per-dimension coaching messages.
type ScoreReport struct {
	Total     float64   `json:"total"` // 0-100
	Subscores Subscores `json:"subscores"`
	Messages  []string  `json:"messages"`
}

// HorizonTarget defines the ideal BTC+ETH+SOL aggregate (BES) for a horizon
// and the linear penalty slope around it.
type HorizonTarget struct {
	TargetBES float64 `json:"target_bes"`
	Slope     float64 `json:"slope"`
}

// RiskTarget defines the ideal BTC+stables aggregate (BSC) for a risk tier
// and the linear penalty slope around it.
type RiskTarget struct {
	TargetBSC float64 `json:"target_bsc"`
	Slope     float64 `json:"slope"`
}

// DiversificationTarget drives the per-risk-tier diversification formula.
// Not every field is used by every tier: the conservative branch uses the
// sector penalty, the aggressive branch uses the sector bonus and base.
type DiversificationTarget struct {
	TargetCore          float64 `json:"target_core"` // core = BTC+ETH+SOL+stables
	CoreSlope           float64 `json:"core_slope"`
	NumAssetsIdeal      int     `json:"num_assets_ideal"`
	NumAssetsSlope      float64 `json:"num_assets_slope"`
	SectorPenaltyFactor float64 `json:"sector_penalty_factor"`
	SectorBonusFactor   float64 `json:"sector_bonus_factor"`
	Base                float64 `json:"base"`
}

// ObjectiveTarget drives the per-objective formula. Target and Slope apply to
// the objective's primary aggregate (BESS, stakeable percent, or high-risk
// percent); PenaltyPerPct scales the contradiction penalty.
type ObjectiveTarget struct {
	Target        float64 `json:"target"`
	Slope         float64 `json:"slope"`
	PenaltyPerPct float64 `json:"penalty_per_pct"`
}

// ScoreWeights are the aggregation weights per dimension. They intentionally
// sum to 0.85, not 1.0: a fifth good-practices dimension was planned but never
// wired in, and the weighted average normalizes by the actual weight sum.
type ScoreWeights struct {
	Horizon         float64 `json:"horizon"`
	Risk            float64 `json:"risk"`
	Diversification float64 `json:"diversification"`
	Objective       float64 `json:"objective"`
}

// MessageThresholds bucket a subscore into high/medium/low coaching copy.
type MessageThresholds struct {
	High   float64 `json:"high"`
	Medium float64 `json:"medium"`
	Low    float64 `json:"low"`
}

// ScoringTables holds every tunable target, slope, and weight used by the
// scoring engine. Tables are static, versionable data with no logic; a set
// can be persisted and activated through the state store.
type ScoringTables struct {
	Horizon         map[Horizon]HorizonTarget               `json:"horizon"`
	Risk            map[RiskTolerance]RiskTarget            `json:"risk"`
	Diversification map[RiskTolerance]DiversificationTarget `json:"diversification"`
	Objective       map[Objective]ObjectiveTarget           `json:"objective"`

	Weights    ScoreWeights      `json:"weights"`
	Thresholds MessageThresholds `json:"thresholds"`
}

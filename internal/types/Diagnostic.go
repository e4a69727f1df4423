/*

This file contains the diagnostic output types: flags, rebalance suggestions,
backtest results, and the aggregate PortfolioDiagnostic returned to callers.

*/

package types

import "time"

// FlagType classifies a diagnostic finding: red = critical, yellow = caution,
// green = positive.
type FlagType string

const (
	FlagRed    FlagType = "red"
	FlagYellow FlagType = "yellow"
	FlagGreen  FlagType = "green"
)

// FlagCategory groups flags by the rule family that produced them.
type FlagCategory string

const (
	CategoryAsset            FlagCategory = "asset"
	CategorySector           FlagCategory = "sector"
	CategoryLiquidity        FlagCategory = "liquidity"
	CategoryFDVMcap          FlagCategory = "fdv_mcap"
	CategoryUnlocks          FlagCategory = "unlocks"
	CategoryProfile          FlagCategory = "profile"
	CategoryOtherStablecoins FlagCategory = "other_stablecoins"
	CategoryCorrelation      FlagCategory = "correlation"
	CategoryObjective        FlagCategory = "objective"
)

// DiagnosticFlag is one severity-tagged qualitative finding about the
// portfolio. Flags are generated fresh per diagnostic run, sorted by
// descending severity, and never mutated after creation.
type DiagnosticFlag struct {
	Type       FlagType     `json:"type"`
	Category   FlagCategory `json:"category"`
	Message    string       `json:"message"`
	Actionable string       `json:"actionable,omitempty"`
	Severity   int          `json:"severity"` // 0-5, 5 = most severe
}

// AdherenceLevel buckets the adherence score into a qualitative verdict.
type AdherenceLevel string

const (
	AdherenceHigh   AdherenceLevel = "high"
	AdherenceMedium AdherenceLevel = "medium"
	AdherenceLow    AdherenceLevel = "low"
)

// RebalanceSuggestion proposes moving one token toward a target share.
type RebalanceSuggestion struct {
	Token               string  `json:"token"`
	CurrentPercentage   float64 `json:"currentPercentage"`
	SuggestedPercentage float64 `json:"suggestedPercentage"`
	Reason              string  `json:"reason"`
}

// UnlockAlert is an upcoming unlock event mapped into the diagnostic
// vocabulary: red when the release exceeds 5% of supply, yellow otherwise.
type UnlockAlert struct {
	Token      string    `json:"token"`
	UnlockDate time.Time `json:"unlockDate"`
	Percentage float64   `json:"percentage"`
	Amount     float64   `json:"amount"`
	Severity   FlagType  `json:"severity"`
}

// BacktestResult is the aggregate historical return of the portfolio over one
// window, against a BTC benchmark.
type BacktestResult struct {
	Period           string             `json:"period"` // "30d", "90d", "180d"
	PortfolioReturn  float64            `json:"portfolioReturn"`
	TokenReturns     map[string]float64 `json:"tokenReturns"`
	BenchmarkReturns map[string]float64 `json:"benchmarkReturns"`
}

// BacktestPoint is one day of the normalized performance series: percentage
// change from the common base date for the portfolio and for BTC.
type BacktestPoint struct {
	Date      string  `json:"date"` // ISO date
	Portfolio float64 `json:"portfolio"`
	BTC       float64 `json:"btc"`
}

// PortfolioMetrics are informational aggregates shown alongside the verdict.
type PortfolioMetrics struct {
	Volatility           float64 `json:"volatility"`
	Liquidity            float64 `json:"liquidity"`
	StablecoinPercentage float64 `json:"stablecoinPercentage"`
	DiversificationScore float64 `json:"diversificationScore"`
}

// PortfolioDiagnostic is the aggregate output of one diagnostic run. It is
// fully derived and recomputed per request; callers may cache it externally.
type PortfolioDiagnostic struct {
	Profile         InvestorProfile       `json:"profile"`
	Allocation      Allocation            `json:"allocation"`
	AdherenceScore  float64               `json:"adherenceScore"`
	AdherenceLevel  AdherenceLevel        `json:"adherenceLevel"`
	Flags           []DiagnosticFlag      `json:"flags"`
	Score           ScoreReport           `json:"score"`
	Backtest        []BacktestResult      `json:"backtest"`
	BacktestSeries  []BacktestPoint       `json:"backtestSeries,omitempty"`
	UnlockAlerts    []UnlockAlert         `json:"unlockAlerts"`
	Rebalance       []RebalanceSuggestion `json:"rebalanceSuggestions"`
	SectorBreakdown map[string]float64    `json:"sectorBreakdown"`
	Metrics         PortfolioMetrics      `json:"metrics"`
	GeneratedAt     time.Time             `json:"generatedAt"`
}

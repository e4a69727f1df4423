/*

This file contains the informational portfolio metrics. They ride along with
the diagnostic for display and never feed back into the score.

*/

package diagnostic

import (
	"context"
	"math"
	"strings"

	"github.com/folioscope/folioscope/internal/analyzer"
	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/types"
)

// Fallback volatility assumptions used when no price history is available.
const (
	assumedMajorVolatility = 0.7
	assumedAltVolatility   = 0.9
	volatilityWindowDays   = 90
)

// computeMetrics builds the informational aggregates. Volatility prefers real
// price history per token and falls back to class-level assumptions when a
// series cannot be fetched. Stablecoins count as zero volatility.
func (e *Engine) computeMetrics(ctx context.Context, allocation types.Allocation, summary classifier.Summary) types.PortfolioMetrics {
	var metrics types.PortfolioMetrics

	var weightedVol, weightedLiq, liqWeight float64
	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		weight := entry.Percentage / 100

		vol := assumedAltVolatility
		switch {
		case classifier.IsStablecoin(symbol):
			vol = 0
		case classifier.IsMajor(symbol):
			vol = assumedMajorVolatility
		}
		if e.history != nil && !classifier.IsStablecoin(symbol) {
			if series, err := e.history.DailySeries(ctx, symbol, volatilityWindowDays); err == nil {
				if computed, err := analyzer.CalculateVolatility(series, analyzer.AnnualizationDaily); err == nil && !math.IsNaN(computed) {
					vol = computed
				}
			}
		}
		weightedVol += vol * weight

		if entry.TokenData != nil && entry.TokenData.LiquidityScore > 0 {
			weightedLiq += entry.TokenData.LiquidityScore * weight
			liqWeight += weight
		}
	}

	metrics.Volatility = weightedVol
	if liqWeight > 0 {
		metrics.Liquidity = weightedLiq / liqWeight
	}
	metrics.StablecoinPercentage = summary.MajorStablePercent + summary.OtherStablePercent

	// A cheap 0-100 spread indicator from distinct sector count, capped.
	metrics.DiversificationScore = math.Min(float64(len(summary.SectorBreakdown))*20, 100)

	return metrics
}

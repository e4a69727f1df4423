/*

This file contains the rebalance suggestion builder. Suggestions are derived
from the same findings the flags report, translated into concrete target
percentages. They are advisory only; nothing in the system acts on them.

*/

package diagnostic

import (
	"fmt"
	"math"
	"strings"

	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/config"
	"github.com/folioscope/folioscope/internal/types"
)

// BuildRebalanceSuggestions turns the most actionable findings into concrete
// target moves. At most one suggestion per token, in allocation order.
func BuildRebalanceSuggestions(profile types.InvestorProfile, allocation types.Allocation, summary classifier.Summary, flags []types.DiagnosticFlag) []types.RebalanceSuggestion {
	var suggestions []types.RebalanceSuggestion
	suggested := make(map[string]bool)

	// Oversized single positions outside BTC/ETH get trimmed to 30%.
	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if symbol == "BTC" || symbol == "ETH" {
			continue
		}
		if entry.Percentage >= 40 && !suggested[symbol] {
			suggestions = append(suggestions, types.RebalanceSuggestion{
				Token:               symbol,
				CurrentPercentage:   entry.Percentage,
				SuggestedPercentage: math.Min(30, entry.Percentage),
				Reason:              "Single position outside BTC/ETH dominates the portfolio",
			})
			suggested[symbol] = true
		}
	}

	// Memecoins above the profile limit get trimmed to the limit.
	limit := config.MemecoinLimits[profile.RiskTolerance]
	if summary.MemePercent > limit {
		for _, entry := range allocation {
			symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
			if !classifier.IsMemecoin(symbol) || suggested[symbol] {
				continue
			}
			target := 0.0
			if summary.MemePercent > 0 && limit > 0 {
				target = entry.Percentage / summary.MemePercent * limit
			}
			suggestions = append(suggestions, types.RebalanceSuggestion{
				Token:               symbol,
				CurrentPercentage:   entry.Percentage,
				SuggestedPercentage: target,
				Reason:              fmt.Sprintf("Memecoin exposure exceeds the %.0f%% tolerated for your risk profile", limit),
			})
			suggested[symbol] = true
		}
	}

	// A major-stablecoin shortfall becomes a raise-to-minimum suggestion on
	// the largest existing stablecoin position, or on USDC if there is none.
	band := config.MajorStablecoinRanges[profile.RiskTolerance][profile.HasObjective(types.ObjectivePassiveIncome)]
	if summary.MajorStablePercent < band.Min {
		token := "USDC"
		current := 0.0
		for _, entry := range allocation {
			symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
			if classifier.IsMajorStablecoin(symbol) && entry.Percentage > current {
				token = symbol
				current = entry.Percentage
			}
		}
		if !suggested[token] {
			shortfall := band.Min - summary.MajorStablePercent
			suggestions = append(suggestions, types.RebalanceSuggestion{
				Token:               token,
				CurrentPercentage:   current,
				SuggestedPercentage: current + shortfall,
				Reason:              fmt.Sprintf("Major stablecoin share is below the %.0f%% minimum for your profile", band.Min),
			})
			suggested[token] = true
		}
	}

	// Non-major stablecoins get migrated to zero.
	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if !classifier.IsOtherStablecoin(symbol) || suggested[symbol] {
			continue
		}
		suggestions = append(suggestions, types.RebalanceSuggestion{
			Token:               symbol,
			CurrentPercentage:   entry.Percentage,
			SuggestedPercentage: 0,
			Reason:              "Non-major stablecoin carries depeg risk, migrate to USDC/USDT/DAI",
		})
		suggested[symbol] = true
	}

	return suggestions
}

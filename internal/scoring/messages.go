/*

This file contains the coaching copy attached to a score report. Messages are
picked per dimension from the threshold buckets, plus a few combination
messages that only make sense when two dimensions disagree.

*/

package scoring

import (
	"github.com/folioscope/folioscope/internal/types"
)

type messageBucket struct {
	high   string
	medium string
	low    string
	floor  string
}

var horizonMessages = messageBucket{
	high:   "Your allocation fits your investment horizon well.",
	medium: "Your allocation mostly fits your horizon, with room to tighten the majors base.",
	low:    "Your majors base does not match your declared horizon. Consider adjusting BTC/ETH/SOL exposure.",
	floor:  "Your allocation strongly contradicts your investment horizon.",
}

var riskMessages = messageBucket{
	high:   "Your defensive allocation matches your risk tolerance.",
	medium: "Your defensive allocation is close to your risk tolerance, but could be rebalanced.",
	low:    "Your BTC and stablecoin share does not match your risk tolerance.",
	floor:  "Your portfolio carries far more (or less) risk than you declared you can tolerate.",
}

var diversificationMessages = messageBucket{
	high:   "Your portfolio is well diversified for your profile.",
	medium: "Your diversification is acceptable, but the spread could better fit your profile.",
	low:    "Your portfolio is poorly diversified for your profile.",
	floor:  "Your portfolio is dangerously concentrated for your profile.",
}

var objectiveMessages = messageBucket{
	high:   "Your allocation supports your stated objectives.",
	medium: "Your allocation partly supports your objectives.",
	low:    "Your allocation works against your stated objectives.",
	floor:  "Your allocation fundamentally contradicts your stated objectives.",
}

func pickMessage(score float64, bucket messageBucket, thresholds types.MessageThresholds) string {
	switch {
	case score >= thresholds.High:
		return bucket.high
	case score >= thresholds.Medium:
		return bucket.medium
	case score >= thresholds.Low:
		return bucket.low
	default:
		return bucket.floor
	}
}

// BuildMessages produces the coaching messages for a set of subscores: one
// per dimension, in a fixed order, plus combination messages where two
// dimensions disagree sharply.
func BuildMessages(subscores types.Subscores, thresholds types.MessageThresholds) []string {
	messages := []string{
		pickMessage(subscores.Horizon, horizonMessages, thresholds),
		pickMessage(subscores.Risk, riskMessages, thresholds),
		pickMessage(subscores.Diversification, diversificationMessages, thresholds),
		pickMessage(subscores.Objective, objectiveMessages, thresholds),
	}

	// Combination messages fire only on sharp disagreement between dimensions.
	if subscores.Horizon >= thresholds.High && subscores.Risk < thresholds.Low {
		messages = append(messages, "Your horizon fit is good but your risk exposure undermines it. Rebalancing toward your risk tolerance would protect your long-term plan.")
	}
	if subscores.Risk >= thresholds.High && subscores.Objective < thresholds.Low {
		messages = append(messages, "Your risk exposure is appropriate but your allocation does not serve your objectives. Revisit which assets are doing the work.")
	}
	if subscores.Diversification < thresholds.Low && subscores.Objective >= thresholds.High {
		messages = append(messages, "Your objectives are served, but by too few positions. Concentration puts the whole plan on a handful of outcomes.")
	}
	if subscores.Horizon < thresholds.Low && subscores.Objective < thresholds.Low {
		messages = append(messages, "Both your horizon and your objectives are poorly served. Consider restructuring the portfolio around your profile rather than adjusting individual positions.")
	}

	return messages
}

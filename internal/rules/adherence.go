/*

This file contains the adherence score: a single 0-100 number summarizing how
severely the generated flags deviate from the declared profile. It is purely
a function of the flag list, so re-running it on the same flags always gives
the same score.

*/

package rules

import (
	"github.com/folioscope/folioscope/internal/types"
)

// severityPenalties maps a flag severity to its score deduction. Green flags
// carry severity 0 and deduct nothing.
var severityPenalties = map[int]float64{
	5: 25,
	4: 15,
	3: 12,
	2: 8,
	1: 3,
	0: 0,
}

// ComputeAdherence starts from 100 and deducts the penalty of every flag,
// clamped to [0, 100].
func ComputeAdherence(flags []types.DiagnosticFlag) float64 {
	score := 100.0
	for _, flag := range flags {
		score -= severityPenalties[flag.Severity]
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// AdherenceLevelFor buckets an adherence score into its qualitative verdict.
func AdherenceLevelFor(score float64) types.AdherenceLevel {
	switch {
	case score >= 80:
		return types.AdherenceHigh
	case score >= 60:
		return types.AdherenceMedium
	default:
		return types.AdherenceLow
	}
}

/*

This file contains the scoring engine entrypoint. Scoring is a pure function
of the portfolio input and the scoring tables: same inputs, same report, no
I/O and no clock.

*/

package scoring

import (
	"fmt"

	"github.com/folioscope/folioscope/internal/types"
)

// ScorePortfolio computes the full score report for one portfolio input.
//
// Inputs:
//   - input: the profile dimensions plus the summarized allocation
//   - tables: the active scoring tables (targets, slopes, weights)
//
// Output: the weighted total (0-100), the four subscores, and the coaching
// messages, or an error if any table entry is missing or a calculation
// produces a non-finite value.
func ScorePortfolio(input types.PortfolioInput, tables types.ScoringTables) (types.ScoreReport, error) {
	subscores, err := ComputeSubscores(input, tables)
	if err != nil {
		return types.ScoreReport{}, err
	}

	total, err := WeightedAverage(
		[]float64{subscores.Horizon, subscores.Risk, subscores.Diversification, subscores.Objective},
		[]float64{tables.Weights.Horizon, tables.Weights.Risk, tables.Weights.Diversification, tables.Weights.Objective},
	)
	if err != nil {
		return types.ScoreReport{}, fmt.Errorf("total score: %w", err)
	}
	total, err = Normalize(total)
	if err != nil {
		return types.ScoreReport{}, fmt.Errorf("total score: %w", err)
	}

	return types.ScoreReport{
		Total:     total,
		Subscores: subscores,
		Messages:  BuildMessages(subscores, tables.Thresholds),
	}, nil
}

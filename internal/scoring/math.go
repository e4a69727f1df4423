/*

This file contains the small numeric helpers shared by every scorer. They are
deliberately strict about NaN and Inf: a poisoned float anywhere in the
pipeline must surface as an error, never as a silently wrong score.

*/

package scoring

import (
	"errors"
	"math"
)

var (
	// ErrInvalidNumeric indicates a NaN or Inf slipped into a calculation.
	ErrInvalidNumeric = errors.New("invalid numeric value (NaN or Inf)")
)

// IsFinite reports whether v is a usable float (not NaN, not Inf).
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// AbsDiff returns |a - b|.
func AbsDiff(a, b float64) float64 {
	return math.Abs(a - b)
}

// Normalize rounds a raw score to two decimal places and clamps it to
// [0, 100]. Rounding happens before clamping so a raw -0.004 becomes 0.00
// rather than an off-by-epsilon positive value.
func Normalize(raw float64) (float64, error) {
	if !IsFinite(raw) {
		return 0, ErrInvalidNumeric
	}
	rounded := math.Round(raw*100) / 100
	return Clamp(rounded, 0, 100), nil
}

// WeightedAverage computes sum(v_i * w_i) / sum(w_i). The divisor is the
// actual weight sum, so weight vectors that do not sum to 1.0 still produce
// values on the same scale as the inputs.
//
// Inputs:
//   - values: the per-dimension scores
//   - weights: the matching weights, same length
//
// Output: the weighted mean, or an error on NaN/Inf input or mismatched
// lengths. A zero weight sum is a documented degenerate input, not an
// error: the result is 0.
func WeightedAverage(values, weights []float64) (float64, error) {
	if len(values) != len(weights) {
		return 0, errors.New("values and weights length mismatch")
	}
	var weightedSum, weightSum float64
	for i := range values {
		if !IsFinite(values[i]) || !IsFinite(weights[i]) {
			return 0, ErrInvalidNumeric
		}
		weightedSum += values[i] * weights[i]
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return 0, nil
	}
	return weightedSum / weightSum, nil
}

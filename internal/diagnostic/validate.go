/*

This file contains the request validation. Validation is fail-fast and
reports the first violation found, as a typed ValidationError the web layer
maps to a 400.

*/

package diagnostic

import (
	"fmt"
	"math"
	"strings"

	"github.com/folioscope/folioscope/internal/types"
)

// allocationSumTolerance is how far the percentage sum may drift from 100
// before the allocation is rejected.
const allocationSumTolerance = 0.1

// ValidateRequest checks a profile and allocation before any work is done on
// them. It returns a *types.ValidationError describing the first problem, or
// nil when the request is acceptable.
func ValidateRequest(profile types.InvestorProfile, allocation types.Allocation) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	return validateAllocation(allocation)
}

func validateProfile(profile types.InvestorProfile) error {
	switch profile.Horizon {
	case types.HorizonShort, types.HorizonMedium, types.HorizonLong:
	default:
		return types.NewValidationError("horizon", "unknown value %q", profile.Horizon)
	}

	switch profile.RiskTolerance {
	case types.RiskLow, types.RiskMedium, types.RiskHigh:
	default:
		return types.NewValidationError("riskTolerance", "unknown value %q", profile.RiskTolerance)
	}

	if len(profile.Objectives) == 0 {
		return types.NewValidationError("objective", "at least one objective is required")
	}
	for _, objective := range profile.Objectives {
		switch objective {
		case types.ObjectivePreserve, types.ObjectivePassiveIncome, types.ObjectiveMultiply:
		default:
			return types.NewValidationError("objective", "unknown value %q", objective)
		}
	}

	if math.IsNaN(profile.CryptoPercentage) || math.IsInf(profile.CryptoPercentage, 0) {
		return types.NewValidationError("cryptoPercentage", "must be a finite number")
	}
	if profile.CryptoPercentage < 0 || profile.CryptoPercentage > 100 {
		return types.NewValidationError("cryptoPercentage", "must be between 0 and 100")
	}
	return nil
}

func validateAllocation(allocation types.Allocation) error {
	if len(allocation) == 0 {
		return types.NewValidationError("allocation", "must contain at least one entry")
	}

	seen := make(map[string]bool, len(allocation))
	for i, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if symbol == "" {
			return types.NewValidationError(fmt.Sprintf("allocation[%d].token", i), "must not be empty")
		}
		if seen[symbol] {
			return types.NewValidationError(fmt.Sprintf("allocation[%d].token", i), "duplicate ticker %s", symbol)
		}
		seen[symbol] = true

		if math.IsNaN(entry.Percentage) || math.IsInf(entry.Percentage, 0) {
			return types.NewValidationError(fmt.Sprintf("allocation[%d].percentage", i), "must be a finite number")
		}
		if entry.Percentage < 0 || entry.Percentage > 100 {
			return types.NewValidationError(fmt.Sprintf("allocation[%d].percentage", i), "must be between 0 and 100")
		}
	}

	total := allocation.TotalPercentage()
	if math.Abs(total-100) > allocationSumTolerance {
		return types.NewValidationError("allocation", "percentages sum to %.2f, expected 100", total)
	}
	return nil
}

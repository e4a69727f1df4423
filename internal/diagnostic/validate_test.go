package diagnostic

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioscope/folioscope/internal/types"
)

func validProfile() types.InvestorProfile {
	return types.InvestorProfile{
		Horizon:          types.HorizonLong,
		RiskTolerance:    types.RiskMedium,
		CryptoPercentage: 25,
		Objectives:       []types.Objective{types.ObjectivePreserve},
	}
}

func validAllocation() types.Allocation {
	return types.Allocation{
		{Token: "BTC", Percentage: 60},
		{Token: "ETH", Percentage: 25},
		{Token: "USDC", Percentage: 15},
	}
}

func requireValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var validationErr *types.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected a ValidationError, got %v", err)
	assert.Equal(t, field, validationErr.Field)
}

func TestValidateRequestAccepts(t *testing.T) {
	assert.NoError(t, ValidateRequest(validProfile(), validAllocation()))
}

func TestValidateRequestToleratesSmallSumDrift(t *testing.T) {
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 60.05},
		{Token: "ETH", Percentage: 25},
		{Token: "USDC", Percentage: 15},
	}
	assert.NoError(t, ValidateRequest(validProfile(), allocation))
}

func TestValidateRequestRejectsBadSum(t *testing.T) {
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 60},
		{Token: "ETH", Percentage: 25},
		{Token: "USDC", Percentage: 14.5},
	}
	requireValidationError(t, ValidateRequest(validProfile(), allocation), "allocation")
}

func TestValidateRequestRejectsEmptyAllocation(t *testing.T) {
	requireValidationError(t, ValidateRequest(validProfile(), nil), "allocation")
}

func TestValidateRequestRejectsDuplicateTickers(t *testing.T) {
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 50},
		{Token: "btc ", Percentage: 50},
	}
	requireValidationError(t, ValidateRequest(validProfile(), allocation), "allocation[1].token")
}

func TestValidateRequestRejectsBadPercentages(t *testing.T) {
	allocation := types.Allocation{
		{Token: "BTC", Percentage: -5},
		{Token: "ETH", Percentage: 105},
	}
	requireValidationError(t, ValidateRequest(validProfile(), allocation), "allocation[0].percentage")

	allocation = types.Allocation{
		{Token: "BTC", Percentage: 120},
	}
	requireValidationError(t, ValidateRequest(validProfile(), allocation), "allocation[0].percentage")
}

func TestValidateRequestAcceptsZeroPercentEntries(t *testing.T) {
	// A 0% line is a valid no-op position, not an error.
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 40},
		{Token: "ETH", Percentage: 25},
		{Token: "SOL", Percentage: 10},
		{Token: "USDC", Percentage: 15},
		{Token: "FRAX", Percentage: 0},
		{Token: "LINK", Percentage: 10},
	}
	assert.NoError(t, ValidateRequest(validProfile(), allocation))
}

func TestValidateRequestRejectsBadProfile(t *testing.T) {
	profile := validProfile()
	profile.Horizon = "decades"
	requireValidationError(t, ValidateRequest(profile, validAllocation()), "horizon")

	profile = validProfile()
	profile.RiskTolerance = "yolo"
	requireValidationError(t, ValidateRequest(profile, validAllocation()), "riskTolerance")

	profile = validProfile()
	profile.Objectives = nil
	requireValidationError(t, ValidateRequest(profile, validAllocation()), "objective")

	profile = validProfile()
	profile.Objectives = []types.Objective{"get_rich"}
	requireValidationError(t, ValidateRequest(profile, validAllocation()), "objective")

	profile = validProfile()
	profile.CryptoPercentage = 101
	requireValidationError(t, ValidateRequest(profile, validAllocation()), "cryptoPercentage")
}

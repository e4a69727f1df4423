package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/types"
)

func TestRebalanceTrimsDominantPositionOutsideBTCETH(t *testing.T) {
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectivePreserve},
	}
	allocation := types.Allocation{
		{Token: "SOL", Percentage: 45},
		{Token: "BTC", Percentage: 30},
		{Token: "USDC", Percentage: 25},
	}
	summary := classifier.Summarize(allocation, classifier.NewStatic())

	suggestions := BuildRebalanceSuggestions(profile, allocation, summary, nil)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "SOL", suggestions[0].Token)
	assert.Equal(t, 45.0, suggestions[0].CurrentPercentage)
	assert.Equal(t, 30.0, suggestions[0].SuggestedPercentage)
}

func TestRebalanceExemptsBTCAndETHFromConcentrationTrim(t *testing.T) {
	profile := types.InvestorProfile{
		Horizon:       types.HorizonLong,
		RiskTolerance: types.RiskMedium,
		Objectives:    []types.Objective{types.ObjectivePreserve},
	}
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 60},
		{Token: "ETH", Percentage: 25},
		{Token: "USDC", Percentage: 15},
	}
	summary := classifier.Summarize(allocation, classifier.NewStatic())

	assert.Empty(t, BuildRebalanceSuggestions(profile, allocation, summary, nil))
}

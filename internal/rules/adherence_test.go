package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folioscope/folioscope/internal/types"
)

func flagsWithSeverities(severities ...int) []types.DiagnosticFlag {
	flags := make([]types.DiagnosticFlag, len(severities))
	for i, severity := range severities {
		flags[i] = types.DiagnosticFlag{Type: types.FlagYellow, Severity: severity}
	}
	return flags
}

func TestComputeAdherence(t *testing.T) {
	assert.Equal(t, 100.0, ComputeAdherence(nil))

	// 100 - 25 - 15 - 12 - 8 - 3 = 37.
	assert.Equal(t, 37.0, ComputeAdherence(flagsWithSeverities(5, 4, 3, 2, 1)))

	// Green informational flags deduct nothing.
	assert.Equal(t, 100.0, ComputeAdherence(flagsWithSeverities(0, 0, 0)))
}

func TestComputeAdherenceClampsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, ComputeAdherence(flagsWithSeverities(5, 5, 5, 5, 5)))
}

func TestAdherenceLevelFor(t *testing.T) {
	assert.Equal(t, types.AdherenceHigh, AdherenceLevelFor(100))
	assert.Equal(t, types.AdherenceHigh, AdherenceLevelFor(80))
	assert.Equal(t, types.AdherenceMedium, AdherenceLevelFor(79.9))
	assert.Equal(t, types.AdherenceMedium, AdherenceLevelFor(60))
	assert.Equal(t, types.AdherenceLow, AdherenceLevelFor(59.9))
	assert.Equal(t, types.AdherenceLow, AdherenceLevelFor(0))
}

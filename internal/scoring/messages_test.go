package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/folioscope/folioscope/internal/config"
	"github.com/folioscope/folioscope/internal/types"
)

func TestBuildMessagesOnePerDimension(t *testing.T) {
	subscores := types.Subscores{Horizon: 96, Risk: 95, Diversification: 72, Objective: 90}
	messages := BuildMessages(subscores, config.DefaultScoringTables.Thresholds)

	assert.Len(t, messages, 4)
	assert.Equal(t, horizonMessages.high, messages[0])
	assert.Equal(t, riskMessages.high, messages[1])
	assert.Equal(t, diversificationMessages.medium, messages[2])
	assert.Equal(t, objectiveMessages.high, messages[3])
}

func TestBuildMessagesFloorBucket(t *testing.T) {
	subscores := types.Subscores{Horizon: 10, Risk: 50, Diversification: 70, Objective: 44.9}
	messages := BuildMessages(subscores, config.DefaultScoringTables.Thresholds)

	assert.Equal(t, horizonMessages.floor, messages[0])
	assert.Equal(t, riskMessages.low, messages[1])
	assert.Equal(t, objectiveMessages.floor, messages[3])
}

func TestBuildMessagesCombos(t *testing.T) {
	// Good horizon fit undermined by bad risk exposure adds a fifth message.
	subscores := types.Subscores{Horizon: 90, Risk: 30, Diversification: 70, Objective: 70}
	messages := BuildMessages(subscores, config.DefaultScoringTables.Thresholds)
	assert.Len(t, messages, 5)

	// Both horizon and objective failing adds its own combination message.
	subscores = types.Subscores{Horizon: 20, Risk: 70, Diversification: 70, Objective: 20}
	messages = BuildMessages(subscores, config.DefaultScoringTables.Thresholds)
	assert.Len(t, messages, 5)
}

package classifier

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folioscope/folioscope/internal/types"
)

func TestSectorIsTotal(t *testing.T) {
	static := NewStatic()
	assert.Equal(t, "Store of Value", static.Sector("BTC"))
	assert.Equal(t, "Store of Value", static.Sector(" btc "))
	assert.Equal(t, DefaultSector, static.Sector("NOSUCHTOKEN"))
	assert.Equal(t, DefaultSector, static.Sector(""))
}

func TestClassPredicates(t *testing.T) {
	assert.True(t, IsMajor("btc"))
	assert.False(t, IsMajor("DOGE"))
	assert.True(t, IsMajorStablecoin("USDC"))
	assert.False(t, IsMajorStablecoin("FRAX"))
	assert.True(t, IsOtherStablecoin("FRAX"))
	assert.True(t, IsStablecoin("USDT"))
	assert.True(t, IsStablecoin("FRAX"))
	assert.True(t, IsMemecoin("WIF"))
	assert.True(t, IsStakeable("ETH"))
	assert.False(t, IsStakeable("BTC"))
}

func TestSectorOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sectors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("newtoken: AI\nbtc: Digital Gold\n"), 0o644))

	static, err := NewStaticFromFile(path)
	require.NoError(t, err)

	// Overrides win over built-ins and are case-insensitive on symbols.
	assert.Equal(t, "Digital Gold", static.Sector("BTC"))
	assert.Equal(t, "AI", static.Sector("NEWTOKEN"))
	assert.Equal(t, "Smart Contract Platform", static.Sector("ETH"))
}

func TestSectorOverridesMissingFile(t *testing.T) {
	_, err := NewStaticFromFile("/nonexistent/sectors.yaml")
	assert.Error(t, err)
}

func TestSummarizeDisjointBreakdown(t *testing.T) {
	allocation := types.Allocation{
		{Token: "BTC", Percentage: 30},
		{Token: "ETH", Percentage: 20},
		{Token: "SOL", Percentage: 10},
		{Token: "USDC", Percentage: 10},
		{Token: "FRAX", Percentage: 5},
		{Token: "LINK", Percentage: 10},
		{Token: "UNI", Percentage: 5},
		{Token: "DOGE", Percentage: 5},
		{Token: "NOSUCHTOKEN", Percentage: 5},
	}
	summary := Summarize(allocation, NewStatic())

	b := summary.Breakdown
	assert.Equal(t, 30.0, b.BTC)
	assert.Equal(t, 20.0, b.ETH)
	assert.Equal(t, 10.0, b.SOL)
	assert.Equal(t, 15.0, b.Stables)
	assert.Equal(t, 10.0, b.Top20Alt)
	assert.Equal(t, 5.0, b.DeFi)
	assert.Equal(t, 5.0, b.MemeSmall)
	assert.Equal(t, 5.0, b.Other)

	// The classes partition the allocation.
	total := b.BTC + b.ETH + b.SOL + b.Stables + b.Top20Alt + b.DeFi + b.MemeSmall + b.Other
	assert.InDelta(t, 100.0, total, 1e-9)

	assert.Equal(t, 9, summary.NumAssets)
	assert.Equal(t, 60.0, summary.MajorsPercent)
	assert.Equal(t, 10.0, summary.MajorStablePercent)
	assert.Equal(t, 5.0, summary.OtherStablePercent)
	assert.Equal(t, 5.0, summary.MemePercent)
	assert.Equal(t, 30.0, summary.StakeablePercent)
	assert.Equal(t, 40.0, summary.YieldEligiblePercent)
}

func TestSummarizeSectorIndex(t *testing.T) {
	// Two sectors out of the five needed to saturate.
	summary := Summarize(types.Allocation{
		{Token: "BTC", Percentage: 50},
		{Token: "ETH", Percentage: 50},
	}, NewStatic())
	assert.InDelta(t, 0.4, summary.SectorIndex, 1e-9)

	// Six distinct sectors saturate at 1.
	summary = Summarize(types.Allocation{
		{Token: "BTC", Percentage: 30},
		{Token: "ETH", Percentage: 20},
		{Token: "USDC", Percentage: 20},
		{Token: "LINK", Percentage: 10},
		{Token: "UNI", Percentage: 10},
		{Token: "ARB", Percentage: 10},
	}, NewStatic())
	assert.Equal(t, 1.0, summary.SectorIndex)
}

func TestSortedSectors(t *testing.T) {
	breakdown := map[string]float64{"DeFi": 20, "Stablecoin": 30, "Oracle": 20, "Store of Value": 30}
	names := SortedSectors(breakdown)
	// Descending by share, alphabetical within ties.
	assert.Equal(t, []string{"Stablecoin", "Store of Value", "DeFi", "Oracle"}, names)
}

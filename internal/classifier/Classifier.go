/*

This file contains the sector/class classifier and the allocation summarizer
that turns a raw allocation into the aggregates the scoring engine and flag
generator consume.

*/

package classifier

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/folioscope/folioscope/internal/logger"
	"github.com/folioscope/folioscope/internal/types"
)

var classifierLogger = logger.GetForComponent("classifier")

// SectorClassifier maps a token symbol to a sector name. Implementations must
// be deterministic and total: unknown symbols map to a default sector, never
// an error.
type SectorClassifier interface {
	Sector(symbol string) string
}

// Static is the built-in classifier backed by the package's lookup tables,
// optionally extended by a YAML override file.
type Static struct {
	sectorOverrides map[string]string
}

// NewStatic returns a classifier using only the built-in tables.
func NewStatic() *Static {
	return &Static{}
}

// NewStaticFromFile returns a classifier whose sector table is extended by a
// YAML file of symbol: sector pairs. Entries in the file win over built-ins.
func NewStaticFromFile(path string) (*Static, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sector table %s: %w", path, err)
	}
	overrides := make(map[string]string)
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse sector table %s: %w", path, err)
	}
	normalized := make(map[string]string, len(overrides))
	for symbol, sector := range overrides {
		normalized[strings.ToUpper(strings.TrimSpace(symbol))] = sector
	}
	classifierLogger.Info().
		Int("overrides", len(normalized)).
		Str("path", path).
		Msg("Loaded sector table overrides")
	return &Static{sectorOverrides: normalized}, nil
}

// Sector returns the sector for a symbol, falling back to DefaultSector for
// unknown tokens. It never fails, including for the empty string.
func (s *Static) Sector(symbol string) string {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	if s.sectorOverrides != nil {
		if sector, ok := s.sectorOverrides[key]; ok {
			return sector
		}
	}
	if sector, ok := sectorTable[key]; ok {
		return sector
	}
	return DefaultSector
}

// IsMajor reports whether the symbol is one of BTC/ETH/SOL.
func IsMajor(symbol string) bool {
	return majorCoins[strings.ToUpper(strings.TrimSpace(symbol))]
}

// IsMajorStablecoin reports whether the symbol is a low-structural-risk
// USD-pegged asset.
func IsMajorStablecoin(symbol string) bool {
	return majorStablecoins[strings.ToUpper(strings.TrimSpace(symbol))]
}

// IsOtherStablecoin reports whether the symbol is a stablecoin outside the
// major list (depeg/structural risk).
func IsOtherStablecoin(symbol string) bool {
	return otherStablecoins[strings.ToUpper(strings.TrimSpace(symbol))]
}

// IsStablecoin reports whether the symbol is any recognized stablecoin.
func IsStablecoin(symbol string) bool {
	return IsMajorStablecoin(symbol) || IsOtherStablecoin(symbol)
}

// IsMemecoin reports whether the symbol is a recognized memecoin.
func IsMemecoin(symbol string) bool {
	return memecoins[strings.ToUpper(strings.TrimSpace(symbol))]
}

// IsStakeable reports whether the symbol has solid, liquid staking yield.
func IsStakeable(symbol string) bool {
	return stakeableTokens[strings.ToUpper(strings.TrimSpace(symbol))]
}

// Summary aggregates one allocation into every derived percentage the scoring
// engine and flag generator need. All percentages are on the 0-100 scale of
// the submitted allocation.
type Summary struct {
	Breakdown types.AssetBreakdown
	NumAssets int

	MajorsPercent      float64 // BTC+ETH+SOL
	MajorStablePercent float64
	OtherStablePercent float64
	MemePercent        float64
	StakeablePercent   float64 // stakeable tokens, excluding stablecoins
	// YieldEligiblePercent is stakeable tokens plus major stablecoins, the
	// base for passive-income checks.
	YieldEligiblePercent float64

	SectorBreakdown map[string]float64
	// SectorIndex is a 0..1 spread measure estimated from the number of
	// distinct sectors, saturating at five.
	SectorIndex float64
}

// Summarize classifies every entry of the allocation and produces the derived
// aggregates. Classification is total: unknown tokens land in the Other class
// and sector and never produce an error.
func Summarize(allocation types.Allocation, sectors SectorClassifier) Summary {
	summary := Summary{
		NumAssets:       len(allocation),
		SectorBreakdown: make(map[string]float64),
	}

	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		pct := entry.Percentage

		sector := sectors.Sector(symbol)
		summary.SectorBreakdown[sector] += pct

		// Disjoint breakdown: first matching class wins.
		switch {
		case symbol == "BTC":
			summary.Breakdown.BTC += pct
		case symbol == "ETH":
			summary.Breakdown.ETH += pct
		case symbol == "SOL":
			summary.Breakdown.SOL += pct
		case IsStablecoin(symbol):
			summary.Breakdown.Stables += pct
		case IsMemecoin(symbol):
			summary.Breakdown.MemeSmall += pct
		case defiTokens[symbol]:
			summary.Breakdown.DeFi += pct
		case top20Altcoins[symbol]:
			summary.Breakdown.Top20Alt += pct
		default:
			summary.Breakdown.Other += pct
		}

		if IsMajor(symbol) {
			summary.MajorsPercent += pct
		}
		if IsMajorStablecoin(symbol) {
			summary.MajorStablePercent += pct
		}
		if IsOtherStablecoin(symbol) {
			summary.OtherStablePercent += pct
		}
		if IsMemecoin(symbol) {
			summary.MemePercent += pct
		}
		if IsStakeable(symbol) {
			summary.StakeablePercent += pct
		}
	}

	summary.YieldEligiblePercent = summary.StakeablePercent + summary.MajorStablePercent

	distinctSectors := len(summary.SectorBreakdown)
	summary.SectorIndex = float64(distinctSectors) / 5.0
	if summary.SectorIndex > 1 {
		summary.SectorIndex = 1
	}

	return summary
}

// SortedSectors returns the sector names of a breakdown in descending
// percentage order, ties broken alphabetically, for deterministic output.
func SortedSectors(breakdown map[string]float64) []string {
	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if breakdown[names[i]] != breakdown[names[j]] {
			return breakdown[names[i]] > breakdown[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

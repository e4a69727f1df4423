/*

This file contains the deterministic rule engine that turns a profile plus a
summarized allocation into severity-tagged flags. Every rule is a pure check:
no I/O, no clock, no randomness. Rules that need market metadata (FDV ratios,
liquidity) only fire when that metadata is present on the entry, so a
degraded data provider silently narrows the rule set instead of failing the
run.

*/

package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/folioscope/folioscope/internal/classifier"
	"github.com/folioscope/folioscope/internal/config"
	"github.com/folioscope/folioscope/internal/types"
)

// fdvMcapRatioLimit is the FDV to market cap ratio above which a token is
// flagged for heavy future dilution.
const fdvMcapRatioLimit = 3.0

// lowLiquidityThreshold is the volume/mcap ratio below which a position is
// flagged as hard to exit.
const lowLiquidityThreshold = 0.01

// GenerateFlags runs every rule against the profile and allocation and
// returns the flags sorted by descending severity (stable within equal
// severity, preserving rule order).
func GenerateFlags(profile types.InvestorProfile, allocation types.Allocation, summary classifier.Summary, sectors classifier.SectorClassifier) []types.DiagnosticFlag {
	var flags []types.DiagnosticFlag

	flags = append(flags, profileContradictionFlags(profile)...)
	flags = append(flags, btcDominanceFlags(profile, summary)...)
	flags = append(flags, majorStablecoinFlags(profile, summary)...)
	flags = append(flags, otherStablecoinFlags(summary)...)
	flags = append(flags, memecoinFlags(profile, summary)...)
	flags = append(flags, assetCountFlags(summary)...)
	flags = append(flags, majorsExposureFlags(profile, summary)...)
	flags = append(flags, perAssetConcentrationFlags(allocation)...)
	flags = append(flags, preserveObjectiveFlags(profile, summary)...)
	flags = append(flags, passiveIncomeFlags(profile, summary)...)
	flags = append(flags, sectorConcentrationFlags(allocation, sectors)...)
	flags = append(flags, enrichmentFlags(allocation)...)

	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].Severity > flags[j].Severity
	})
	return flags
}

// profileContradictionFlags catches questionnaire answers that contradict
// each other before the allocation is even looked at.
func profileContradictionFlags(profile types.InvestorProfile) []types.DiagnosticFlag {
	var flags []types.DiagnosticFlag
	if profile.RiskTolerance == types.RiskHigh && profile.Horizon == types.HorizonShort && profile.HasObjective(types.ObjectivePreserve) {
		flags = append(flags, types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryProfile,
			Message:    "You declared high risk tolerance on a short horizon while aiming to preserve capital. These pull in opposite directions.",
			Actionable: "Preservation on a short horizon rarely survives aggressive risk. Consider revisiting your risk answer.",
			Severity:   2,
		})
	}
	if profile.RiskTolerance == types.RiskLow && profile.Horizon == types.HorizonLong && profile.HasObjective(types.ObjectiveMultiply) {
		flags = append(flags, types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryProfile,
			Message:    "You declared low risk tolerance on a long horizon but selected capital multiplication as an objective.",
			Actionable: "Decide which matters more: multiplication requires volatility you said you cannot tolerate.",
			Severity:   2,
		})
	}
	return flags
}

// btcDominanceFlags handles near-total BTC portfolios. The verdict depends on
// the profile: for conservative investors it is a stablecoin buffer problem,
// for aggressive ones it is merely informational.
func btcDominanceFlags(profile types.InvestorProfile, summary classifier.Summary) []types.DiagnosticFlag {
	if summary.Breakdown.BTC <= 90 {
		return nil
	}
	if profile.RiskTolerance == types.RiskLow {
		advice := "Consider moving 10-15% into major stablecoins as a buffer."
		if profile.Horizon == types.HorizonLong {
			advice = "Consider moving 5-10% into major stablecoins as a buffer."
		}
		return []types.DiagnosticFlag{{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("BTC makes up %.1f%% of your portfolio with no defensive buffer.", summary.Breakdown.BTC),
			Actionable: advice,
			Severity:   1,
		}}
	}
	return []types.DiagnosticFlag{{
		Type:     types.FlagYellow,
		Category: types.CategoryAsset,
		Message:  fmt.Sprintf("BTC makes up %.1f%% of your portfolio. A single-asset portfolio is a deliberate choice; make sure it is yours.", summary.Breakdown.BTC),
		Severity: 0,
	}}
}

// majorStablecoinFlags checks the major-stablecoin share against the band
// expected for the profile.
func majorStablecoinFlags(profile types.InvestorProfile, summary classifier.Summary) []types.DiagnosticFlag {
	wantsIncome := profile.HasObjective(types.ObjectivePassiveIncome)
	band := config.MajorStablecoinRanges[profile.RiskTolerance][wantsIncome]
	pct := summary.MajorStablePercent

	switch {
	case pct < band.Min:
		deviation := band.Min - pct
		flag := types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("Your major stablecoin share is %.1f%%, below the %.0f-%.0f%% range recommended for your profile.", pct, band.Min, band.Max),
			Actionable: fmt.Sprintf("Consider raising major stablecoins (USDC, USDT, DAI) toward %.0f%%.", band.Min),
			Severity:   2,
		}
		if profile.RiskTolerance == types.RiskLow && (pct == 0 || deviation > 10) {
			flag.Type = types.FlagRed
			flag.Severity = 3
			flag.Message = fmt.Sprintf("Your major stablecoin share is %.1f%%, far below the %.0f-%.0f%% range a conservative profile needs.", pct, band.Min, band.Max)
		}
		return []types.DiagnosticFlag{flag}
	case pct > band.Max:
		return []types.DiagnosticFlag{{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("Your major stablecoin share is %.1f%%, above the %.0f-%.0f%% range recommended for your profile.", pct, band.Min, band.Max),
			Actionable: "Excess stablecoins are capital sitting out of the market. Consider deploying the surplus.",
			Severity:   1,
		}}
	case pct > 0:
		return []types.DiagnosticFlag{{
			Type:     types.FlagGreen,
			Category: types.CategoryAsset,
			Message:  fmt.Sprintf("Your major stablecoin share (%.1f%%) sits inside the recommended %.0f-%.0f%% range.", pct, band.Min, band.Max),
			Severity: 0,
		}}
	}
	return nil
}

// otherStablecoinFlags warns on stablecoins outside the major list, which
// carry depeg and structural risk regardless of profile.
func otherStablecoinFlags(summary classifier.Summary) []types.DiagnosticFlag {
	if summary.OtherStablePercent <= 0 {
		return nil
	}
	return []types.DiagnosticFlag{{
		Type:       types.FlagYellow,
		Category:   types.CategoryOtherStablecoins,
		Message:    fmt.Sprintf("%.1f%% of your portfolio is in non-major stablecoins, which carry depeg and structural risk.", summary.OtherStablePercent),
		Actionable: "Consider migrating to major stablecoins (USDC, USDT, DAI).",
		Severity:   2,
	}}
}

// memecoinFlags checks the memecoin share against the per-risk-tier limit.
func memecoinFlags(profile types.InvestorProfile, summary classifier.Summary) []types.DiagnosticFlag {
	limit := config.MemecoinLimits[profile.RiskTolerance]
	pct := summary.MemePercent

	if pct > limit {
		if limit == 0 || pct > 60 {
			return []types.DiagnosticFlag{{
				Type:       types.FlagRed,
				Category:   types.CategoryAsset,
				Message:    fmt.Sprintf("Memecoins make up %.1f%% of your portfolio, far beyond what your risk profile supports.", pct),
				Actionable: "Memecoin positions of this size can go to zero. Reduce them to a share you can afford to lose entirely.",
				Severity:   5,
			}}
		}
		return []types.DiagnosticFlag{{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("Memecoins make up %.1f%% of your portfolio, above the %.0f%% tolerated for your risk profile.", pct, limit),
			Actionable: fmt.Sprintf("Consider trimming memecoins below %.0f%%.", limit),
			Severity:   3,
		}}
	}
	if pct > 0 {
		return []types.DiagnosticFlag{{
			Type:     types.FlagGreen,
			Category: types.CategoryAsset,
			Message:  fmt.Sprintf("Your memecoin share (%.1f%%) stays within the limit for your risk profile.", pct),
			Severity: 0,
		}}
	}
	return nil
}

// assetCountFlags checks the raw position count. The 9-15 band is deliberate
// silence: defensible for many profiles, so neither praised nor flagged.
func assetCountFlags(summary classifier.Summary) []types.DiagnosticFlag {
	n := summary.NumAssets
	switch {
	case n > 15:
		return []types.DiagnosticFlag{{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("You hold %d positions. Beyond 15, most positions are too small to matter and too many to track.", n),
			Actionable: "Consider consolidating into your highest-conviction positions.",
			Severity:   2,
		}}
	case n <= 3:
		return []types.DiagnosticFlag{{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("You hold only %d position(s). Each one carries a large share of your outcome.", n),
			Actionable: "Consider spreading into at least 4-5 positions.",
			Severity:   2,
		}}
	case n >= 4 && n <= 8:
		return []types.DiagnosticFlag{{
			Type:     types.FlagGreen,
			Category: types.CategoryAsset,
			Message:  fmt.Sprintf("You hold %d positions, a manageable and meaningful spread.", n),
			Severity: 0,
		}}
	}
	return nil
}

// majorsExposureFlags checks the BTC+ETH+SOL base against the profile.
func majorsExposureFlags(profile types.InvestorProfile, summary classifier.Summary) []types.DiagnosticFlag {
	var flags []types.DiagnosticFlag
	if summary.MajorsPercent < 40 {
		flag := types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryAsset,
			Message:    fmt.Sprintf("Majors (BTC/ETH/SOL) make up only %.1f%% of your portfolio.", summary.MajorsPercent),
			Actionable: "A thin majors base leaves the portfolio built on higher-risk assets. Consider raising it toward 40%.",
			Severity:   2,
		}
		if profile.RiskTolerance == types.RiskLow {
			flag.Type = types.FlagRed
			flag.Severity = 3
		}
		flags = append(flags, flag)
	}
	if profile.HasObjective(types.ObjectiveMultiply) && summary.MajorsPercent >= 80 && profile.RiskTolerance != types.RiskLow {
		flags = append(flags, types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryObjective,
			Message:    fmt.Sprintf("Majors make up %.1f%% of your portfolio, but your objective is capital multiplication.", summary.MajorsPercent),
			Actionable: "Majors rarely multiply. Consider whether a small growth sleeve fits your risk tolerance.",
			Severity:   1,
		})
	}
	return flags
}

// perAssetConcentrationFlags checks single-position concentration for every
// position outside majors and major stablecoins.
func perAssetConcentrationFlags(allocation types.Allocation) []types.DiagnosticFlag {
	var flags []types.DiagnosticFlag
	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if classifier.IsMajor(symbol) || classifier.IsMajorStablecoin(symbol) {
			continue
		}
		switch {
		case entry.Percentage >= 40:
			flags = append(flags, types.DiagnosticFlag{
				Type:       types.FlagRed,
				Category:   types.CategoryAsset,
				Message:    fmt.Sprintf("%s alone is %.1f%% of your portfolio.", symbol, entry.Percentage),
				Actionable: fmt.Sprintf("A single non-major position this large dominates your outcome. Consider reducing %s below 20%%.", symbol),
				Severity:   4,
			})
		case entry.Percentage >= 20:
			flags = append(flags, types.DiagnosticFlag{
				Type:       types.FlagYellow,
				Category:   types.CategoryAsset,
				Message:    fmt.Sprintf("%s is %.1f%% of your portfolio, a heavy single non-major position.", symbol, entry.Percentage),
				Actionable: fmt.Sprintf("Consider trimming %s or pairing it with uncorrelated positions.", symbol),
				Severity:   2,
			})
		}
	}
	return flags
}

// preserveObjectiveFlags enforces the hard constraints of a preservation
// objective: no memecoins, and a majority majors-plus-stables base.
func preserveObjectiveFlags(profile types.InvestorProfile, summary classifier.Summary) []types.DiagnosticFlag {
	if !profile.HasObjective(types.ObjectivePreserve) {
		return nil
	}
	var flags []types.DiagnosticFlag
	if summary.MemePercent > 0 {
		flags = append(flags, types.DiagnosticFlag{
			Type:       types.FlagRed,
			Category:   types.CategoryObjective,
			Message:    fmt.Sprintf("You hold %.1f%% in memecoins while your objective is capital preservation.", summary.MemePercent),
			Actionable: "Memecoins and preservation are incompatible. Exit the memecoin positions or change the objective.",
			Severity:   4,
		})
	}
	if summary.MajorsPercent < 50 {
		flags = append(flags, types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryObjective,
			Message:    fmt.Sprintf("Majors make up only %.1f%% of your portfolio, a thin base for a preservation objective.", summary.MajorsPercent),
			Actionable: "Preservation portfolios lean on BTC/ETH/SOL and major stablecoins. Consider raising majors above 50%.",
			Severity:   2,
		})
	}
	return flags
}

// passiveIncomeFlags checks whether the portfolio can actually produce yield
// when passive income is among the objectives.
func passiveIncomeFlags(profile types.InvestorProfile, summary classifier.Summary) []types.DiagnosticFlag {
	if !profile.HasObjective(types.ObjectivePassiveIncome) {
		return nil
	}
	var flags []types.DiagnosticFlag
	if summary.Breakdown.BTC > 40 {
		flags = append(flags, types.DiagnosticFlag{
			Type:     types.FlagYellow,
			Category: types.CategoryObjective,
			Message:  fmt.Sprintf("BTC is %.1f%% of your portfolio. BTC itself produces no native yield.", summary.Breakdown.BTC),
			Severity: 0,
		})
	}
	switch {
	case summary.YieldEligiblePercent < 50:
		flags = append(flags, types.DiagnosticFlag{
			Type:       types.FlagYellow,
			Category:   types.CategoryObjective,
			Message:    fmt.Sprintf("Only %.1f%% of your portfolio can produce yield, but passive income is one of your objectives.", summary.YieldEligiblePercent),
			Actionable: "Consider shifting toward stakeable assets (ETH, SOL, ATOM) or major stablecoins.",
			Severity:   2,
		})
	case summary.YieldEligiblePercent >= 70:
		flags = append(flags, types.DiagnosticFlag{
			Type:     types.FlagGreen,
			Category: types.CategoryObjective,
			Message:  fmt.Sprintf("%.1f%% of your portfolio is yield-eligible, well aligned with your passive income objective.", summary.YieldEligiblePercent),
			Severity: 0,
		})
	}
	return flags
}

// sectorConcentrationFlags checks whether the altcoin sleeve is piled into a
// single sector. It only applies when there is a real sleeve to judge: more
// than 10% in altcoins across at least three distinct positions. Smaller or
// narrower sleeves are already covered by the per-asset checks.
func sectorConcentrationFlags(allocation types.Allocation, sectors classifier.SectorClassifier) []types.DiagnosticFlag {
	altcoinTotal := 0.0
	altcoinPositions := 0
	sectorShares := make(map[string]float64)
	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if classifier.IsMajor(symbol) || classifier.IsStablecoin(symbol) {
			continue
		}
		altcoinTotal += entry.Percentage
		altcoinPositions++
		sectorShares[sectors.Sector(symbol)] += entry.Percentage
	}
	if altcoinTotal <= 10 || altcoinPositions < 3 {
		return nil
	}

	topSector := ""
	topShare := 0.0
	for sector, share := range sectorShares {
		if share > topShare || (share == topShare && sector < topSector) {
			topSector = sector
			topShare = share
		}
	}

	ratio := topShare / altcoinTotal * 100
	switch {
	case ratio >= 40:
		return []types.DiagnosticFlag{{
			Type:       types.FlagRed,
			Category:   types.CategorySector,
			Message:    fmt.Sprintf("%.0f%% of your altcoin sleeve sits in a single sector (%s).", ratio, topSector),
			Actionable: fmt.Sprintf("Sector-level shocks would hit most of your altcoins at once. Consider diversifying out of %s.", topSector),
			Severity:   3,
		}}
	case ratio >= 30:
		return []types.DiagnosticFlag{{
			Type:       types.FlagYellow,
			Category:   types.CategorySector,
			Message:    fmt.Sprintf("%.0f%% of your altcoin sleeve sits in %s.", ratio, topSector),
			Actionable: "Consider spreading the altcoin sleeve over more sectors.",
			Severity:   2,
		}}
	}
	return nil
}

// enrichmentFlags are the market-data dependent rules. They only fire for
// entries whose TokenData was successfully fetched.
func enrichmentFlags(allocation types.Allocation) []types.DiagnosticFlag {
	var flags []types.DiagnosticFlag
	for _, entry := range allocation {
		data := entry.TokenData
		if data == nil {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if classifier.IsStablecoin(symbol) {
			continue
		}

		if data.MarketCapUSD > 0 && data.FullyDilutedValuation > 0 {
			ratio := data.FullyDilutedValuation / data.MarketCapUSD
			if ratio > fdvMcapRatioLimit {
				flag := types.DiagnosticFlag{
					Type:       types.FlagYellow,
					Category:   types.CategoryFDVMcap,
					Message:    fmt.Sprintf("%s has an FDV %.1fx its market cap. Most of its supply has yet to hit the market.", symbol, ratio),
					Actionable: fmt.Sprintf("Expect persistent sell pressure from unlocks on %s.", symbol),
					Severity:   2,
				}
				if entry.Percentage >= 20 {
					flag.Type = types.FlagRed
					flag.Severity = 3
				}
				flags = append(flags, flag)
			}
		}

		if data.LiquidityScore > 0 && data.LiquidityScore < lowLiquidityThreshold {
			flags = append(flags, types.DiagnosticFlag{
				Type:       types.FlagYellow,
				Category:   types.CategoryLiquidity,
				Message:    fmt.Sprintf("%s trades less than 1%% of its market cap per day. Exiting a position this illiquid moves the price against you.", symbol),
				Actionable: fmt.Sprintf("Size %s so you could exit in a single day's volume.", symbol),
				Severity:   2,
			})
		}
	}
	return flags
}

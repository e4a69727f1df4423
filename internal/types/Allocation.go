/*

This is a custom type for portfolio allocations which contains all the state
needed for classifying and scoring a user-submitted portfolio.

*/

package types

import (
	"strings"
	"time"
)

// AllocationEntry is one line of the user's portfolio: a ticker and its share
// of the total, in percent. Tickers are treated case-insensitively and must be
// unique within an allocation.
type AllocationEntry struct {
	Token      string     `json:"token"`
	Percentage float64    `json:"percentage"` // 0-100
	TokenData  *TokenData `json:"tokenData,omitempty"`
}

// Allocation is the full submitted portfolio. The percentages of a valid
// allocation sum to 100 within a 0.1 tolerance.
type Allocation []AllocationEntry

// TotalPercentage sums the percentages of all entries.
func (a Allocation) TotalPercentage() float64 {
	var total float64
	for _, entry := range a {
		total += entry.Percentage
	}
	return total
}

// Symbols returns the uppercased tickers in entry order.
func (a Allocation) Symbols() []string {
	symbols := make([]string, 0, len(a))
	for _, entry := range a {
		symbols = append(symbols, strings.ToUpper(entry.Token))
	}
	return symbols
}

// TokenData holds market metadata for a single token. It is fetched from an
// external provider and used only for informational metrics and enrichment
// flags, never for the core scoring logic.
type TokenData struct {
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	PriceUSD              float64 `json:"price_usd"`
	MarketCapUSD          float64 `json:"market_cap_usd"`
	FullyDilutedValuation float64 `json:"fully_diluted_valuation,omitempty"`
	CirculatingSupply     float64 `json:"circulating_supply,omitempty"`
	TotalSupply           float64 `json:"total_supply,omitempty"`
	Volume24hUSD          float64 `json:"volume_24h_usd,omitempty"`
	// LiquidityScore is the 24h volume to market cap ratio, a cheap liquidity proxy.
	LiquidityScore float64 `json:"liquidity_score,omitempty"`
}

// PricePoint holds one point of a historical price series.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}

// UnlockEvent is a scheduled release of vested tokens into circulating
// supply, as reported by an external unlock schedule provider.
type UnlockEvent struct {
	Token      string    `json:"token"`
	UnlockDate time.Time `json:"unlock_date"`
	Amount     float64   `json:"amount"`
	Percentage float64   `json:"percentage"` // % of total supply released
}

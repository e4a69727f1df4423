/*

This file contains the static classification data: token class sets and the
sector lookup table.

If a token has no entry here it falls back to the "Other" sector and the
default (non-major, non-stable, non-yield) class. Because odds are that is
what it is. But for best practices try to keep this up to date.

*/

package classifier

// DefaultSector is returned for any symbol the table does not know.
const DefaultSector = "Other"

// StablecoinSector groups all USD-pegged assets in the sector breakdown.
const StablecoinSector = "Stablecoin"

var majorCoins = map[string]bool{
	"BTC": true, "ETH": true, "SOL": true,
}

// Major stablecoins are USD-pegged assets considered low structural risk.
var majorStablecoins = map[string]bool{
	"USDC": true, "USDT": true, "DAI": true, "PYUSD": true,
}

// Other stablecoins carry depeg or structural risk and are flagged on any
// exposure, regardless of size.
var otherStablecoins = map[string]bool{
	"USDE": true, "FRAX": true, "LUSD": true, "MIM": true,
	"USDD": true, "TUSD": true, "FDUSD": true, "BUSD": true,
}

var memecoins = map[string]bool{
	"DOGE": true, "SHIB": true, "PEPE": true, "FLOKI": true,
	"BONK": true, "WIF": true, "BOME": true, "MEME": true,
	"POPCAT": true, "MOG": true, "BRETT": true, "TURBO": true,
}

// Stakeable tokens have solid, liquid native staking yield.
var stakeableTokens = map[string]bool{
	"ETH": true, "SOL": true, "ATOM": true, "AVAX": true,
	"DOT": true, "NEAR": true, "ADA": true, "POL": true, "MATIC": true,
	"TIA": true, "SUI": true, "APT": true, "INJ": true, "OSMO": true,
}

// Top-20-by-cap altcoins outside BTC/ETH/SOL, for the disjoint breakdown.
var top20Altcoins = map[string]bool{
	"XRP": true, "BNB": true, "ADA": true, "AVAX": true, "LINK": true,
	"DOT": true, "TON": true, "TRX": true, "LTC": true, "NEAR": true,
	"SUI": true, "APT": true, "XLM": true, "BCH": true, "HBAR": true,
}

var defiTokens = map[string]bool{
	"UNI": true, "AAVE": true, "CRV": true, "LDO": true, "MKR": true,
	"COMP": true, "SNX": true, "SUSHI": true, "PENDLE": true, "GMX": true,
	"DYDX": true, "JUP": true, "RAY": true, "CAKE": true,
}

var sectorTable = map[string]string{
	"BTC": "Store of Value",

	"ETH": "Smart Contract Platform", "SOL": "Smart Contract Platform",
	"ADA": "Smart Contract Platform", "AVAX": "Smart Contract Platform",
	"DOT": "Smart Contract Platform", "NEAR": "Smart Contract Platform",
	"ATOM": "Smart Contract Platform", "TON": "Smart Contract Platform",
	"TRX": "Smart Contract Platform", "SUI": "Smart Contract Platform",
	"APT": "Smart Contract Platform", "INJ": "Smart Contract Platform",
	"TIA": "Smart Contract Platform", "OSMO": "Smart Contract Platform",
	"BNB": "Smart Contract Platform", "HBAR": "Smart Contract Platform",

	"USDC": StablecoinSector, "USDT": StablecoinSector,
	"DAI": StablecoinSector, "PYUSD": StablecoinSector,
	"USDE": StablecoinSector, "FRAX": StablecoinSector,
	"LUSD": StablecoinSector, "MIM": StablecoinSector,
	"USDD": StablecoinSector, "TUSD": StablecoinSector,
	"FDUSD": StablecoinSector, "BUSD": StablecoinSector,

	"ARB": "Layer 2", "OP": "Layer 2", "MNT": "Layer 2",
	"STRK": "Layer 2", "POL": "Layer 2", "MATIC": "Layer 2",

	"UNI": "DeFi", "AAVE": "DeFi", "CRV": "DeFi", "LDO": "DeFi",
	"MKR": "DeFi", "COMP": "DeFi", "SNX": "DeFi", "SUSHI": "DeFi",
	"PENDLE": "DeFi", "GMX": "DeFi", "DYDX": "DeFi", "JUP": "DeFi",
	"RAY": "DeFi", "CAKE": "DeFi",

	"LINK": "Oracle", "PYTH": "Oracle", "GRT": "Oracle", "API3": "Oracle",

	"WLD": "AI", "FET": "AI", "AGIX": "AI", "RNDR": "AI", "TAO": "AI",

	"DOGE": "Memecoin", "SHIB": "Memecoin", "PEPE": "Memecoin",
	"FLOKI": "Memecoin", "BONK": "Memecoin", "WIF": "Memecoin",
	"BOME": "Memecoin", "MEME": "Memecoin", "POPCAT": "Memecoin",
	"MOG": "Memecoin", "BRETT": "Memecoin", "TURBO": "Memecoin",

	"XRP": "Payments", "XLM": "Payments", "LTC": "Payments", "BCH": "Payments",

	"IMX": "Gaming", "GALA": "Gaming", "SAND": "Gaming",
	"MANA": "Gaming", "AXS": "Gaming",

	"FIL": "Storage", "AR": "Storage",
}

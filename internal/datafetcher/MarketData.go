/*

This file contains the CoinGecko-backed market data and price history
provider. CoinGecko keys tokens by its own coin ids, so symbols go through a
static id map first. Tokens missing from the map are reported as not found
and the caller decides whether that degrades or fails the run.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/folioscope/folioscope/internal/logger"
	"github.com/folioscope/folioscope/internal/types"
)

var marketDataLogger = logger.GetForComponent("market_data")

// coinGeckoIDs maps ticker symbols to CoinGecko coin ids for the tokens the
// classifier knows about. Tokens outside this map get no enrichment data.
var coinGeckoIDs = map[string]string{
	"BTC": "bitcoin", "ETH": "ethereum", "SOL": "solana",
	"USDC": "usd-coin", "USDT": "tether", "DAI": "dai", "PYUSD": "paypal-usd",
	"USDE": "ethena-usde", "FRAX": "frax", "LUSD": "liquity-usd", "TUSD": "true-usd", "FDUSD": "first-digital-usd",
	"BNB": "binancecoin", "XRP": "ripple", "ADA": "cardano", "AVAX": "avalanche-2",
	"DOT": "polkadot", "LINK": "chainlink", "TON": "the-open-network", "TRX": "tron",
	"POL": "polygon-ecosystem-token", "MATIC": "matic-network", "NEAR": "near", "ATOM": "cosmos",
	"LTC": "litecoin", "BCH": "bitcoin-cash", "XLM": "stellar", "SUI": "sui", "APT": "aptos",
	"ARB": "arbitrum", "OP": "optimism", "TIA": "celestia", "INJ": "injective-protocol", "OSMO": "osmosis",
	"UNI": "uniswap", "AAVE": "aave", "MKR": "maker", "CRV": "curve-dao-token", "LDO": "lido-dao",
	"SNX": "havven", "COMP": "compound-governance-token", "SUSHI": "sushi", "PENDLE": "pendle",
	"DOGE": "dogecoin", "SHIB": "shiba-inu", "PEPE": "pepe", "FLOKI": "floki",
	"BONK": "bonk", "WIF": "dogwifcoin", "BOME": "book-of-meme", "POPCAT": "popcat",
	"MOG": "mog-coin", "BRETT": "based-brett", "TURBO": "turbo",
	"FIL": "filecoin", "RENDER": "render-token", "FET": "fetch-ai", "TAO": "bittensor",
}

// CoinGeckoClient implements MarketDataProvider and HistoryProvider against
// the CoinGecko REST API.
type CoinGeckoClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// NewCoinGeckoClient builds a client for the given base URL. An empty apiKey
// keeps requests on the free tier.
func NewCoinGeckoClient(baseURL, apiKey string) *CoinGeckoClient {
	return &CoinGeckoClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
	}
}

// CoinID resolves a ticker symbol to the provider's coin id.
func CoinID(symbol string) (string, bool) {
	id, ok := coinGeckoIDs[strings.ToUpper(strings.TrimSpace(symbol))]
	return id, ok
}

type coinGeckoMarketResponse struct {
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	MarketData struct {
		CurrentPrice          map[string]float64 `json:"current_price"`
		MarketCap             map[string]float64 `json:"market_cap"`
		FullyDilutedValuation map[string]float64 `json:"fully_diluted_valuation"`
		TotalVolume           map[string]float64 `json:"total_volume"`
		CirculatingSupply     float64            `json:"circulating_supply"`
		TotalSupply           float64            `json:"total_supply"`
	} `json:"market_data"`
}

// TokenData fetches current market metadata for one symbol.
func (c *CoinGeckoClient) TokenData(ctx context.Context, symbol string) (types.TokenData, error) {
	id, ok := CoinID(symbol)
	if !ok {
		return types.TokenData{}, fmt.Errorf("%w: %s", ErrTokenNotFound, symbol)
	}

	endpoint := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false", c.baseURL, id)
	var parsed coinGeckoMarketResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return types.TokenData{}, err
	}

	data := types.TokenData{
		Symbol:                strings.ToUpper(parsed.Symbol),
		Name:                  parsed.Name,
		PriceUSD:              parsed.MarketData.CurrentPrice["usd"],
		MarketCapUSD:          parsed.MarketData.MarketCap["usd"],
		FullyDilutedValuation: parsed.MarketData.FullyDilutedValuation["usd"],
		CirculatingSupply:     parsed.MarketData.CirculatingSupply,
		TotalSupply:           parsed.MarketData.TotalSupply,
		Volume24hUSD:          parsed.MarketData.TotalVolume["usd"],
	}
	if err := validateTokenData(data, symbol); err != nil {
		return types.TokenData{}, err
	}
	if data.MarketCapUSD > 0 {
		data.LiquidityScore = data.Volume24hUSD / data.MarketCapUSD
	}
	return data, nil
}

type coinGeckoChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// DailySeries fetches a daily close-price series covering days back from now.
func (c *CoinGeckoClient) DailySeries(ctx context.Context, symbol string, days int) ([]types.PricePoint, error) {
	id, ok := CoinID(symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTokenNotFound, symbol)
	}
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d&interval=daily", c.baseURL, id, days)
	var parsed coinGeckoChartResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, err
	}

	series := make([]types.PricePoint, 0, len(parsed.Prices))
	for _, pair := range parsed.Prices {
		price := pair[1]
		if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
			continue
		}
		series = append(series, types.PricePoint{
			Timestamp: time.UnixMilli(int64(pair[0])).UTC(),
			Price:     price,
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: empty price series for %s", ErrProviderUnavailable, symbol)
	}
	return series, nil
}

// getJSON performs a GET with retries and decodes the body into out. Retries
// use a simple doubling backoff and respect context cancellation.
func (c *CoinGeckoClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}

	var lastErr error
	backoff := 500 * time.Millisecond
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			marketDataLogger.Warn().
				Int("attempt", attempt).
				Str("endpoint", parsed.Path).
				Err(lastErr).
				Msg("Retrying market data request")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("x-cg-demo-api-key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			resp.Body.Close()
			return ErrTokenNotFound
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("unexpected status %d from market data provider", resp.StatusCode)
		}

		decodeErr := json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if decodeErr != nil {
			lastErr = fmt.Errorf("failed to decode response: %w", decodeErr)
			continue
		}
		return nil
	}
	return lastErr
}

// validateTokenData rejects responses with non-finite or negative financial
// fields. A provider bug must not leak garbage into the diagnostic.
func validateTokenData(data types.TokenData, symbol string) error {
	fields := map[string]float64{
		"price":      data.PriceUSD,
		"market_cap": data.MarketCapUSD,
		"fdv":        data.FullyDilutedValuation,
		"volume_24h": data.Volume24hUSD,
	}
	for name, value := range fields {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("invalid %s for %s: not finite", name, symbol)
		}
		if value < 0 {
			return fmt.Errorf("invalid %s for %s: negative", name, symbol)
		}
	}
	if data.PriceUSD == 0 {
		return fmt.Errorf("invalid price for %s: zero", symbol)
	}
	return nil
}

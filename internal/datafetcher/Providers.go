/*

This file contains the provider interfaces the diagnostic engine depends on.
Everything external lives behind one of these, so the engine and its tests
never touch the network directly.

*/

package datafetcher

import (
	"context"
	"errors"
	"time"

	"github.com/folioscope/folioscope/internal/types"
)

var ErrTokenNotFound = errors.New("token not found at provider")
var ErrProviderUnavailable = errors.New("market data provider unavailable")

// MarketDataProvider fetches current market metadata for a token symbol.
type MarketDataProvider interface {
	TokenData(ctx context.Context, symbol string) (types.TokenData, error)
}

// HistoryProvider fetches a daily close-price series for a token symbol
// covering the given number of days back from now.
type HistoryProvider interface {
	DailySeries(ctx context.Context, symbol string, days int) ([]types.PricePoint, error)
}

// UnlockProvider fetches the scheduled token unlock events for a symbol
// within the given window.
type UnlockProvider interface {
	UpcomingUnlocks(ctx context.Context, symbol string, within time.Duration) ([]types.UnlockEvent, error)
}

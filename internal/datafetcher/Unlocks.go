/*

This file contains the unlock schedule provider. Unlock calendars have no
dominant free API, so the client targets a configurable JSON endpoint that
serves per-token unlock events. An empty base URL disables the provider
entirely and the engine simply reports no unlock alerts.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/folioscope/folioscope/internal/logger"
	"github.com/folioscope/folioscope/internal/types"
)

var unlocksLogger = logger.GetForComponent("unlocks")

// UnlocksClient implements UnlockProvider against a JSON unlock calendar
// endpoint of the form GET {base}/unlocks/{symbol}.
type UnlocksClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewUnlocksClient builds an unlock calendar client. Returns nil if baseURL
// is empty, which callers treat as the provider being disabled.
func NewUnlocksClient(baseURL string) *UnlocksClient {
	if baseURL == "" {
		return nil
	}
	return &UnlocksClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type unlockEventResponse struct {
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// UpcomingUnlocks fetches the unlock events for a symbol landing within the
// given window from now. Unknown tokens return an empty list, not an error.
func (c *UnlocksClient) UpcomingUnlocks(ctx context.Context, symbol string, within time.Duration) ([]types.UnlockEvent, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	endpoint := fmt.Sprintf("%s/unlocks/%s", c.baseURL, strings.ToLower(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build unlock request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unlock request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var raw []unlockEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode unlock response: %w", err)
	}

	now := time.Now().UTC()
	cutoff := now.Add(within)
	events := make([]types.UnlockEvent, 0, len(raw))
	for _, event := range raw {
		date, err := time.Parse("2006-01-02", event.Date)
		if err != nil {
			unlocksLogger.Warn().
				Str("token", symbol).
				Str("date", event.Date).
				Msg("Skipping unlock event with unparseable date")
			continue
		}
		if date.Before(now) || date.After(cutoff) {
			continue
		}
		events = append(events, types.UnlockEvent{
			Token:      symbol,
			UnlockDate: date,
			Amount:     event.Amount,
			Percentage: event.Percentage,
		})
	}
	return events, nil
}

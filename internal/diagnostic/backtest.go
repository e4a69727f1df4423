/*

This file contains the historical backtest: how the submitted allocation,
held at its current weights, would have performed over the trailing windows,
against a BTC benchmark. It is descriptive only and makes no predictions.

Series are fetched once per token at the longest window and the shorter
windows are sliced from it, so each token costs one provider call.

*/

package diagnostic

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/folioscope/folioscope/internal/analyzer"
	"github.com/folioscope/folioscope/internal/types"
)

var backtestWindows = []struct {
	label string
	days  int
}{
	{"30d", 30},
	{"90d", 90},
	{"180d", 180},
}

const maxBacktestDays = 180

// runBacktests computes the per-window aggregate returns and the normalized
// daily series. Tokens without history are dropped from the aggregate and
// their weight is excluded rather than treated as flat.
func (e *Engine) runBacktests(ctx context.Context, allocation types.Allocation) ([]types.BacktestResult, []types.BacktestPoint) {
	if e.history == nil {
		return nil, nil
	}

	series := e.fetchSeries(ctx, allocation)
	if len(series) == 0 {
		return nil, nil
	}

	results := make([]types.BacktestResult, 0, len(backtestWindows))
	for _, window := range backtestWindows {
		result := types.BacktestResult{
			Period:           window.label,
			TokenReturns:     make(map[string]float64),
			BenchmarkReturns: make(map[string]float64),
		}

		var portfolioReturn, coveredWeight float64
		for _, entry := range allocation {
			symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
			tokenSeries, ok := series[symbol]
			if !ok {
				continue
			}
			windowed := sliceWindow(tokenSeries, window.days)
			ret, err := analyzer.PeriodReturn(windowed)
			if err != nil {
				continue
			}
			result.TokenReturns[symbol] = ret
			portfolioReturn += ret * entry.Percentage
			coveredWeight += entry.Percentage
		}
		if coveredWeight == 0 {
			continue
		}
		result.PortfolioReturn = portfolioReturn / coveredWeight

		if btcSeries, ok := series["BTC"]; ok {
			if ret, err := analyzer.PeriodReturn(sliceWindow(btcSeries, window.days)); err == nil {
				result.BenchmarkReturns["BTC"] = ret
			}
		}
		results = append(results, result)
	}

	return results, e.buildSeries(allocation, series)
}

// fetchSeries pulls the longest-window daily series for every token plus the
// BTC benchmark, concurrently. Failed fetches are logged and skipped.
func (e *Engine) fetchSeries(ctx context.Context, allocation types.Allocation) map[string][]types.PricePoint {
	symbols := make(map[string]bool)
	for _, entry := range allocation {
		symbols[strings.ToUpper(strings.TrimSpace(entry.Token))] = true
	}
	symbols["BTC"] = true

	var mu sync.Mutex
	series := make(map[string][]types.PricePoint)
	var wg sync.WaitGroup
	for symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			points, err := e.history.DailySeries(ctx, symbol, maxBacktestDays)
			if err != nil {
				e.logger.Warn().
					Str("token", symbol).
					Err(err).
					Msg("Price history fetch failed, excluding token from backtest")
				return
			}
			sort.Slice(points, func(i, j int) bool {
				return points[i].Timestamp.Before(points[j].Timestamp)
			})
			mu.Lock()
			series[symbol] = points
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()
	return series
}

// sliceWindow trims a sorted series to the trailing days.
func sliceWindow(points []types.PricePoint, days int) []types.PricePoint {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	for i, point := range points {
		if !point.Timestamp.Before(cutoff) {
			return points[i:]
		}
	}
	return nil
}

// buildSeries produces the normalized daily performance series: percentage
// change from the first covered day for the weighted portfolio and for BTC.
// Days where any held token lacks a price are skipped to keep the weighting
// honest.
func (e *Engine) buildSeries(allocation types.Allocation, series map[string][]types.PricePoint) []types.BacktestPoint {
	btcSeries, ok := series["BTC"]
	if !ok || len(btcSeries) == 0 {
		return nil
	}

	// Index prices by date per token.
	byDate := make(map[string]map[string]float64)
	for symbol, points := range series {
		index := make(map[string]float64, len(points))
		for _, point := range points {
			index[point.Timestamp.Format("2006-01-02")] = point.Price
		}
		byDate[symbol] = index
	}

	held := make([]types.AllocationEntry, 0, len(allocation))
	for _, entry := range allocation {
		symbol := strings.ToUpper(strings.TrimSpace(entry.Token))
		if _, ok := series[symbol]; ok {
			held = append(held, types.AllocationEntry{Token: symbol, Percentage: entry.Percentage})
		}
	}
	if len(held) == 0 {
		return nil
	}

	// Each token is normalized to its price on the first complete day, so
	// the series tracks the allocation's weights rather than raw prices.
	var points []types.BacktestPoint
	basePrices := make(map[string]float64)
	var baseBTC float64
	for _, btcPoint := range btcSeries {
		date := btcPoint.Timestamp.Format("2006-01-02")

		prices := make(map[string]float64, len(held))
		complete := true
		for _, entry := range held {
			price, ok := byDate[entry.Token][date]
			if !ok || price <= 0 {
				complete = false
				break
			}
			prices[entry.Token] = price
		}
		if !complete || btcPoint.Price <= 0 {
			continue
		}

		if baseBTC == 0 {
			baseBTC = btcPoint.Price
			for token, price := range prices {
				basePrices[token] = price
			}
		}

		var value, weight float64
		for _, entry := range held {
			value += entry.Percentage * prices[entry.Token] / basePrices[entry.Token]
			weight += entry.Percentage
		}
		points = append(points, types.BacktestPoint{
			Date:      date,
			Portfolio: (value/weight - 1) * 100,
			BTC:       (btcPoint.Price - baseBTC) / baseBTC * 100,
		})
	}
	return points
}

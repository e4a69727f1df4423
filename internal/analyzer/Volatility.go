package analyzer

import (
	"errors"
	"math"
	"sort"

	"github.com/folioscope/folioscope/internal/types"
)

// ErrInsufficientData indicates that not enough data points were provided
// to calculate volatility (need at least 2 points for 1 return).
var ErrInsufficientData = errors.New("insufficient data points to calculate volatility")

// AnnualizationDaily is the annualization factor for daily price series.
const AnnualizationDaily = 365.0

// CalculateVolatility calculates the annualized historical volatility from a
// series of price data. It assumes the series is sorted chronologically and
// sorts it first if not. It uses logarithmic returns and population standard
// deviation. The annualizationFactor should match the frequency of the data
// (365 for daily).
func CalculateVolatility(prices []types.PricePoint, annualizationFactor float64) (float64, error) {
	n := len(prices)
	if n < 2 {
		return 0, ErrInsufficientData
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Timestamp.Before(prices[j].Timestamp)
	})

	logReturns := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		currentPrice := prices[i].Price
		previousPrice := prices[i-1].Price

		// Non-positive prices would break math.Log, skip the pair.
		if previousPrice <= 0 || currentPrice <= 0 {
			continue
		}
		logReturns = append(logReturns, math.Log(currentPrice/previousPrice))
	}

	numReturns := len(logReturns)
	if numReturns == 0 {
		return 0, ErrInsufficientData
	}

	var sum float64
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(numReturns)

	var sumSqDiff float64
	for _, r := range logReturns {
		sumSqDiff += math.Pow(r-mean, 2)
	}
	variance := sumSqDiff / float64(numReturns)
	stdDev := math.Sqrt(variance)

	return stdDev * math.Sqrt(annualizationFactor), nil
}

// PeriodReturn computes the simple percentage return between the first and
// last point of a chronologically sorted series.
func PeriodReturn(prices []types.PricePoint) (float64, error) {
	if len(prices) < 2 {
		return 0, ErrInsufficientData
	}
	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Timestamp.Before(prices[j].Timestamp)
	})
	first := prices[0].Price
	last := prices[len(prices)-1].Price
	if first <= 0 {
		return 0, ErrInsufficientData
	}
	return (last - first) / first * 100, nil
}

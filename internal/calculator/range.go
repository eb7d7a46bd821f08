package calculator

import (
	"errors"
	"math"

	"StockScout/internal/model"
)

// CalculateLowestLow returns the minimum Low across all bars. NaN lows are
// skipped.
func CalculateLowestLow(bars []model.OHLCV) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no bars provided")
	}
	low := math.Inf(1)
	for _, b := range bars {
		if b.Low < low {
			low = b.Low
		}
	}
	if math.IsInf(low, 1) {
		return 0, errors.New("no valid lows")
	}
	return low, nil
}

// CalculateRange scans the most recent n bars and returns the high and low.
// A non-positive n scans the whole slice. NaN values are skipped.
func CalculateRange(bars []model.OHLCV, n int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	start := 0
	if n > 0 && len(bars) > n {
		start = len(bars) - n
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	if math.IsInf(high, -1) || math.IsInf(low, 1) {
		return 0, 0, errors.New("no valid prices in range")
	}
	return high, low, nil
}

package calculator

import (
	"errors"

	"StockScout/internal/model"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateCloseSMA returns the simple moving average of bar closes over period.
func CalculateCloseSMA(bars []model.OHLCV, period int) (float64, error) {
	return CalculateSMA(extractCloses(bars), period)
}

// LatestClose returns the close of the most recent bar.
func LatestClose(bars []model.OHLCV) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no bars provided")
	}
	return bars[len(bars)-1].Close, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

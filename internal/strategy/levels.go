package strategy

import (
	"StockScout/internal/calculator"
	"StockScout/internal/collector"
	"StockScout/internal/model"
)

// SupportFraction places the support level this far from the period low
// towards the latest close.
const SupportFraction = 0.2

// SupportLevel returns a heuristic price floor between recentLow and latestClose.
func SupportLevel(recentLow, latestClose float64) float64 {
	return recentLow + (latestClose-recentLow)*SupportFraction
}

// DeriveLevels computes buy, sell and stop-loss prices from the latest close
// and the period low.
func DeriveLevels(latestClose, recentLow, profitTargetPct, stopLossPct float64) model.Levels {
	support := SupportLevel(recentLow, latestClose)

	buy := latestClose
	if support > buy {
		buy = support
	}

	return model.Levels{
		SupportLevel:  support,
		BuyPrice:      buy,
		SellPrice:     buy * (1 + profitTargetPct/100),
		StopLossPrice: buy * (1 - stopLossPct/100),
	}
}

// ComputeLevels derives levels from a daily bar window. The latest bar's close
// is the current price and the lowest Low in the window is the period low.
func ComputeLevels(bars []model.OHLCV, profitTargetPct, stopLossPct float64) (model.Levels, error) {
	if len(bars) == 0 {
		return model.Levels{}, collector.ErrNoData
	}
	latest, err := calculator.LatestClose(bars)
	if err != nil {
		return model.Levels{}, err
	}
	low, err := calculator.CalculateLowestLow(bars)
	if err != nil {
		return model.Levels{}, err
	}
	return DeriveLevels(latest, low, profitTargetPct, stopLossPct), nil
}

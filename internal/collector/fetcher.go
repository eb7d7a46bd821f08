package collector

import (
	"context"

	"StockScout/internal/model"

	"github.com/pkg/errors"
)

// ErrNoData is returned when the provider has no bars for a symbol. Callers
// treat it the same as an empty result.
var ErrNoData = errors.New("no price data")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns up to days daily bars in chronological order.
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	// FetchRecentBars returns the latest n bars used for live polling.
	FetchRecentBars(ctx context.Context, symbol string, n int) ([]model.OHLCV, error)
	Name() string
}

// IsNoData reports whether err means the symbol simply has no data.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

func trimTail(bars []model.OHLCV, n int) []model.OHLCV {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}

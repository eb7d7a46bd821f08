package collector

import (
	"context"
	"time"

	"StockScout/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/pkg/errors"
)

// barsClient is the subset of the Alpaca market data client used here.
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaFetcher implements Fetcher using Alpaca's market data API.
type AlpacaFetcher struct {
	Client barsClient
	Feed   marketdata.Feed
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher backed by the Alpaca data API.
func NewAlpacaFetcher(apiKey, apiSecret, baseURL, feed string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
			BaseURL:   baseURL,
		}),
		Feed: parseFeed(feed),
		now:  time.Now,
	}
}

func parseFeed(feed string) marketdata.Feed {
	switch feed {
	case "sip", "SIP":
		return marketdata.SIP
	default:
		return marketdata.IEX
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) clock() time.Time {
	if f.now != nil {
		return f.now()
	}
	return time.Now()
}

func (f *AlpacaFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	return f.fetch(ctx, symbol, f.clock().AddDate(0, 0, -days))
}

func (f *AlpacaFetcher) FetchRecentBars(ctx context.Context, symbol string, n int) ([]model.OHLCV, error) {
	// Pad the calendar window so weekends and holidays still yield n sessions.
	bars, err := f.fetch(ctx, symbol, f.clock().AddDate(0, 0, -(n*2+7)))
	if err != nil {
		return nil, err
	}
	return trimTail(bars, n), nil
}

func (f *AlpacaFetcher) fetch(ctx context.Context, symbol string, start time.Time) ([]model.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      start,
		Feed:       f.Feed,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "alpaca bars %s", symbol)
	}
	bars := make([]model.OHLCV, 0, len(raw))
	for _, b := range raw {
		bars = append(bars, model.OHLCV{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		})
	}
	return bars, nil
}

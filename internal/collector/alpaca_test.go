package collector

import (
	"context"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/pkg/errors"
)

type stubBars struct {
	req  marketdata.GetBarsRequest
	bars []marketdata.Bar
	err  error
}

func (s *stubBars) GetBars(_ string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	s.req = req
	return s.bars, s.err
}

func TestAlpacaFetcher_RecentBars(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	stub := &stubBars{}
	for i := 0; i < 8; i++ {
		stub.bars = append(stub.bars, marketdata.Bar{
			Timestamp: now.AddDate(0, 0, i-8),
			Close:     float64(i + 1),
			Low:       float64(i),
		})
	}
	f := &AlpacaFetcher{Client: stub, Feed: marketdata.IEX, now: func() time.Time { return now }}

	bars, err := f.FetchRecentBars(context.Background(), "ABC", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 5 || bars[4].Close != 8 {
		t.Fatalf("expected last 5 bars ending at close 8, got %+v", bars)
	}
	if stub.req.TimeFrame != marketdata.OneDay {
		t.Errorf("expected daily timeframe, got %v", stub.req.TimeFrame)
	}
	if !stub.req.Start.Before(now.AddDate(0, 0, -5)) {
		t.Errorf("start %v does not cover 5 sessions", stub.req.Start)
	}
}

func TestAlpacaFetcher_Error(t *testing.T) {
	f := &AlpacaFetcher{Client: &stubBars{err: errors.New("forbidden")}}
	if _, err := f.FetchDailyBars(context.Background(), "ABC", 365); err == nil {
		t.Fatal("expected error")
	}
}

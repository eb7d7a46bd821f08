package collector

import (
	"context"
	"sync"
	"time"

	"StockScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Daily maps a symbol to its history; Errs forces a fetch failure. Recent is
// a script of windows returned by successive FetchRecentBars calls; the last
// entry repeats once the script is exhausted.
type MockFetcher struct {
	Daily     map[string][]model.OHLCV
	Errs      map[string]error
	Recent    [][]model.OHLCV
	RecentErr error

	mu         sync.Mutex
	recentCall int
	dailyCalls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, _ int) ([]model.OHLCV, error) {
	m.mu.Lock()
	m.dailyCalls = append(m.dailyCalls, symbol)
	m.mu.Unlock()
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	return m.Daily[symbol], nil
}

func (m *MockFetcher) FetchRecentBars(_ context.Context, _ string, n int) ([]model.OHLCV, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecentErr != nil && m.recentCall >= len(m.Recent) {
		return nil, m.RecentErr
	}
	if len(m.Recent) == 0 {
		return nil, nil
	}
	i := m.recentCall
	if i >= len(m.Recent) {
		i = len(m.Recent) - 1
	}
	m.recentCall++
	return trimTail(m.Recent[i], n), nil
}

// DailyCalls returns the symbols requested so far, in order.
func (m *MockFetcher) DailyCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.dailyCalls...)
}

// RecentCalls returns how many recent windows have been served.
func (m *MockFetcher) RecentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recentCall
}

// GenerateBars builds count daily bars ending today whose closes follow closes
// (recycled if shorter) with lows slightly under each close.
func GenerateBars(count int, closes ...float64) []model.OHLCV {
	if len(closes) == 0 {
		return nil
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := closes[i%len(closes)]
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

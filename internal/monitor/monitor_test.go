package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"StockScout/internal/collector"
	"StockScout/internal/metrics"
	"StockScout/internal/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

var rec = &model.Recommendation{
	ID:            "rec-1",
	Ticker:        "B",
	CurrentPrice:  4,
	BuyPrice:      4,
	SellPrice:     4.4,
	StopLossPrice: 3.6,
}

func closes(cs ...float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(cs))
	for i, c := range cs {
		bars[i] = model.OHLCV{Close: c, Low: c, Volume: 1000}
	}
	return bars
}

func run(t *testing.T, f *collector.MockFetcher, m *metrics.Metrics) model.MonitorResult {
	t.Helper()
	mon := New(f, time.Millisecond, 5, m)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mon.Run(ctx, rec)
}

func TestRun_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		recent    [][]model.OHLCV
		recentErr error
		want      model.Outcome
		ticks     int
		lastPrice float64
	}{
		{
			name:      "sold after holding",
			recent:    [][]model.OHLCV{closes(4, 4, 4, 4, 4.1), closes(4, 4, 4, 4.1, 4.4)},
			want:      model.OutcomeSold,
			ticks:     2,
			lastPrice: 4.4,
		},
		{
			name:      "stopped out after holding",
			recent:    [][]model.OHLCV{closes(4.2), closes(3.9), closes(3.6)},
			want:      model.OutcomeStoppedOut,
			ticks:     3,
			lastPrice: 3.6,
		},
		{
			name:      "sold beats later stop",
			recent:    [][]model.OHLCV{closes(5), closes(1)},
			want:      model.OutcomeSold,
			ticks:     1,
			lastPrice: 5,
		},
		{
			name:   "no data on first tick",
			recent: nil,
			want:   model.OutcomeNoData,
			ticks:  1,
		},
		{
			name:      "fetch error ends monitoring",
			recent:    [][]model.OHLCV{closes(4)},
			recentErr: errors.New("upstream down"),
			want:      model.OutcomeError,
			ticks:     2,
			lastPrice: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &collector.MockFetcher{Recent: tt.recent, RecentErr: tt.recentErr}
			res := run(t, f, nil)
			if res.Outcome != tt.want {
				t.Fatalf("expected %s, got %s (err=%v)", tt.want, res.Outcome, res.Err)
			}
			if res.Ticks != tt.ticks {
				t.Errorf("expected %d ticks, got %d", tt.ticks, res.Ticks)
			}
			if res.LastPrice != tt.lastPrice {
				t.Errorf("expected last price %.2f, got %.2f", tt.lastPrice, res.LastPrice)
			}
			if res.Ticker != "B" || res.RecommendationID != "rec-1" {
				t.Errorf("result not linked to recommendation: %+v", res)
			}
		})
	}
}

func TestRun_ErrorCarriesCause(t *testing.T) {
	cause := errors.New("upstream down")
	res := run(t, &collector.MockFetcher{RecentErr: cause}, nil)
	if res.Outcome != model.OutcomeError || !errors.Is(res.Err, cause) {
		t.Fatalf("expected ERROR wrapping cause, got %s / %v", res.Outcome, res.Err)
	}
}

func TestRun_NoDataErrorIsNoData(t *testing.T) {
	res := run(t, &collector.MockFetcher{RecentErr: collector.ErrNoData}, nil)
	if res.Outcome != model.OutcomeNoData {
		t.Fatalf("expected NO_DATA, got %s", res.Outcome)
	}
}

func TestRun_CancelledWhileHolding(t *testing.T) {
	f := &collector.MockFetcher{Recent: [][]model.OHLCV{closes(4)}}
	mon := New(f, time.Hour, 5, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan model.MonitorResult, 1)
	go func() { done <- mon.Run(ctx, rec) }()

	deadline := time.Now().Add(5 * time.Second)
	for f.RecentCalls() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()

	select {
	case res := <-done:
		if res.Outcome != model.OutcomeCancelled {
			t.Fatalf("expected CANCELLED, got %s", res.Outcome)
		}
		if res.Ticks != 1 {
			t.Errorf("expected 1 tick before cancel, got %d", res.Ticks)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}

func TestRun_PreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &collector.MockFetcher{Recent: [][]model.OHLCV{closes(10)}}
	res := New(f, time.Millisecond, 5, nil).Run(ctx, rec)
	if res.Outcome != model.OutcomeCancelled || res.Ticks != 0 {
		t.Fatalf("expected CANCELLED with no ticks, got %s after %d", res.Outcome, res.Ticks)
	}
}

func TestRun_RecordsMetrics(t *testing.T) {
	m := metrics.New()
	run(t, &collector.MockFetcher{Recent: [][]model.OHLCV{closes(4), closes(4.5)}}, m)
	if got := testutil.ToFloat64(m.MonitorTicks); got != 2 {
		t.Errorf("expected 2 ticks, got %.0f", got)
	}
	if got := testutil.ToFloat64(m.MonitorOutcomes.WithLabelValues("SOLD")); got != 1 {
		t.Errorf("expected SOLD outcome counted, got %.0f", got)
	}
	if n := testutil.CollectAndCount(m.LastPrice); n != 0 {
		t.Errorf("expected no stale last price series, got %d", n)
	}
}

func TestSample(t *testing.T) {
	s := Sample(closes(1, 2, 3, 4, 5), 5)
	if !s.SMAValid || s.SMA != 3 || s.Close != 5 || s.Volume != 1000 {
		t.Errorf("unexpected sample %+v", s)
	}
	s = Sample(closes(1, 2), 5)
	if s.SMAValid {
		t.Error("expected SMA unavailable for a short window")
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		close float64
		want  model.Outcome
	}{
		{4.4, model.OutcomeSold},
		{4.5, model.OutcomeSold},
		{3.6, model.OutcomeStoppedOut},
		{3.0, model.OutcomeStoppedOut},
		{4.0, ""},
	}
	for _, tt := range tests {
		if got := Evaluate(tt.close, 4.4, 3.6); got != tt.want {
			t.Errorf("close %.2f: expected %q, got %q", tt.close, tt.want, got)
		}
	}
}

func TestRun_NullCloseKeepsHolding(t *testing.T) {
	bodies := []string{
		`{"chart":{"result":[{"timestamp":[1700000000,1700086400],
"indicators":{"quote":[{"open":[4.1,4.0],"high":[4.2,4.1],"low":[4.0,3.9],
"close":[4.1,null],"volume":[1000,500]}]}}],"error":null}}`,
		`{"chart":{"result":[{"timestamp":[1700000000,1700086400],
"indicators":{"quote":[{"open":[4.1,4.0],"high":[4.2,4.6],"low":[4.0,3.9],
"close":[4.1,4.5],"volume":[1000,500]}]}}],"error":null}}`,
	}
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		i := int(atomic.AddInt32(&calls, 1)) - 1
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		_, _ = w.Write([]byte(bodies[i]))
	}))
	defer srv.Close()
	f := collector.NewYahooFetcher("")
	f.BaseURL = srv.URL

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res := New(f, time.Millisecond, 5, nil).Run(ctx, rec)
	if res.Outcome != model.OutcomeSold || res.Ticks != 2 || res.LastPrice != 4.5 {
		t.Fatalf("expected SOLD at 4.5 after holding, got %s at %.2f after %d ticks", res.Outcome, res.LastPrice, res.Ticks)
	}
}

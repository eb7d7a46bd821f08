package strategy

import (
	"errors"
	"math"
	"testing"

	"StockScout/internal/collector"
	"StockScout/internal/model"
)

const eps = 1e-9

func window(closes, lows []float64) []model.OHLCV {
	out := make([]model.OHLCV, len(closes))
	for i := range closes {
		out[i] = model.OHLCV{Close: closes[i], Low: lows[i]}
	}
	return out
}

func TestComputeLevels_WorkedExample(t *testing.T) {
	// close 4, period low 2, 10% target and stop
	bars := window([]float64{3, 2.5, 4}, []float64{2.8, 2, 3.5})
	lv, err := ComputeLevels(bars, 10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"support", lv.SupportLevel, 2.4},
		{"buy", lv.BuyPrice, 4},
		{"sell", lv.SellPrice, 4.4},
		{"stop", lv.StopLossPrice, 3.6},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > eps {
			t.Errorf("%s: got %.6f, want %.6f", c.name, c.got, c.want)
		}
	}
}

func TestComputeLevels_EmptyWindow(t *testing.T) {
	if _, err := ComputeLevels(nil, 10, 10); !errors.Is(err, collector.ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestSupportLevel_BetweenLowAndClose(t *testing.T) {
	cases := [][2]float64{{1, 5}, {0.5, 0.51}, {2, 4}, {3.99, 4}, {0.01, 100}}
	for _, c := range cases {
		low, close := c[0], c[1]
		s := SupportLevel(low, close)
		if s < low-eps || s > close+eps {
			t.Errorf("low=%.2f close=%.2f: support %.4f out of range", low, close, s)
		}
	}
}

func TestDeriveLevels_Invariants(t *testing.T) {
	tests := []struct {
		close, low, profit, stop float64
	}{
		{4, 2, 10, 10},
		{1, 1, 5, 2}, // flat window
		{2, 3, 25, 50},
		{0.35, 0.1, 1, 99},
		{4.99, 0.01, 100, 1},
	}
	for _, tt := range tests {
		lv := DeriveLevels(tt.close, tt.low, tt.profit, tt.stop)
		if lv.BuyPrice < tt.close {
			t.Errorf("%+v: buy %.4f below latest close", tt, lv.BuyPrice)
		}
		if !(lv.SellPrice > lv.BuyPrice && lv.BuyPrice > lv.StopLossPrice) {
			t.Errorf("%+v: ordering violated: sell=%.4f buy=%.4f stop=%.4f",
				tt, lv.SellPrice, lv.BuyPrice, lv.StopLossPrice)
		}
	}
}

func TestDeriveLevels_FlatWindowBuysAtClose(t *testing.T) {
	lv := DeriveLevels(3, 3, 10, 10)
	if lv.BuyPrice != 3 {
		t.Errorf("expected buy to collapse to close 3, got %.4f", lv.BuyPrice)
	}
}

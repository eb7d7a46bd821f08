package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSample is the view of a short trailing window taken on each monitor tick.
type PriceSample struct {
	Close    float64
	Volume   float64
	SMA      float64
	SMAValid bool // false when the window is shorter than the SMA period
}

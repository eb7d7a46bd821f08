package model

import "time"

// Levels are the prices derived from a symbol's trailing history.
type Levels struct {
	SupportLevel  float64
	BuyPrice      float64
	SellPrice     float64
	StopLossPrice float64
}

// Recommendation is the single candidate produced by a scan. It is not
// modified after creation.
type Recommendation struct {
	ID            string
	Ticker        string
	CurrentPrice  float64
	SupportLevel  float64
	BuyPrice      float64
	SellPrice     float64
	StopLossPrice float64
	CreatedAt     time.Time
}

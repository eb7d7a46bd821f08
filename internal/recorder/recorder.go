package recorder

import (
	"StockScout/internal/model"

	"github.com/shopspring/decimal"
)

// Recorder persists recommendations and monitor outcomes.
type Recorder interface {
	RecordRecommendation(rec *model.Recommendation) error
	RecordOutcome(res *model.MonitorResult) error
	Close() error
}

// Multi fans out to several recorders. Every recorder is attempted; the
// first error is returned.
type Multi []Recorder

func (m Multi) RecordRecommendation(rec *model.Recommendation) error {
	var first error
	for _, r := range m {
		if err := r.RecordRecommendation(rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) RecordOutcome(res *model.MonitorResult) error {
	var first error
	for _, r := range m {
		if err := r.RecordOutcome(res); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) Close() error {
	var first error
	for _, r := range m {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// formatPrice renders a price with the shortest exact decimal representation.
func formatPrice(p float64) string {
	return decimal.NewFromFloat(p).String()
}

package recorder

import "StockScout/internal/model"

// NoopRecorder is a no-op implementation used when no store is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRecommendation(_ *model.Recommendation) error { return nil }
func (n *NoopRecorder) RecordOutcome(_ *model.MonitorResult) error         { return nil }
func (n *NoopRecorder) Close() error                                       { return nil }

package model

import "time"

// Outcome is the terminal state of a monitor run.
type Outcome string

const (
	OutcomeSold       Outcome = "SOLD"
	OutcomeStoppedOut Outcome = "STOPPED_OUT"
	OutcomeNoData     Outcome = "NO_DATA"
	OutcomeError      Outcome = "ERROR"
	OutcomeCancelled  Outcome = "CANCELLED"
)

// MonitorResult describes how a monitor run ended.
type MonitorResult struct {
	RecommendationID string
	Ticker           string
	Outcome          Outcome
	LastPrice        float64
	Ticks            int
	Err              error
	StartedAt        time.Time
	FinishedAt       time.Time
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const (
	namespace = "stockscout"

	SkipFetchError   = "fetch_error"
	SkipNoData       = "no_data"
	SkipAboveCeiling = "above_ceiling"
)

// Metrics groups the scanner and monitor collectors. All methods are safe on
// a nil receiver so components can run without instrumentation.
type Metrics struct {
	Registry *prometheus.Registry

	SymbolsScanned  prometheus.Counter
	SymbolsSkipped  *prometheus.CounterVec
	Recommendations prometheus.Counter
	MonitorTicks    prometheus.Counter
	MonitorOutcomes *prometheus.CounterVec
	LastPrice       *prometheus.GaugeVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		SymbolsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "symbols_scanned_total",
			Help:      "The total number of symbols whose history was requested",
		}),
		SymbolsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "symbols_skipped_total",
			Help:      "Symbols rejected during selection, by reason",
		}, []string{"reason"}),
		Recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "recommendations_total",
			Help:      "The total number of recommendations produced",
		}),
		MonitorTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "ticks_total",
			Help:      "The total number of price polls",
		}),
		MonitorOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "outcomes_total",
			Help:      "Terminal monitor states",
		}, []string{"outcome"}),
		LastPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "last_price",
			Help:      "The latest close seen for the monitored ticker",
		}, []string{"ticker"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SymbolsScanned,
		m.SymbolsSkipped,
		m.Recommendations,
		m.MonitorTicks,
		m.MonitorOutcomes,
		m.LastPrice,
	)
	return m
}

func (m *Metrics) Scanned() {
	if m != nil {
		m.SymbolsScanned.Inc()
	}
}

func (m *Metrics) Skipped(reason string) {
	if m != nil {
		m.SymbolsSkipped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) Recommended() {
	if m != nil {
		m.Recommendations.Inc()
	}
}

func (m *Metrics) Tick(ticker string, price float64) {
	if m != nil {
		m.MonitorTicks.Inc()
		m.LastPrice.WithLabelValues(ticker).Set(price)
	}
}

// Finished counts the outcome and drops the ticker's last price series.
func (m *Metrics) Finished(ticker, outcome string) {
	if m != nil {
		m.MonitorOutcomes.WithLabelValues(outcome).Inc()
		m.LastPrice.DeleteLabelValues(ticker)
	}
}

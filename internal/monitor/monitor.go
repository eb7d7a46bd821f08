package monitor

import (
	"context"
	"time"

	"StockScout/internal/calculator"
	"StockScout/internal/collector"
	"StockScout/internal/metrics"
	"StockScout/internal/model"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 60 * time.Second
	DefaultWindow   = 5
)

// Monitor polls a recommended ticker until its sell or stop-loss level is
// crossed. Levels are fixed for the whole run.
type Monitor struct {
	Fetcher  collector.Fetcher
	Interval time.Duration
	Window   int
	Metrics  *metrics.Metrics
	Now      func() time.Time
}

// New creates a Monitor, applying defaults for zero values.
func New(fetcher collector.Fetcher, interval time.Duration, window int, m *metrics.Metrics) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{
		Fetcher:  fetcher,
		Interval: interval,
		Window:   window,
		Metrics:  m,
		Now:      time.Now,
	}
}

func (m *Monitor) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Run blocks until a terminal outcome is reached or ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, rec *model.Recommendation) model.MonitorResult {
	res := model.MonitorResult{
		RecommendationID: rec.ID,
		Ticker:           rec.Ticker,
		StartedAt:        m.now(),
	}
	log.Infof("tracking %s: sell >= %.2f, stop <= %.2f", rec.Ticker, rec.SellPrice, rec.StopLossPrice)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		if err := ctx.Err(); err != nil {
			return m.finish(res, model.OutcomeCancelled, err)
		}
		select {
		case <-ctx.Done():
			return m.finish(res, model.OutcomeCancelled, ctx.Err())
		case <-timer.C:
		}

		sample, outcome, err := m.tick(ctx, rec)
		res.Ticks++
		if outcome == "" {
			res.LastPrice = sample.Close
			log.Infof("%s is holding at $%.2f", rec.Ticker, sample.Close)
			timer.Reset(m.Interval)
			continue
		}
		if outcome != model.OutcomeNoData && outcome != model.OutcomeError {
			res.LastPrice = sample.Close
		}
		if outcome == model.OutcomeError && ctx.Err() != nil {
			return m.finish(res, model.OutcomeCancelled, ctx.Err())
		}
		return m.finish(res, outcome, err)
	}
}

// tick performs one poll. An empty outcome means keep polling.
func (m *Monitor) tick(ctx context.Context, rec *model.Recommendation) (model.PriceSample, model.Outcome, error) {
	bars, err := m.Fetcher.FetchRecentBars(ctx, rec.Ticker, m.Window)
	if err != nil && !collector.IsNoData(err) {
		log.Errorf("error tracking %s: %v", rec.Ticker, err)
		return model.PriceSample{}, model.OutcomeError, err
	}
	if len(bars) == 0 {
		log.Warnf("no price data found for %s, stock may be delisted", rec.Ticker)
		return model.PriceSample{}, model.OutcomeNoData, nil
	}

	sample := Sample(bars, m.Window)
	m.Metrics.Tick(rec.Ticker, sample.Close)

	entry := log.WithFields(log.Fields{
		"ticker": rec.Ticker,
		"price":  sample.Close,
		"volume": humanize.Comma(int64(sample.Volume)),
	})
	if sample.SMAValid {
		entry = entry.WithField("sma", sample.SMA)
	} else {
		entry = entry.WithField("sma", "n/a")
	}
	entry.Info("price update")

	return sample, Evaluate(sample.Close, rec.SellPrice, rec.StopLossPrice), nil
}

// Sample summarizes a trailing window: latest close and volume plus the SMA
// over period closes.
func Sample(bars []model.OHLCV, period int) model.PriceSample {
	last := bars[len(bars)-1]
	s := model.PriceSample{Close: last.Close, Volume: last.Volume}
	if sma, err := calculator.CalculateCloseSMA(bars, period); err == nil {
		s.SMA = sma
		s.SMAValid = true
	}
	return s
}

// Evaluate applies the exit rule: SOLD at or above sell, STOPPED_OUT at or
// below stop, otherwise an empty outcome.
func Evaluate(close, sell, stop float64) model.Outcome {
	switch {
	case close >= sell:
		return model.OutcomeSold
	case close <= stop:
		return model.OutcomeStoppedOut
	default:
		return ""
	}
}

func (m *Monitor) finish(res model.MonitorResult, outcome model.Outcome, err error) model.MonitorResult {
	res.Outcome = outcome
	res.Err = err
	res.FinishedAt = m.now()
	m.Metrics.Finished(res.Ticker, string(outcome))

	switch outcome {
	case model.OutcomeSold:
		log.Infof("%s hit the sell price at $%.2f, time to sell", res.Ticker, res.LastPrice)
	case model.OutcomeStoppedOut:
		log.Infof("%s hit the stop-loss price at $%.2f, time to exit", res.Ticker, res.LastPrice)
	case model.OutcomeCancelled:
		log.Infof("stopped tracking %s after %d ticks", res.Ticker, res.Ticks)
	}
	return res
}

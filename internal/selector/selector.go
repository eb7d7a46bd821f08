package selector

import (
	"context"
	"math/rand"
	"time"

	"StockScout/internal/calculator"
	"StockScout/internal/collector"
	"StockScout/internal/metrics"
	"StockScout/internal/model"
	"StockScout/internal/strategy"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrNoCandidate is returned when no symbol in the universe qualifies.
var ErrNoCandidate = errors.New("no symbol at or below the price ceiling")

// Options holds the selection thresholds.
type Options struct {
	PriceCeiling    float64
	ProfitTargetPct float64
	StopLossPct     float64
	HistoryDays     int
}

// Selector picks the first symbol, in random order, trading at or below the
// price ceiling.
type Selector struct {
	Fetcher collector.Fetcher
	Opts    Options
	Metrics *metrics.Metrics
	// Shuffle reorders symbols in place. Defaults to an unseeded shuffle.
	Shuffle func([]string)
	Now     func() time.Time
}

// New creates a Selector with the default shuffle.
func New(fetcher collector.Fetcher, opts Options, m *metrics.Metrics) *Selector {
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 365
	}
	return &Selector{
		Fetcher: fetcher,
		Opts:    opts,
		Metrics: m,
		Shuffle: shuffle,
		Now:     time.Now,
	}
}

func shuffle(s []string) {
	rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// Select walks a shuffled copy of universe and returns the first qualifying
// recommendation. It returns ErrNoCandidate when the universe is exhausted.
func (s *Selector) Select(ctx context.Context, universe []string) (*model.Recommendation, error) {
	symbols := append([]string(nil), universe...)
	if s.Shuffle != nil {
		s.Shuffle(symbols)
	}

	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := s.evaluate(ctx, symbol)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnf("processing ticker %s: %v", symbol, err)
			s.Metrics.Skipped(metrics.SkipFetchError)
			continue
		}
		if rec != nil {
			s.Metrics.Recommended()
			return rec, nil
		}
	}
	return nil, ErrNoCandidate
}

// evaluate returns (nil, nil) when symbol is skipped for a non-error reason.
func (s *Selector) evaluate(ctx context.Context, symbol string) (*model.Recommendation, error) {
	s.Metrics.Scanned()
	bars, err := s.Fetcher.FetchDailyBars(ctx, symbol, s.Opts.HistoryDays)
	if err != nil && !collector.IsNoData(err) {
		return nil, err
	}
	if len(bars) == 0 {
		log.Debugf("no history for %s, skipping", symbol)
		s.Metrics.Skipped(metrics.SkipNoData)
		return nil, nil
	}

	latest, _ := calculator.LatestClose(bars)
	if !(latest > 0) {
		log.Debugf("no valid close for %s, skipping", symbol)
		s.Metrics.Skipped(metrics.SkipNoData)
		return nil, nil
	}
	if latest > s.Opts.PriceCeiling {
		log.Debugf("%s close %.2f above ceiling %.2f", symbol, latest, s.Opts.PriceCeiling)
		s.Metrics.Skipped(metrics.SkipAboveCeiling)
		return nil, nil
	}

	lv, err := strategy.ComputeLevels(bars, s.Opts.ProfitTargetPct, s.Opts.StopLossPct)
	if err != nil {
		return nil, err
	}

	fields := log.Fields{
		"ticker":  symbol,
		"current": latest,
		"support": lv.SupportLevel,
		"buy":     lv.BuyPrice,
		"sell":    lv.SellPrice,
		"stop":    lv.StopLossPrice,
	}
	if high, low, err := calculator.CalculateRange(bars, 0); err == nil {
		fields["period_high"] = high
		fields["period_low"] = low
	}
	log.WithFields(fields).Info("recommended stock")

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return &model.Recommendation{
		ID:            uuid.NewString(),
		Ticker:        symbol,
		CurrentPrice:  latest,
		SupportLevel:  lv.SupportLevel,
		BuyPrice:      lv.BuyPrice,
		SellPrice:     lv.SellPrice,
		StopLossPrice: lv.StopLossPrice,
		CreatedAt:     now(),
	}, nil
}

package pipeline

import (
	"context"

	"StockScout/internal/model"
	"StockScout/internal/monitor"
	"StockScout/internal/notifier"
	"StockScout/internal/recorder"
	"StockScout/internal/selector"
	"StockScout/internal/universe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Pipeline runs one scan: load the universe, select a candidate, persist it,
// then monitor it to a terminal outcome.
type Pipeline struct {
	Universe universe.Provider
	Selector *selector.Selector
	Monitor  *monitor.Monitor
	Recorder recorder.Recorder
	Notifier notifier.Notifier
}

// Run executes the pipeline. It returns a nil result when no symbol
// qualified. Universe and persistence failures abort the run.
func (p *Pipeline) Run(ctx context.Context) (*model.MonitorResult, error) {
	log.Infof("scanning %s universe for a stock under $%.2f with a %.0f%% profit target",
		p.Universe.Name(), p.Selector.Opts.PriceCeiling, p.Selector.Opts.ProfitTargetPct)

	symbols, err := p.Universe.Symbols(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch stock tickers")
	}
	log.Infof("loaded %d tickers", len(symbols))

	rec, err := p.Selector.Select(ctx, symbols)
	if errors.Is(err, selector.ErrNoCandidate) {
		log.Infof("no stocks under $%.2f found", p.Selector.Opts.PriceCeiling)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select")
	}

	if err := p.Recorder.RecordRecommendation(rec); err != nil {
		return nil, errors.Wrap(err, "save recommendation")
	}
	p.notify(ctx, notifier.FormatRecommendation(rec))

	res := p.Monitor.Run(ctx, rec)

	if err := p.Recorder.RecordOutcome(&res); err != nil {
		log.Errorf("record outcome: %v", err)
	}
	if res.Outcome != model.OutcomeCancelled {
		p.notify(ctx, notifier.FormatOutcome(rec, &res))
	}
	return &res, nil
}

// Job adapts Run to the task and scheduler signature.
func (p *Pipeline) Job(ctx context.Context) error {
	_, err := p.Run(ctx)
	return err
}

func (p *Pipeline) notify(ctx context.Context, text string) {
	if p.Notifier == nil {
		return
	}
	if err := p.Notifier.Notify(ctx, text); err != nil {
		log.Errorf("send notification: %v", err)
	}
}

package recorder

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"

	"StockScout/internal/model"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CSVHeader is the column layout of the recommendations file.
var CSVHeader = []string{"Ticker", "Current Price", "Buy Price", "Sell Price", "Stop Loss"}

// CSVRecorder appends recommendations to a flat file. Outcomes are not
// written to the CSV.
type CSVRecorder struct {
	path string
	mu   sync.Mutex
}

// NewCSVRecorder creates a recorder appending to path.
func NewCSVRecorder(path string) *CSVRecorder {
	return &CSVRecorder{path: path}
}

func (r *CSVRecorder) RecordRecommendation(rec *model.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, statErr := os.Stat(r.path)
	writeHeader := os.IsNotExist(statErr)

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create csv dir")
		}
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open csv")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(CSVHeader); err != nil {
			return errors.Wrap(err, "write csv header")
		}
	}
	if err := w.Write([]string{
		rec.Ticker,
		formatPrice(rec.CurrentPrice),
		formatPrice(rec.BuyPrice),
		formatPrice(rec.SellPrice),
		formatPrice(rec.StopLossPrice),
	}); err != nil {
		return errors.Wrap(err, "write csv row")
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "flush csv")
	}

	log.Infof("recommendation saved to %s", r.path)
	return nil
}

func (r *CSVRecorder) RecordOutcome(_ *model.MonitorResult) error { return nil }

func (r *CSVRecorder) Close() error { return nil }

package recorder

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"StockScout/internal/model"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists recommendations and outcomes to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "create db dir")
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (
			id              TEXT PRIMARY KEY,
			timestamp       INTEGER NOT NULL,
			ticker          TEXT NOT NULL,
			current_price   TEXT NOT NULL,
			support_level   TEXT NOT NULL,
			buy_price       TEXT NOT NULL,
			sell_price      TEXT NOT NULL,
			stop_loss_price TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_recommendations_ts ON recommendations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS monitor_outcomes (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			recommendation_id TEXT NOT NULL,
			ticker            TEXT NOT NULL,
			outcome           TEXT NOT NULL,
			last_price        TEXT,
			ticks             INTEGER,
			error             TEXT,
			started_at        INTEGER,
			finished_at       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_rec ON monitor_outcomes(recommendation_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return errors.Wrapf(err, "exec %q", s[:40])
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRecommendation(rec *model.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO recommendations
		(id, timestamp, ticker, current_price, support_level, buy_price, sell_price, stop_loss_price)
		VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.CreatedAt.Unix(), rec.Ticker,
		formatPrice(rec.CurrentPrice), formatPrice(rec.SupportLevel),
		formatPrice(rec.BuyPrice), formatPrice(rec.SellPrice), formatPrice(rec.StopLossPrice),
	)
	return errors.Wrap(err, "insert recommendation")
}

func (r *SQLiteRecorder) RecordOutcome(res *model.MonitorResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errText sql.NullString
	if res.Err != nil {
		errText = sql.NullString{String: res.Err.Error(), Valid: true}
	}
	_, err := r.db.Exec(`INSERT INTO monitor_outcomes
		(recommendation_id, ticker, outcome, last_price, ticks, error, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		res.RecommendationID, res.Ticker, string(res.Outcome), formatPrice(res.LastPrice),
		res.Ticks, errText, res.StartedAt.Unix(), res.FinishedAt.Unix(),
	)
	return errors.Wrap(err, "insert outcome")
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}

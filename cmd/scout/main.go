package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockScout/internal/collector"
	"StockScout/internal/config"
	"StockScout/internal/metrics"
	"StockScout/internal/monitor"
	"StockScout/internal/notifier"
	"StockScout/internal/pipeline"
	"StockScout/internal/recorder"
	"StockScout/internal/scheduler"
	"StockScout/internal/selector"
	"StockScout/internal/server"
	"StockScout/internal/task"
	"StockScout/internal/universe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.Info("StockScout starting...")

	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
	log.Info("StockScout stopped")
}

// run wires the components and blocks until shutdown.
func run() error {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return errors.Wrap(err, "load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "config validation")
	}
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.Warnf("unknown log level %q, using info", cfg.Log.Level)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case "alpaca":
		fetcher = collector.NewAlpacaFetcher(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.DataURL, cfg.Alpaca.Feed)
	case "rest":
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Infof("data source: %s", fetcher.Name())

	// Init ticker universe
	var uni universe.Provider
	switch cfg.Universe.Source {
	case "alpaca":
		uni = universe.NewAlpacaAssets(cfg.Alpaca.APIKey, cfg.Alpaca.APISecret, cfg.Alpaca.BaseURL, cfg.Universe.Exchange)
	case "static":
		uni = universe.Static(cfg.Universe.Symbols)
	default:
		uni = universe.NewCSVListing(cfg.Universe.URL)
	}

	// Init recorders
	recs := recorder.Multi{recorder.NewCSVRecorder(cfg.Recorder.CSVPath)}
	if cfg.Recorder.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Recorder.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using csv only: %v", err)
		} else {
			recs = append(recs, sr)
		}
	}
	defer func() {
		if err := recs.Close(); err != nil {
			log.Errorf("close recorders: %v", err)
		}
	}()

	// Init notifier
	var tn notifier.Notifier = notifier.Noop{}
	if cfg.Telegram.BotToken != "" {
		t, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			log.Warnf("init telegram notifier failed, notifications disabled: %v", err)
		} else {
			tn = t
		}
	}

	m := metrics.New()
	p := &pipeline.Pipeline{
		Universe: uni,
		Selector: selector.New(fetcher, selector.Options{
			PriceCeiling:    cfg.Strategy.PriceCeiling,
			ProfitTargetPct: cfg.Strategy.ProfitTargetPct,
			StopLossPct:     cfg.Strategy.StopLossPct,
			HistoryDays:     cfg.Strategy.HistoryDays,
		}, m),
		Monitor:  monitor.New(fetcher, cfg.Monitor.Interval, cfg.Monitor.Window, m),
		Recorder: recs,
		Notifier: tn,
	}

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	if cfg.Server.Enabled {
		srv = server.New(cfg.Server.Addr, m.Registry)
		go func() {
			if err := srv.Start(); err != nil {
				log.Errorf("http server: %v", err)
			}
		}()
	}

	var (
		scan *task.Task
		done <-chan struct{}
	)
	if cfg.Schedule.ScanCron != "" {
		sched := scheduler.NewScheduler(ctx, p.Job)
		if err := sched.Register(cfg.Schedule.ScanCron); err != nil {
			return errors.Wrap(err, "register cron task")
		}
		sched.Start()
		defer sched.Stop()
		if os.Getenv("RUN_ON_START") == "true" {
			log.Info("RUN_ON_START enabled, scanning now")
			sched.RunNow()
		}
	} else {
		scan = task.Start(ctx, "scan", p.Job)
		if srv == nil {
			done = scan.Done()
		}
	}

	log.Info("StockScout is running. Press Ctrl+C to stop.")
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, stopping...")
	case <-done:
	}
	if scan != nil {
		scan.Cancel()
		_ = scan.Wait()
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("http server shutdown: %v", err)
		}
	}
	return nil
}

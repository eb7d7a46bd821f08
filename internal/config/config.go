package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Strategy struct {
		PriceCeiling    float64 `yaml:"price_ceiling"`
		ProfitTargetPct float64 `yaml:"profit_target_pct"`
		StopLossPct     float64 `yaml:"stop_loss_pct"`
		HistoryDays     int     `yaml:"history_days"`
	} `yaml:"strategy"`
	Monitor struct {
		Interval time.Duration `yaml:"interval"`
		Window   int           `yaml:"window"`
	} `yaml:"monitor"`
	Universe struct {
		Source   string   `yaml:"source"` // csv, alpaca or static
		URL      string   `yaml:"url"`
		Exchange string   `yaml:"exchange"`
		Symbols  []string `yaml:"symbols"`
	} `yaml:"universe"`
	DataSource struct {
		Provider string `yaml:"provider"` // yahoo, alpaca or rest
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"data_source"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		BaseURL   string `yaml:"base_url"`
		DataURL   string `yaml:"data_url"`
		Feed      string `yaml:"feed"`
	} `yaml:"alpaca"`
	Recorder struct {
		CSVPath    string `yaml:"csv_path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"recorder"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Server struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"server"`
	Schedule struct {
		ScanCron string `yaml:"scan_cron"`
	} `yaml:"schedule"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Server.Enabled = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	floats := map[string]*float64{
		"PRICE_CEILING":     &cfg.Strategy.PriceCeiling,
		"PROFIT_TARGET_PCT": &cfg.Strategy.ProfitTargetPct,
		"STOP_LOSS_PCT":     &cfg.Strategy.StopLossPct,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("parse %s: %w", key, err)
			}
			*dst = f
		}
	}
	if v := os.Getenv("MONITOR_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse MONITOR_INTERVAL: %w", err)
		}
		cfg.Monitor.Interval = d
	}
	if v := os.Getenv("SERVER_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("parse SERVER_ENABLED: %w", err)
		}
		cfg.Server.Enabled = b
	}
	if v := os.Getenv("UNIVERSE_SYMBOLS"); v != "" {
		cfg.Universe.Source = "static"
		cfg.Universe.Symbols = splitList(v)
	}

	strs := map[string]*string{
		"UNIVERSE_SOURCE":     &cfg.Universe.Source,
		"DATA_PROVIDER":       &cfg.DataSource.Provider,
		"DATA_BASE_URL":       &cfg.DataSource.BaseURL,
		"DATA_API_KEY":        &cfg.DataSource.APIKey,
		"APCA_API_KEY_ID":     &cfg.Alpaca.APIKey,
		"APCA_API_SECRET_KEY": &cfg.Alpaca.APISecret,
		"APCA_API_BASE_URL":   &cfg.Alpaca.BaseURL,
		"APCA_API_DATA_URL":   &cfg.Alpaca.DataURL,
		"CSV_PATH":            &cfg.Recorder.CSVPath,
		"SQLITE_PATH":         &cfg.Recorder.SQLitePath,
		"TELEGRAM_BOT_TOKEN":  &cfg.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":    &cfg.Telegram.ChatID,
		"SERVER_ADDR":         &cfg.Server.Addr,
		"CRON_SCAN":           &cfg.Schedule.ScanCron,
		"LOG_LEVEL":           &cfg.Log.Level,
		"HTTPS_PROXY":         &cfg.Proxy,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func applyDefaults(cfg *Config) {
	if cfg.Strategy.PriceCeiling == 0 {
		cfg.Strategy.PriceCeiling = 5
	}
	if cfg.Strategy.ProfitTargetPct == 0 {
		cfg.Strategy.ProfitTargetPct = 10
	}
	if cfg.Strategy.StopLossPct == 0 {
		cfg.Strategy.StopLossPct = 10
	}
	if cfg.Strategy.HistoryDays == 0 {
		cfg.Strategy.HistoryDays = 365
	}
	if cfg.Monitor.Interval == 0 {
		cfg.Monitor.Interval = 60 * time.Second
	}
	if cfg.Monitor.Window == 0 {
		cfg.Monitor.Window = 5
	}
	if cfg.Universe.Source == "" {
		cfg.Universe.Source = "csv"
		if len(cfg.Universe.Symbols) > 0 {
			cfg.Universe.Source = "static"
		}
	}
	if cfg.Universe.Exchange == "" {
		cfg.Universe.Exchange = "NASDAQ"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Alpaca.Feed == "" {
		cfg.Alpaca.Feed = "iex"
	}
	if cfg.Recorder.CSVPath == "" {
		cfg.Recorder.CSVPath = "stock_recommendations.csv"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Strategy.PriceCeiling <= 0 {
		return fmt.Errorf("strategy.price_ceiling must be positive")
	}
	if c.Strategy.ProfitTargetPct <= 0 {
		return fmt.Errorf("strategy.profit_target_pct must be positive")
	}
	if c.Strategy.StopLossPct <= 0 || c.Strategy.StopLossPct >= 100 {
		return fmt.Errorf("strategy.stop_loss_pct must be in (0, 100)")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	if c.Monitor.Window <= 0 {
		return fmt.Errorf("monitor.window must be positive")
	}

	switch c.Universe.Source {
	case "csv", "alpaca":
	case "static":
		if len(c.Universe.Symbols) == 0 {
			return fmt.Errorf("universe.symbols is required for the static source")
		}
	default:
		return fmt.Errorf("unknown universe.source %q", c.Universe.Source)
	}

	switch c.DataSource.Provider {
	case "yahoo", "alpaca":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("unknown data_source.provider %q", c.DataSource.Provider)
	}

	if c.DataSource.Provider == "alpaca" || c.Universe.Source == "alpaca" {
		if c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "" {
			return fmt.Errorf("alpaca.api_key and alpaca.api_secret are required")
		}
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

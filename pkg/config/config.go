package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Portfolio struct {
		File  string `yaml:"file"`
		Sheet string `yaml:"sheet"`
	} `yaml:"portfolio"`

	Data struct {
		Provider        string `yaml:"provider"` // yahoo or csv
		CSVDir          string `yaml:"csv_dir"`
		CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`
	} `yaml:"data"`

	Analysis struct {
		TrailTriggerPct        float64 `yaml:"trail_trigger_pct"`
		SLAlertThreshold       int     `yaml:"sl_alert_threshold"`
		SLApproachThresholdPct float64 `yaml:"sl_approach_threshold_pct"`
		EnableMultiTimeframe   bool    `yaml:"enable_multi_timeframe"`
	} `yaml:"analysis"`

	Email struct {
		Enabled         bool   `yaml:"enabled"`
		SMTPHost        string `yaml:"smtp_host"`
		SMTPPort        int    `yaml:"smtp_port"`
		Sender          string `yaml:"sender"`
		Password        string `yaml:"password"`
		Recipient       string `yaml:"recipient"`
		CooldownMinutes int    `yaml:"cooldown_minutes"`
	} `yaml:"email"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`

	Schedule struct {
		Cron            string `yaml:"cron"`
		MarketHoursOnly bool   `yaml:"market_hours_only"`
	} `yaml:"schedule"`

	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Addr    string `yaml:"addr"`
	} `yaml:"metrics"`

	Concurrency int `yaml:"concurrency"`
}

// Load starts from the defaults, layers the YAML file over them, then
// applies environment variable overrides. A missing file is not an
// error; the defaults describe a runnable setup. Because the file is
// unmarshalled over the defaults, an explicit 0 in the file (say
// `sl_alert_threshold: 0`) is kept, while an absent key falls back.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides, matching the names the monitor
	// has always read from CI secrets
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		cfg.Email.Sender = v
		cfg.Email.Enabled = true
	}
	if v := os.Getenv("SENDER_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("RECIPIENT_EMAIL"); v != "" {
		cfg.Email.Recipient = v
	}
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("PORTFOLIO_FILE"); v != "" {
		cfg.Portfolio.File = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MONITOR_CRON"); v != "" {
		cfg.Schedule.Cron = v
	}

	return cfg, nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.Portfolio.File = "my_portfolio.xlsx"
	c.Portfolio.Sheet = "Portfolio"
	c.Data.Provider = "yahoo"
	c.Data.CacheTTLMinutes = 5
	c.Analysis.TrailTriggerPct = 3.0
	c.Analysis.SLAlertThreshold = 50
	c.Analysis.SLApproachThresholdPct = 2.0
	c.Email.SMTPHost = "smtp.gmail.com"
	c.Email.SMTPPort = 587
	c.Email.CooldownMinutes = 60
	c.Database.SQLitePath = "data/portfolio_monitor.db"
	// every 15 minutes during IST trading hours, weekdays
	c.Schedule.Cron = "0 */15 9-15 * * 1-5"
	c.Metrics.Addr = ":9090"
	c.Concurrency = 4
	return c
}

// Validate checks cross-field requirements
func (c *Config) Validate() error {
	if c.Analysis.SLAlertThreshold < 0 || c.Analysis.SLAlertThreshold > 100 {
		return fmt.Errorf("analysis.sl_alert_threshold must be in [0,100], got %d", c.Analysis.SLAlertThreshold)
	}
	if c.Analysis.TrailTriggerPct < 0 {
		return fmt.Errorf("analysis.trail_trigger_pct must not be negative")
	}
	if c.Data.Provider != "yahoo" && c.Data.Provider != "csv" {
		return fmt.Errorf("data.provider must be yahoo or csv, got %q", c.Data.Provider)
	}
	if c.Data.Provider == "csv" && c.Data.CSVDir == "" {
		return fmt.Errorf("data.csv_dir is required when data.provider is csv")
	}
	if c.Email.Enabled {
		if c.Email.Sender == "" || c.Email.Password == "" || c.Email.Recipient == "" {
			return fmt.Errorf("email.sender, email.password and email.recipient are required when email is enabled")
		}
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "my_portfolio.xlsx", cfg.Portfolio.File)
	assert.Equal(t, "Portfolio", cfg.Portfolio.Sheet)
	assert.Equal(t, "yahoo", cfg.Data.Provider)
	assert.Equal(t, 5, cfg.Data.CacheTTLMinutes)
	assert.Equal(t, 3.0, cfg.Analysis.TrailTriggerPct)
	assert.Equal(t, 50, cfg.Analysis.SLAlertThreshold)
	assert.Equal(t, 2.0, cfg.Analysis.SLApproachThresholdPct)
	assert.Equal(t, "smtp.gmail.com", cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, 60, cfg.Email.CooldownMinutes)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	content := `
portfolio:
  file: positions.xlsx
data:
  provider: csv
  csv_dir: testdata
analysis:
  trail_trigger_pct: 2.0
  sl_alert_threshold: 60
  enable_multi_timeframe: true
email:
  enabled: true
  sender: alerts@example.com
  password: secret
  recipient: me@example.com
concurrency: 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "positions.xlsx", cfg.Portfolio.File)
	assert.Equal(t, "csv", cfg.Data.Provider)
	assert.Equal(t, 2.0, cfg.Analysis.TrailTriggerPct)
	assert.Equal(t, 60, cfg.Analysis.SLAlertThreshold)
	assert.True(t, cfg.Analysis.EnableMultiTimeframe)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadKeepsExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monitor.yaml")
	content := `
data:
  cache_ttl_minutes: 0
analysis:
  trail_trigger_pct: 0
  sl_alert_threshold: 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// An explicit 0 is a valid setting, not a request for the default.
	assert.Equal(t, 0, cfg.Data.CacheTTLMinutes)
	assert.Equal(t, 0.0, cfg.Analysis.TrailTriggerPct)
	assert.Equal(t, 0, cfg.Analysis.SLAlertThreshold)
	assert.NoError(t, cfg.Validate())

	// Absent keys still fall back.
	assert.Equal(t, "my_portfolio.xlsx", cfg.Portfolio.File)
	assert.Equal(t, 60, cfg.Email.CooldownMinutes)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SENDER_EMAIL", "bot@example.com")
	t.Setenv("SENDER_PASSWORD", "app-password")
	t.Setenv("RECIPIENT_EMAIL", "owner@example.com")
	t.Setenv("SMTP_PORT", "465")
	t.Setenv("PORTFOLIO_FILE", "holdings.xlsx")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, "bot@example.com", cfg.Email.Sender)
	assert.Equal(t, 465, cfg.Email.SMTPPort)
	assert.Equal(t, "holdings.xlsx", cfg.Portfolio.File)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.Analysis.SLAlertThreshold = 150
	assert.Error(t, cfg.Validate())

	cfg.Analysis.SLAlertThreshold = 50
	cfg.Data.Provider = "csv"
	cfg.Data.CSVDir = ""
	assert.Error(t, cfg.Validate())

	cfg.Data.Provider = "yahoo"
	cfg.Email.Enabled = true
	cfg.Email.Sender = ""
	assert.Error(t, cfg.Validate())
}

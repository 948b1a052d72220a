package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/assignwatch/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "ghp_test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", cfg.GitHubToken)
	assert.Equal(t, 1440*time.Minute, cfg.Schedule.ReminderAfter)
	assert.Equal(t, 4320*time.Minute, cfg.Schedule.DisqualifyAfter)
	assert.Equal(t, 10*time.Minute, cfg.SweepInterval)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "assignwatch.db", cfg.DBPath)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("ASSIGNWATCH_REMINDER_AFTER_MINUTES", "90")
	t.Setenv("ASSIGNWATCH_DISQUALIFY_AFTER_MINUTES", "240")
	t.Setenv("ASSIGNWATCH_SWEEP_INTERVAL", "2m30s")
	t.Setenv("ASSIGNWATCH_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("ASSIGNWATCH_DB_PATH", "/data/watches.db")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Schedule.ReminderAfter)
	assert.Equal(t, 240*time.Minute, cfg.Schedule.DisqualifyAfter)
	assert.Equal(t, 2*time.Minute+30*time.Second, cfg.SweepInterval)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/data/watches.db", cfg.DBPath)
}

func TestLoad_ZeroThresholdsDisableEscalation(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("ASSIGNWATCH_REMINDER_AFTER_MINUTES", "0")
	t.Setenv("ASSIGNWATCH_DISQUALIFY_AFTER_MINUTES", "0")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Zero(t, cfg.Schedule.ReminderAfter)
	assert.Zero(t, cfg.Schedule.DisqualifyAfter)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("ASSIGNWATCH_REMINDER_AFTER_MINUTES", "soon")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ASSIGNWATCH_REMINDER_AFTER_MINUTES")
}

func TestLoad_NegativeThreshold(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("ASSIGNWATCH_DISQUALIFY_AFTER_MINUTES", "-10")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidSweepInterval(t *testing.T) {
	t.Setenv("ASSIGNWATCH_GITHUB_TOKEN", "ghp_test")
	t.Setenv("ASSIGNWATCH_SWEEP_INTERVAL", "whenever")

	_, err := config.Load()
	assert.Error(t, err)
}

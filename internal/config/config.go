// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ericfisherdev/assignwatch/internal/domain/model"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken   string
	Schedule      model.EscalationSchedule
	SweepInterval time.Duration
	ListenAddr    string
	DBPath        string
}

// Load reads configuration from environment variables and returns a validated
// Config. ASSIGNWATCH_GITHUB_TOKEN is required. Optional variables with
// defaults: ASSIGNWATCH_REMINDER_AFTER_MINUTES (1440, 0 disables reminders),
// ASSIGNWATCH_DISQUALIFY_AFTER_MINUTES (4320, 0 disables unassignment),
// ASSIGNWATCH_SWEEP_INTERVAL (10m), ASSIGNWATCH_LISTEN_ADDR (127.0.0.1:8080),
// ASSIGNWATCH_DB_PATH (assignwatch.db). Unparsable values fail here, before
// any item is evaluated.
func Load() (*Config, error) {
	token := os.Getenv("ASSIGNWATCH_GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("ASSIGNWATCH_GITHUB_TOKEN is required")
	}

	reminderAfter, err := thresholdMinutes("ASSIGNWATCH_REMINDER_AFTER_MINUTES", 1440)
	if err != nil {
		return nil, err
	}

	disqualifyAfter, err := thresholdMinutes("ASSIGNWATCH_DISQUALIFY_AFTER_MINUTES", 4320)
	if err != nil {
		return nil, err
	}

	sweepInterval := 10 * time.Minute
	if v, ok := os.LookupEnv("ASSIGNWATCH_SWEEP_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("ASSIGNWATCH_SWEEP_INTERVAL has invalid duration %q: %w", v, err)
		}
		sweepInterval = parsed
	}

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("ASSIGNWATCH_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "assignwatch.db"
	if v, ok := os.LookupEnv("ASSIGNWATCH_DB_PATH"); ok {
		dbPath = v
	}

	return &Config{
		GitHubToken: token,
		Schedule: model.EscalationSchedule{
			ReminderAfter:   reminderAfter,
			DisqualifyAfter: disqualifyAfter,
		},
		SweepInterval: sweepInterval,
		ListenAddr:    listenAddr,
		DBPath:        dbPath,
	}, nil
}

// thresholdMinutes reads a whole-minute threshold from the environment.
// Zero is a valid value meaning the escalation is disabled.
func thresholdMinutes(name string, defaultMinutes int) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return time.Duration(defaultMinutes) * time.Minute, nil
	}

	minutes, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid minute count %q: %w", name, v, err)
	}
	if minutes < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %d", name, minutes)
	}

	return time.Duration(minutes) * time.Minute, nil
}

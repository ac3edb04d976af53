// Package config loads process configuration from environment variables
// (and an optional .env file), with per-ENV defaults mirroring
// mobius/config.py's DefaultConfig/DevelopmentConfig/TestConfig/StageConfig
// class hierarchy.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment-driven setting the service needs.
type Config struct {
	Env      string
	LogLevel string
	Syslog   bool
	// SyslogAddr is the host:port logs are sent to instead of stdout when
	// Syslog is true, mirroring mobius.config.DefaultConfig.PAPERTRAIL.
	SyslogAddr string

	TaskingFetchInterval time.Duration
	StaffjoyAPIKey       string
	MaxHoursPerShift     int

	UnassignedPenalty        float64
	MinHoursViolationPenalty float64
	Threads                  int

	TuneFile              string
	HappyCalculationTimeout time.Duration

	KillOnError bool
	KillDelay   time.Duration

	// DoubleDecrementExistingShiftHours and StrictMinMaxClamp preserve
	// legacy worker-preprocessing quirks; see internal/worker and
	// DESIGN.md.
	DoubleDecrementExistingShiftHours bool
	StrictMinMaxClamp                 bool
}

// Load reads configuration from the process environment, applying the
// defaults for the running ENV (test, dev, stage, or prod).
func Load() (Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "prod")
	cfg := defaultsFor(env)

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Syslog = getBoolEnv("SYSLOG", cfg.Syslog)
	cfg.SyslogAddr = getEnv("PAPERTRAIL", cfg.SyslogAddr)

	cfg.TaskingFetchInterval = getDurationEnv("TASKING_FETCH_INTERVAL", cfg.TaskingFetchInterval)
	cfg.StaffjoyAPIKey = getEnv("STAFFJOY_API_KEY", cfg.StaffjoyAPIKey)
	cfg.MaxHoursPerShift = getIntEnv("MAX_HOURS_PER_SHIFT", cfg.MaxHoursPerShift)

	cfg.UnassignedPenalty = getFloatEnv("UNASSIGNED_PENALTY", cfg.UnassignedPenalty)
	cfg.MinHoursViolationPenalty = getFloatEnv("MIN_HOURS_VIOLATION_PENALTY", cfg.MinHoursViolationPenalty)
	cfg.Threads = getIntEnv("THREADS", cfg.Threads)

	cfg.TuneFile = getEnv("TUNE_FILE", cfg.TuneFile)
	cfg.HappyCalculationTimeout = getDurationEnv("HAPPY_CALCULATION_TIMEOUT", cfg.HappyCalculationTimeout)

	cfg.KillOnError = getBoolEnv("KILL_ON_ERROR", cfg.KillOnError)
	cfg.KillDelay = getDurationEnv("KILL_DELAY", cfg.KillDelay)

	cfg.DoubleDecrementExistingShiftHours = getBoolEnv("DOUBLE_DECREMENT_EXISTING_SHIFT_HOURS", cfg.DoubleDecrementExistingShiftHours)
	cfg.StrictMinMaxClamp = getBoolEnv("STRICT_MIN_MAX_CLAMP", cfg.StrictMinMaxClamp)

	return cfg, nil
}

// defaultsFor mirrors mobius.config's per-environment class hierarchy: each
// environment starts from the "prod" defaults and overrides a handful of
// fields.
func defaultsFor(env string) Config {
	base := Config{
		Env:                      "prod",
		LogLevel:                 "info",
		Syslog:                   true,
		SyslogAddr:               "logs2.papertrailapp.com:12345",
		TaskingFetchInterval:     20 * time.Second,
		MaxHoursPerShift:         23,
		UnassignedPenalty:        -1000,
		MinHoursViolationPenalty: -1000,
		Threads:                  16,
		TuneFile:                 "tuning.prm",
		HappyCalculationTimeout:  20 * time.Minute,
		KillOnError:              true,
		KillDelay:                60 * time.Second,
		DoubleDecrementExistingShiftHours: true,
		StrictMinMaxClamp:                 false,
	}

	switch env {
	case "stage":
		base.Env = "stage"
	case "dev":
		base.Env = "dev"
		base.LogLevel = "debug"
		base.Syslog = false
		base.TaskingFetchInterval = 5 * time.Second
		base.StaffjoyAPIKey = "staffjoydev"
		base.Threads = 16
		base.KillOnError = false
	case "test":
		base.Env = "test"
		base.LogLevel = "debug"
		base.Syslog = false
		base.Threads = 6
		base.KillOnError = false
	}

	return base
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

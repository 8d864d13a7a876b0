package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Configuration holds the runtime settings shared by the baseline and
// detection entry points. Values come from an optional env file plus the
// process environment; anything unset falls back to a local default.
type Configuration struct {
	// BaselinePath is where the trusted baseline document lives.
	BaselinePath string

	// ReportsDir receives the timestamped detection reports.
	ReportsDir string

	// HistoryDBPath is the local run-history database. Empty disables
	// history recording entirely.
	HistoryDBPath string

	// ScopeFile optionally overrides the built-in collection scope profile.
	ScopeFile string

	// Per-collector command timeouts. A command that exceeds its budget is
	// treated as having produced empty output; it is never retried.
	CrontabTimeout  time.Duration
	ServiceTimeout  time.Duration
	SUIDScanTimeout time.Duration
}

// Load reads configuration from the given env file (if present) and the
// process environment. Malformed numeric values are fatal: a bad timeout is
// an operator error, not a collection failure to degrade around.
func Load(envFile string) Configuration {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				log.Fatalf("Error loading env file %s: %v", envFile, err)
			}
		}
	}

	return Configuration{
		BaselinePath:    envOr("PD_BASELINE_PATH", "baseline/baseline_state.json"),
		ReportsDir:      envOr("PD_REPORTS_DIR", "reports"),
		HistoryDBPath:   envAllowEmpty("PD_HISTORY_DB", "data/history.db"),
		ScopeFile:       os.Getenv("PD_SCOPE_FILE"),
		CrontabTimeout:  envSeconds("PD_CRONTAB_TIMEOUT_SECONDS", 5),
		ServiceTimeout:  envSeconds("PD_SERVICE_TIMEOUT_SECONDS", 10),
		SUIDScanTimeout: envSeconds("PD_SUID_TIMEOUT_SECONDS", 15),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envAllowEmpty falls back only when the variable is unset. A set-but-empty
// value is an explicit choice (it disables history) and must not be
// replaced by the default.
func envAllowEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envSeconds(key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("failed to parse %s as integer seconds: %v", key, err)
	}
	if seconds <= 0 {
		log.Fatalf("%s must be positive, got %d", key, seconds)
	}

	return time.Duration(seconds) * time.Second
}

// Package config loads process configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"github.com/revops-labs/pulse/internal/risk"
)

// Config holds every tunable for the pulse process.
type Config struct {
	Environment string
	HTTPAddr    string

	// DatabasePath points at the embedded sqlite file. ":memory:" is
	// accepted for ephemeral runs.
	DatabasePath string

	// SeedOnStart populates the synthetic portfolio when the accounts
	// table is empty.
	SeedOnStart bool
	SeedSize    int

	Risk risk.Thresholds

	Tracing TracingConfig

	Snapshot SnapshotConfig
}

// TracingConfig configures the OTLP trace exporter.
type TracingConfig struct {
	Enabled          bool
	ServiceName      string
	ServiceVersion   string
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// SnapshotConfig controls the portfolio snapshot worker.
type SnapshotConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads configuration from the environment, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		Environment:  getString("PULSE_ENV", "development"),
		HTTPAddr:     getString("PULSE_HTTP_ADDR", ":8080"),
		DatabasePath: getString("PULSE_DB_PATH", "pulse.db"),
		SeedOnStart:  getBool("PULSE_SEED_ON_START", true),
		SeedSize:     getInt("PULSE_SEED_SIZE", 200),
		Risk: risk.Thresholds{
			CriticalHealth:    getInt("PULSE_RISK_CRITICAL_HEALTH", 0),
			WarningHealth:     getInt("PULSE_RISK_WARNING_HEALTH", 0),
			RenewalWindowDays: getInt("PULSE_RISK_RENEWAL_WINDOW_DAYS", 0),
			EscalationARR:     getDecimal("PULSE_RISK_ESCALATION_ARR"),
			DriftDays:         getInt("PULSE_RISK_DRIFT_DAYS", 0),
		},
		Tracing: TracingConfig{
			Enabled:          getBool("PULSE_TRACING_ENABLED", false),
			ServiceName:      getString("PULSE_SERVICE_NAME", "pulse"),
			ServiceVersion:   getString("PULSE_SERVICE_VERSION", "dev"),
			ExporterEndpoint: getString("PULSE_OTLP_ENDPOINT", ""),
			ExporterProtocol: getString("PULSE_OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    getFloat("PULSE_TRACE_SAMPLING_RATIO", 0.1),
		},
		Snapshot: SnapshotConfig{
			Enabled:  getBool("PULSE_SNAPSHOT_ENABLED", true),
			Interval: getDuration("PULSE_SNAPSHOT_INTERVAL", time.Hour),
		},
	}
}

// IsProduction reports whether the process runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Module provides the Config to the fx graph.
var Module = fx.Module("config",
	fx.Provide(Load),
)

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return value
}

func getDecimal(key string) decimal.Decimal {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return decimal.Zero
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return value
}

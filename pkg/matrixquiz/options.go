package matrixquiz

import "time"

// Options configures a Quiz instance.
type Options struct {
	// Headless runs without a window. Run only waits for its context.
	Headless bool

	// Seed overrides the configured seed when non-zero, making the
	// sequence of secret matrices reproducible.
	Seed int64

	// StrictConfig rejects configurations that only produce warnings.
	StrictConfig bool

	// Logger receives structured log output. Nil disables logging.
	Logger Logger

	// Metrics collects counters for this instance. Nil uses DefaultMetrics().
	Metrics *Metrics

	// ErrorTracker records categorized runtime errors. Nil disables tracking.
	ErrorTracker *ErrorTracker

	// WatchConfig reloads the configuration file when it changes on disk.
	// Only effective for instances created with New and a non-empty path.
	WatchConfig bool

	// WatchDebounce is the quiet period before a change triggers a reload.
	// Zero uses DefaultWatchDebounce.
	WatchDebounce time.Duration

	// ReloadBreaker configures the breaker that guards config reloads.
	// The zero value uses DefaultCircuitBreakerConfig.
	ReloadBreaker CircuitBreakerConfig
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		WatchDebounce: DefaultWatchDebounce,
	}
}

// Logger is a minimal structured logging interface. *SlogAdapter
// implements it on top of log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

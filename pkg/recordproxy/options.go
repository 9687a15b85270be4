package recordproxy

import (
	"log/slog"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/observability"
)

// classConfig holds the settings shared by every proxy of a Class.
type classConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

func defaultClassConfig() classConfig {
	return classConfig{
		metrics: observability.NoopMetrics{},
	}
}

// Option configures a Class.
type Option func(*classConfig)

// WithLogger logs relay attach and detach at debug level, tagged with the
// record's CID and the proxy's id. Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *classConfig) {
		c.logger = logger
	}
}

// WithMetrics records registration counts and relay toggles.
// Default: observability.NoopMetrics.
//
// Example:
//
//	class := recordproxy.Extend(note, recordproxy.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *classConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

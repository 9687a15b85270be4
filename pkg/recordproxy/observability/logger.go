// Package observability provides logging helpers, metrics and tracing for
// recordproxy: relay attach/detach on proxies and sync requests made by
// persistence backends.
//
// Features:
//   - Structured logging via slog
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in. A nil logger is silent and the no-op recorder
// and span manager cost nothing.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger returns logger with the identity of a proxy and the record
// it fronts attached to every entry.
//
// Example:
//
//	logger = EnrichLogger(logger, rec.CID(), relayID)
//	logger.Debug("relay attached") // includes record_cid and proxy_id
func EnrichLogger(logger *slog.Logger, recordCID, proxyID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("record_cid", recordCID),
		slog.String("proxy_id", proxyID),
	)
}

// LogRelayAttached logs that a proxy started relaying its record's events.
func LogRelayAttached(logger *slog.Logger, registrations int) {
	if logger == nil {
		return
	}
	logger.Debug("upstream relay attached",
		slog.Int("registrations", registrations),
	)
}

// LogRelayDetached logs that a proxy stopped relaying.
func LogRelayDetached(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Debug("upstream relay detached")
}

// LogSyncStart logs a persistence request.
func LogSyncStart(logger *slog.Logger, method, url string) {
	if logger == nil {
		return
	}
	logger.Debug("sync starting",
		slog.String("method", method),
		slog.String("url", url),
	)
}

// LogSyncComplete logs a successful persistence request.
func LogSyncComplete(logger *slog.Logger, method, url string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("sync completed",
		slog.String("method", method),
		slog.String("url", url),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSyncError logs a failed persistence request.
func LogSyncError(logger *slog.Logger, method, url string, err error, attempts int) {
	if logger == nil {
		return
	}
	logger.Error("sync failed",
		slog.String("method", method),
		slog.String("url", url),
		slog.String("error", err.Error()),
		slog.Int("attempts", attempts),
	)
}

// LogSyncRetry logs a transient failure that will be retried.
func LogSyncRetry(logger *slog.Logger, method string, attempt int, err error, wait time.Duration) {
	if logger == nil {
		return
	}
	logger.Warn("sync retrying",
		slog.String("method", method),
		slog.Int("attempt", attempt),
		slog.String("error", err.Error()),
		slog.Duration("backoff", wait),
	)
}

// TimedOperation measures the duration of an operation.
// The returned function reports the elapsed time in milliseconds.
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}

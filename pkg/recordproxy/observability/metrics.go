package observability

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder receives proxy and persistence measurements.
type MetricsRecorder interface {
	// RecordRelayToggle counts a proxy attaching (true) or detaching
	// (false) its upstream relay.
	RecordRelayToggle(ctx context.Context, attached bool)

	// RecordRegistrations moves the live registration gauge by delta.
	RecordRegistrations(ctx context.Context, delta int64)

	// RecordSync records one persistence request.
	RecordSync(ctx context.Context, method string, duration time.Duration, err error)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

var _ MetricsRecorder = NoopMetrics{}

// RecordRelayToggle does nothing.
func (NoopMetrics) RecordRelayToggle(context.Context, bool) {}

// RecordRegistrations does nothing.
func (NoopMetrics) RecordRegistrations(context.Context, int64) {}

// RecordSync does nothing.
func (NoopMetrics) RecordSync(context.Context, string, time.Duration, error) {}

// Instrument names.
const (
	MetricRelayToggles  = "recordproxy.relay.toggles"
	MetricRegistrations = "recordproxy.registrations"
	MetricSyncRequests  = "recordproxy.sync.requests"
	MetricSyncLatency   = "recordproxy.sync.latency_ms"
	MetricSyncErrors    = "recordproxy.sync.errors"
)

var (
	attachedAttr = metric.WithAttributes(attribute.String("state", "attached"))
	detachedAttr = metric.WithAttributes(attribute.String("state", "detached"))
)

var _ MetricsRecorder = (*instruments)(nil)

type instruments struct {
	toggles       metric.Int64Counter
	registrations metric.Int64UpDownCounter
	requests      metric.Int64Counter
	latency       metric.Float64Histogram
	failures      metric.Int64Counter
}

// newInstruments creates every instrument on meter, joining any errors.
func newInstruments(meter metric.Meter) (*instruments, error) {
	var (
		in   instruments
		errs []error
	)
	track := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	in.toggles, err = meter.Int64Counter(MetricRelayToggles,
		metric.WithDescription("Upstream relay attach and detach operations"))
	track(err)
	in.registrations, err = meter.Int64UpDownCounter(MetricRegistrations,
		metric.WithDescription("Live listener registrations held by proxies"))
	track(err)
	in.requests, err = meter.Int64Counter(MetricSyncRequests,
		metric.WithDescription("Persistence requests"))
	track(err)
	in.latency, err = meter.Float64Histogram(MetricSyncLatency,
		metric.WithDescription("Persistence request latency"), metric.WithUnit("ms"))
	track(err)
	in.failures, err = meter.Int64Counter(MetricSyncErrors,
		metric.WithDescription("Failed persistence requests"))
	track(err)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &in, nil
}

var (
	shared     *instruments
	sharedErr  error
	sharedOnce sync.Once
)

// NewMetricsRecorder returns a recorder on the global OTel meter provider.
// Instruments are created once per process, so set the provider first:
//
//	otel.SetMeterProvider(provider)
//
// If the instruments cannot be created it logs a warning and returns
// NoopMetrics.
func NewMetricsRecorder() MetricsRecorder {
	sharedOnce.Do(func() {
		shared, sharedErr = newInstruments(otel.Meter("recordproxy"))
	})
	if sharedErr != nil {
		slog.Warn("metrics disabled", slog.String("error", sharedErr.Error()))
		return NoopMetrics{}
	}
	return shared
}

func (in *instruments) RecordRelayToggle(ctx context.Context, attached bool) {
	if attached {
		in.toggles.Add(ctx, 1, attachedAttr)
		return
	}
	in.toggles.Add(ctx, 1, detachedAttr)
}

func (in *instruments) RecordRegistrations(ctx context.Context, delta int64) {
	in.registrations.Add(ctx, delta)
}

func (in *instruments) RecordSync(ctx context.Context, method string, duration time.Duration, err error) {
	opt := metric.WithAttributes(attribute.String("method", method))
	in.requests.Add(ctx, 1, opt)
	in.latency.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
	if err != nil {
		in.failures.Add(ctx, 1, opt)
	}
}

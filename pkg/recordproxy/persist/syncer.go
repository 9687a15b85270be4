package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	proxyerrors "github.com/randalmurphal/recordproxy/pkg/recordproxy/errors"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/observability"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// Syncer persists records to a Store. Its Sync method is a record.SyncFunc:
//
//	syncer := persist.NewSyncer(store)
//	note := record.New(attrs, record.WithURLRoot("/notes"), record.WithSync(syncer.Sync))
//
// Documents live under the record's URL. Creating a record assigns it a
// UUID under its id attribute.
type Syncer struct {
	store   Store
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	retry   proxyerrors.Policy
	newID   func() string
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithLogger sets the logger for sync requests. Nil disables logging.
func WithLogger(logger *slog.Logger) SyncerOption {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m observability.MetricsRecorder) SyncerOption {
	return func(s *Syncer) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithSpans sets the span manager.
func WithSpans(m observability.SpanManager) SyncerOption {
	return func(s *Syncer) {
		if m != nil {
			s.spans = m
		}
	}
}

// WithRetry sets the retry policy for store operations.
// Default: errors.DefaultPolicy.
func WithRetry(policy proxyerrors.Policy) SyncerOption {
	return func(s *Syncer) {
		s.retry = policy
	}
}

// WithIDGenerator replaces the generator of ids for created records.
func WithIDGenerator(fn func() string) SyncerOption {
	return func(s *Syncer) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSyncer creates a Syncer over store.
func NewSyncer(store Store, opts ...SyncerOption) *Syncer {
	s := &Syncer{
		store:   store,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		retry:   proxyerrors.DefaultPolicy,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync performs method for model. It fires "request" on model, runs the
// store operation (retrying lock contention) and then completes the call
// through opts.Resolve or opts.Reject. The error, if any, is also returned.
func (s *Syncer) Sync(ctx context.Context, method record.Method, model record.Model, opts *record.Options) error {
	url := opts.URL
	if url == "" {
		var err error
		if url, err = model.URL(); err != nil {
			return err
		}
	}

	model.Trigger(record.EventRequest, model, nil, opts)

	ctx, span := s.spans.StartSyncSpan(ctx, string(method), url)
	observability.LogSyncStart(s.logger, string(method), url)
	done := observability.TimedOperation()

	policy := s.retry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		observability.LogSyncRetry(s.logger, string(method), attempt, err, wait)
		s.spans.AddSpanEvent(ctx, "retry", attribute.Int("attempt", attempt))
	}
	result := proxyerrors.Retry(ctx, policy, func(ctx context.Context) (record.Attrs, error) {
		return s.do(ctx, method, url, model, opts)
	})

	s.metrics.RecordSync(ctx, string(method), result.Elapsed, result.Err)
	s.spans.EndSpanWithError(span, result.Err)

	if result.Err != nil {
		observability.LogSyncError(s.logger, string(method), url, result.Err, result.Attempts)
		opts.Reject(result.Err)
		return result.Err
	}
	observability.LogSyncComplete(s.logger, string(method), url, done())
	opts.Resolve(result.Value)
	return nil
}

// do runs one attempt of method and returns the attributes the backend
// reports back, if any.
func (s *Syncer) do(ctx context.Context, method record.Method, url string, model record.Model, opts *record.Options) (record.Attrs, error) {
	switch method {
	case record.MethodCreate:
		id := s.newID()
		attrs := model.ToJSON()
		attrs[model.IDAttribute()] = id
		if err := s.put(ctx, joinKey(url, id), attrs); err != nil {
			return nil, err
		}
		return record.Attrs{model.IDAttribute(): id}, nil

	case record.MethodRead:
		return s.get(ctx, url)

	case record.MethodUpdate:
		return nil, s.put(ctx, url, model.ToJSON())

	case record.MethodPatch:
		current, err := s.get(ctx, url)
		if err != nil {
			return nil, err
		}
		for k, v := range opts.Attrs {
			current[k] = v
		}
		return nil, s.put(ctx, url, current)

	case record.MethodDelete:
		return nil, s.store.Delete(ctx, url)

	default:
		return nil, proxyerrors.Final(fmt.Errorf("unsupported sync method %q", method), "sync")
	}
}

func (s *Syncer) put(ctx context.Context, key string, attrs record.Attrs) error {
	doc, err := json.Marshal(attrs)
	if err != nil {
		return proxyerrors.Final(err, "encode document")
	}
	_, err = s.store.Put(ctx, key, doc)
	return err
}

func (s *Syncer) get(ctx context.Context, key string) (record.Attrs, error) {
	doc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

// Decode parses a stored document into attributes.
func Decode(doc []byte) (record.Attrs, error) {
	var attrs record.Attrs
	if err := json.Unmarshal(doc, &attrs); err != nil {
		return nil, proxyerrors.Final(err, "decode document")
	}
	if attrs == nil {
		return nil, proxyerrors.Final(errors.New("document is not an object"), "decode document")
	}
	return attrs, nil
}

func joinKey(url, id string) string {
	return strings.TrimSuffix(url, "/") + "/" + id
}

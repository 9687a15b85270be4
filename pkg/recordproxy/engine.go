package recordproxy

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/observability"
)

// metricsCtx is used for metrics recorded from listener calls, which carry
// no context of their own.
var metricsCtx = context.Background()

// relayToken marks the engine's subscription on the proxied record. It is
// only ever compared by identity.
type relayToken struct {
	id string
}

// RelayState describes a proxy's forwarding from its proxied record.
type RelayState struct {
	// Registrations is the number of listeners attached through the proxy.
	Registrations int

	// Relaying reports whether the proxy believes it is subscribed to the
	// proxied record's event.All channel.
	Relaying bool

	// Attached reports whether the proxied record actually still holds that
	// subscription. It differs from Relaying after someone removes every
	// event.All listener from the proxied record directly.
	Attached bool
}

// engine routes listener registrations for one proxy. It keeps the ledger
// and the proxy's own listeners in step and subscribes to the proxied record
// only while at least one registration exists.
type engine struct {
	subject  event.Observable
	proxied  event.Observable
	events   *event.Events
	ledger   ledger
	relaying bool
	token    *relayToken
	relay    *event.Callback

	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

func newEngine(subject, proxied event.Observable, logger *slog.Logger, metrics observability.MetricsRecorder) *engine {
	e := &engine{
		subject: subject,
		proxied: proxied,
		events:  event.NewEvents(subject),
		token:   &relayToken{id: uuid.NewString()},
		logger:  logger,
		metrics: metrics,
	}
	e.relay = event.NewCallback(func(_ any, args ...any) {
		if len(args) == 0 {
			return
		}
		name, _ := args[0].(string)
		e.events.Trigger(name, args[1:]...)
	})
	return e
}

// on registers cb for every name in the space separated list.
func (e *engine) on(name string, cb *event.Callback, context any) {
	if cb == nil {
		return
	}
	names := event.Names(name)
	for _, n := range names {
		derived := deriveCallback(e.subject, n, cb, context)
		e.ledger.store(n, cb, context, derived)
		e.events.On(n, derived, context)
	}
	if len(names) > 0 {
		e.metrics.RecordRegistrations(metricsCtx, int64(len(names)))
	}
	e.manageUpstreamRelay()
}

// off removes the registrations matching every non-empty criterion.
func (e *engine) off(name string, cb *event.Callback, context any) {
	names := event.Names(name)
	if len(names) == 0 {
		names = []string{""}
	}
	removed := 0
	for _, n := range names {
		for _, r := range e.ledger.unstore(n, cb, context) {
			e.events.Off(r.event, r.derived, nil)
			removed++
		}
	}
	if removed > 0 {
		e.metrics.RecordRegistrations(metricsCtx, -int64(removed))
	}
	e.manageUpstreamRelay()
}

// once registers cb to fire at most once per name. The wrapper unregisters
// through off before calling cb, so the relay is released as soon as the
// last registration has fired.
func (e *engine) once(name string, cb *event.Callback, context any) {
	if cb == nil {
		return
	}
	for _, n := range event.Names(name) {
		e.on(n, e.onceWrapper(n, cb), context)
	}
}

func (e *engine) onceWrapper(name string, cb *event.Callback) *event.Callback {
	var once *event.Callback
	fired := false
	once = event.Wrap(cb, func(this any, args ...any) {
		if fired {
			return
		}
		fired = true
		e.off(name, once, nil)
		cb.Call(this, args...)
	})
	return once
}

func (e *engine) trigger(name string, args ...any) {
	e.events.Trigger(name, args...)
}

// manageUpstreamRelay subscribes to or unsubscribes from the proxied
// record so that the relay is installed exactly while registrations exist.
func (e *engine) manageUpstreamRelay() {
	active := e.ledger.len() > 0
	if active == e.relaying {
		return
	}
	if active {
		e.proxied.On(event.All, e.relay, e.token)
		observability.LogRelayAttached(e.logger, e.ledger.len())
	} else {
		e.proxied.Off("", nil, e.token)
		observability.LogRelayDetached(e.logger)
	}
	e.relaying = active
	e.metrics.RecordRelayToggle(metricsCtx, active)
}

func (e *engine) state() RelayState {
	s := RelayState{
		Registrations: e.ledger.len(),
		Relaying:      e.relaying,
		Attached:      e.relaying,
	}
	if insp, ok := e.proxied.(event.Inspector); ok {
		s.Attached = insp.HasListener(event.All, e.token)
	}
	return s
}


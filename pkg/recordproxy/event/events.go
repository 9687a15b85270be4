package event

import (
	"sort"
	"strings"
)

// Observable is the capability set shared by records and proxies.
// Every method returns the Observable it was called on.
type Observable interface {
	// On binds cb to the named event(s). context becomes the callback's
	// receiver; when nil, the Observable itself is used. Off matches
	// contexts with SameIdentity, so pass a pointer or a value whose
	// reference fields are shared with the one later given to Off.
	On(name string, cb *Callback, context any) Observable

	// Off removes listeners matching every non-empty criterion. With no
	// criteria at all, every listener is removed.
	Off(name string, cb *Callback, context any) Observable

	// Once binds cb so that it fires at most once and then removes itself.
	Once(name string, cb *Callback, context any) Observable

	// Trigger fires the named event(s) synchronously.
	Trigger(name string, args ...any) Observable

	// ListenTo binds cb to events on obj with this Observable as context.
	ListenTo(obj Observable, name string, cb *Callback) Observable

	// ListenToOnce is ListenTo with Once semantics.
	ListenToOnce(obj Observable, name string, cb *Callback) Observable

	// StopListening undoes ListenTo. A nil obj means every object listened to.
	StopListening(obj Observable, name string, cb *Callback) Observable
}

// Inspector is implemented by observables that can report on their own
// listeners.
type Inspector interface {
	// HasListener reports whether a listener registered with context exists
	// for name. An empty name matches any event.
	HasListener(name string, context any) bool
}

// Names splits a space separated list of event names.
func Names(name string) []string {
	return strings.Fields(name)
}

type handler struct {
	callback *Callback
	context  any
	receiver any
}

// Events implements Observable for an owner. The zero value is not usable;
// construct with NewEvents.
type Events struct {
	self        Observable
	handlers    map[string][]*handler
	listeningTo []Observable
}

// Compile-time interface checks.
var (
	_ Observable = (*Events)(nil)
	_ Inspector  = (*Events)(nil)
)

// NewEvents creates the capability for self. self is the default receiver of
// listeners and the value returned from every method. A nil self makes the
// Events its own owner.
func NewEvents(self Observable) *Events {
	e := &Events{handlers: make(map[string][]*handler)}
	if self == nil {
		self = e
	}
	e.self = self
	return e
}

// On implements Observable.
func (e *Events) On(name string, cb *Callback, context any) Observable {
	if cb == nil {
		return e.self
	}
	receiver := context
	if receiver == nil {
		receiver = e.self
	}
	for _, n := range Names(name) {
		e.handlers[n] = append(e.handlers[n], &handler{
			callback: cb,
			context:  context,
			receiver: receiver,
		})
	}
	return e.self
}

// Off implements Observable.
func (e *Events) Off(name string, cb *Callback, context any) Observable {
	if name == "" && cb == nil && context == nil {
		clear(e.handlers)
		return e.self
	}

	names := Names(name)
	if len(names) == 0 {
		names = e.EventNames()
	}

	for _, n := range names {
		list, ok := e.handlers[n]
		if !ok {
			continue
		}
		retain := make([]*handler, 0, len(list))
		for _, h := range list {
			if (cb != nil && !h.callback.Matches(cb)) ||
				(context != nil && !SameIdentity(context, h.context)) {
				retain = append(retain, h)
			}
		}
		if len(retain) == 0 {
			delete(e.handlers, n)
		} else {
			e.handlers[n] = retain
		}
	}
	return e.self
}

// Once implements Observable. The wrapper removes itself through the owner's
// Off, so owners that intercept Off see the removal.
func (e *Events) Once(name string, cb *Callback, context any) Observable {
	if cb == nil {
		return e.self
	}
	for _, n := range Names(name) {
		e.self.On(n, onceWrapper(e.self, n, cb), context)
	}
	return e.self
}

func onceWrapper(owner Observable, name string, cb *Callback) *Callback {
	var once *Callback
	fired := false
	once = Wrap(cb, func(this any, args ...any) {
		if fired {
			return
		}
		fired = true
		owner.Off(name, once, nil)
		cb.Call(this, args...)
	})
	return once
}

// Trigger implements Observable. Listeners of name run first with args, then
// listeners of All with name prepended.
func (e *Events) Trigger(name string, args ...any) Observable {
	for _, n := range Names(name) {
		named := e.snapshot(n)
		all := e.snapshot(All)
		for _, h := range named {
			h.callback.Call(h.receiver, args...)
		}
		if len(all) == 0 {
			continue
		}
		allArgs := make([]any, 0, len(args)+1)
		allArgs = append(allArgs, n)
		allArgs = append(allArgs, args...)
		for _, h := range all {
			h.callback.Call(h.receiver, allArgs...)
		}
	}
	return e.self
}

func (e *Events) snapshot(name string) []*handler {
	list := e.handlers[name]
	if len(list) == 0 {
		return nil
	}
	return append([]*handler(nil), list...)
}

// ListenTo implements Observable.
func (e *Events) ListenTo(obj Observable, name string, cb *Callback) Observable {
	if obj == nil {
		return e.self
	}
	e.remember(obj)
	obj.On(name, cb, e.self)
	return e.self
}

// ListenToOnce implements Observable.
func (e *Events) ListenToOnce(obj Observable, name string, cb *Callback) Observable {
	if obj == nil {
		return e.self
	}
	e.remember(obj)
	obj.Once(name, cb, e.self)
	return e.self
}

// StopListening implements Observable.
func (e *Events) StopListening(obj Observable, name string, cb *Callback) Observable {
	if len(e.listeningTo) == 0 && obj == nil {
		return e.self
	}
	forget := name == "" && cb == nil

	targets := e.listeningTo
	if obj != nil {
		targets = []Observable{obj}
	}
	for _, target := range append([]Observable(nil), targets...) {
		target.Off(name, cb, e.self)
		if forget {
			e.forget(target)
		}
	}
	return e.self
}

func (e *Events) remember(obj Observable) {
	for _, o := range e.listeningTo {
		if SameIdentity(o, obj) {
			return
		}
	}
	e.listeningTo = append(e.listeningTo, obj)
}

func (e *Events) forget(obj Observable) {
	for i, o := range e.listeningTo {
		if SameIdentity(o, obj) {
			e.listeningTo = append(e.listeningTo[:i], e.listeningTo[i+1:]...)
			return
		}
	}
}

// HasListeners reports whether any listener is registered for any event.
func (e *Events) HasListeners() bool {
	return len(e.handlers) > 0
}

// ListenerCount returns the number of listeners bound to name.
func (e *Events) ListenerCount(name string) int {
	return len(e.handlers[name])
}

// HasListener implements Inspector.
func (e *Events) HasListener(name string, context any) bool {
	names := Names(name)
	if len(names) == 0 {
		names = e.EventNames()
	}
	for _, n := range names {
		for _, h := range e.handlers[n] {
			if context == nil || SameIdentity(context, h.context) {
				return true
			}
		}
	}
	return false
}

// EventNames returns the names that currently have listeners, sorted.
func (e *Events) EventNames() []string {
	names := make([]string, 0, len(e.handlers))
	for n := range e.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ListeningTo returns the objects this Observable currently listens to.
func (e *Events) ListeningTo() []Observable {
	return append([]Observable(nil), e.listeningTo...)
}

package recordproxy

import "github.com/randalmurphal/recordproxy/pkg/recordproxy/event"

// registration is one listener attached through a proxy.
type registration struct {
	event    string
	callback *event.Callback
	context  any
	derived  *event.Callback
}

// ledger records every registration made on a proxy so each one can be
// reversed exactly.
type ledger struct {
	items []registration
}

// store appends a registration. Identical registrations may coexist.
func (l *ledger) store(name string, cb *event.Callback, context any, derived *event.Callback) {
	l.items = append(l.items, registration{
		event:    name,
		callback: cb,
		context:  context,
		derived:  derived,
	})
}

// unstore removes and returns every registration matching all non-empty
// criteria. With every criterion empty it removes everything. An empty name
// ignores the event; event.All is a concrete name like any other.
func (l *ledger) unstore(name string, cb *event.Callback, context any) []registration {
	var removed []registration
	kept := l.items[:0]
	for _, r := range l.items {
		if r.matches(name, cb, context) {
			removed = append(removed, r)
		} else {
			kept = append(kept, r)
		}
	}
	clear(l.items[len(kept):])
	l.items = kept
	return removed
}

func (l *ledger) len() int {
	return len(l.items)
}

func (r registration) matches(name string, cb *event.Callback, context any) bool {
	if name != "" && r.event != name {
		return false
	}
	if cb != nil && !r.callback.Matches(cb) {
		return false
	}
	if context != nil && !event.SameIdentity(context, r.context) {
		return false
	}
	return true
}

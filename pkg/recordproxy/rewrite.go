package recordproxy

import (
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// deriveCallback wraps cb so that listeners on subject see subject, not the
// record that emitted the event.
//
// For a built-in event the first argument is replaced by subject. For an
// event.All listener the event name arrives first, and the second argument
// is replaced whenever that name is built-in. Custom events pass through
// untouched. The wrapper calls cb with context, or subject when context is
// nil, as receiver.
//
// Arguments are substituted by position only: a custom event named like a
// built-in one has its first argument replaced whatever it holds.
func deriveCallback(subject any, name string, cb *event.Callback, context any) *event.Callback {
	receiver := context
	if receiver == nil {
		receiver = subject
	}

	switch {
	case name == event.All:
		return event.NewCallback(func(_ any, args ...any) {
			if len(args) > 1 {
				if n, _ := args[0].(string); record.IsBuiltinEvent(n) {
					args = substitute(args, 1, subject)
				}
			}
			cb.Call(receiver, args...)
		})

	case record.IsBuiltinEvent(name):
		return event.NewCallback(func(_ any, args ...any) {
			if len(args) > 0 {
				args = substitute(args, 0, subject)
			}
			cb.Call(receiver, args...)
		})

	default:
		return event.NewCallback(func(_ any, args ...any) {
			cb.Call(receiver, args...)
		})
	}
}

// substitute returns a copy of args with args[i] replaced. The dispatch
// slice is shared between listeners and must not be written to.
func substitute(args []any, i int, v any) []any {
	out := make([]any, len(args))
	copy(out, args)
	out[i] = v
	return out
}

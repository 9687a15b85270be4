/*
Package recordproxy puts stand-ins in front of observable records.

# Overview

A proxy forwards attribute reads, writes and persistence to the record it
wraps, but keeps its own listeners. Listeners attached to the proxy see the
proxy as the subject of every lifecycle event, even when the change was made
on the record directly. Listeners attached to the record keep seeing the
record.

	note := record.New(record.Attrs{"title": "draft"})
	view := recordproxy.Extend(note).New()

	view.On("change:title", event.NewCallback(func(this any, args ...any) {
	    fmt.Println(args[0] == view) // true
	}), nil)

	note.Set(record.Attrs{"title": "final"}, nil)
	fmt.Println(view.Get("title")) // "final"

Extend returns a Class bound to one record; every proxy made by Class.New
wraps that record. A *Proxy implements record.Model, so proxies can wrap
proxies.

# Listener Bookkeeping

Each proxy records every registration made through On and Once, together
with the wrapper actually installed. Off removes registrations by any
combination of event name, callback and context, with the same matching
rules as event.Events.Off.

A proxy subscribes to its record's event.All channel only while it has at
least one registration, and drops the subscription when the last one is
removed, including when a Once listener fires. Relay reports the state.

# Subject Substitution

For built-in events (record.IsBuiltinEvent) the first argument is replaced
by the proxy. event.All listeners get the second argument replaced when the
event name is built-in. Custom events pass through untouched. Substitution is
by position only, so a custom event named "change:x" has its first argument
replaced whatever it carries.

# Direction

Trigger on a proxy fires only on that proxy. Events flow from record to
proxy, never back; writes reach the record by direct delegation.

# Caveats

The relay is an ordinary event.All listener on the record, tagged with a
private context. Calling Off("all", nil, nil) or Off("", nil, nil) on the
record removes it and silently stops forwarding. The proxy does not guard
against this; RelayState.Attached turns false so it can be detected. With
chained proxies, Off("all", ...) on an intermediate proxy cuts off every
proxy further down in the same way.

Record hooks (sync, validation, parsing, id attribute, URL root) are
configured on the record, never on a proxy.

# Thread Safety

Proxies and records are not safe for concurrent use. Event dispatch is
synchronous and re-entrant on a single goroutine.
*/
package recordproxy

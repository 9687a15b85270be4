// Package event provides the observable capability shared by records and
// their proxies.
//
// # Overview
//
// An Observable lets consumers attach listeners to named events and fire
// those events synchronously:
//
//   - On / Off / Once register and remove listeners
//   - Trigger dispatches to listeners of the named event, then to listeners
//     of the wildcard channel All
//   - ListenTo / ListenToOnce / StopListening attach listeners to another
//     Observable on behalf of this one, so they can be removed in bulk
//
// Events is the embeddable implementation:
//
//	type Widget struct {
//	    *event.Events
//	}
//
//	w := &Widget{}
//	w.Events = event.NewEvents(w)
//
// # Callback Identity
//
// Go functions cannot be compared, so listeners are registered as *Callback
// values. The pointer is the listener's identity: removing a listener means
// passing the same *Callback to Off.
//
//	onChange := event.NewCallback(func(this any, args ...any) {
//	    fmt.Println("changed", args...)
//	})
//	w.On("change", onChange, nil)
//	w.Off("", onChange, nil) // removes onChange from every event
//
// # Names
//
// A name may list several events separated by spaces ("change:name
// change:age"). The wildcard channel "all" receives every trigger with the
// event name prepended to the arguments.
//
// # Concurrency
//
// Events is not safe for concurrent use. Dispatch is synchronous and
// listeners may add or remove listeners while a trigger is in flight: each
// trigger works on a snapshot taken before dispatch starts.
package event

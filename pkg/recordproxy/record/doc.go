// Package record provides the observable data record that proxies wrap.
//
// A Record holds attributes, tracks what changed between sets, optionally
// validates writes, and persists itself through a pluggable sync hook:
//
//	user := record.New(record.Attrs{"name": "Anna"},
//	    record.WithURLRoot("/users"),
//	    record.WithSync(syncer.Sync),
//	)
//
//	user.On("change:name", event.NewCallback(func(this any, args ...any) {
//	    fmt.Println("name is now", args[1])
//	}), nil)
//
//	_ = user.Set(record.Attrs{"name": "Betty"}, nil)
//	_ = user.Save(ctx, nil, nil)
//
// # Events
//
// A Record fires "change:<attr>" (model, value, opts) for each changed
// attribute and then "change" (model, opts). Persistence fires "request",
// "sync", "error" and "destroy"; rejected writes fire "invalid". Every one of
// them carries the record as its first argument.
//
// # Hooks
//
// Validation, response parsing, the sync hook, the id attribute and the URL
// root are configured on the Record itself, with options at construction or
// the Set* methods afterwards. They are deliberately not part of Model, so a
// proxy can never change them.
package record

package record

import (
	"context"
	"maps"
	"sort"
)

// Attrs is a set of record attributes.
type Attrs map[string]any

// Clone returns a shallow copy. Cloning nil yields an empty set.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return Attrs{}
	}
	return maps.Clone(a)
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AttrsFrom converts a sync response into attributes. Anything that is not
// an attribute map yields nil.
func AttrsFrom(v any) Attrs {
	switch m := v.(type) {
	case Attrs:
		return m
	case map[string]any:
		return Attrs(m)
	default:
		return nil
	}
}

// Method names the persistence operation handed to a sync hook.
type Method string

// Persistence methods.
const (
	MethodCreate Method = "create"
	MethodRead   Method = "read"
	MethodUpdate Method = "update"
	MethodPatch  Method = "patch"
	MethodDelete Method = "delete"
)

// ResultFunc receives the outcome of a persistence call: the model the call
// was made on, the backend's response and the options in effect.
type ResultFunc func(model Model, resp any, opts *Options)

// Options is the options bag accepted by writes and persistence calls.
// Callers own the value they pass in; records and proxies work on clones.
type Options struct {
	// Silent suppresses change events.
	Silent bool

	// Validate runs the record's validator before Set applies anything.
	Validate bool

	// Unset deletes the given attributes instead of assigning them.
	Unset bool

	// Wait defers Save's attribute changes and Destroy's destroy event
	// until the backend confirms.
	Wait bool

	// Patch makes Save send only the given attributes.
	Patch bool

	// SkipValidate disables the validation Save performs by default.
	SkipValidate bool

	// URL overrides the record's URL for one persistence call.
	URL string

	// Attrs is the payload of a patch request.
	Attrs Attrs

	// Success is called after a persistence call completes.
	Success ResultFunc

	// Error is called when the backend rejects a persistence call.
	Error ResultFunc

	// ValidationError is set when validation fails.
	ValidationError error

	// Extra carries caller data through to listeners and sync hooks.
	Extra map[string]any

	resolve func(resp any)
	reject  func(resp any)
}

// Clone returns a copy of o that can be changed without affecting o.
// Cloning nil yields an empty bag.
func (o *Options) Clone() *Options {
	if o == nil {
		return &Options{}
	}
	c := *o
	if o.Extra != nil {
		c.Extra = maps.Clone(o.Extra)
	}
	if o.Attrs != nil {
		c.Attrs = o.Attrs.Clone()
	}
	return &c
}

// Resolve completes a persistence call successfully. Sync hooks call it with
// the backend's response.
func (o *Options) Resolve(resp any) {
	if o != nil && o.resolve != nil {
		o.resolve(resp)
	}
}

// Reject completes a persistence call with a failure response.
func (o *Options) Reject(resp any) {
	if o != nil && o.reject != nil {
		o.reject(resp)
	}
}

// SyncFunc persists a model. Implementations call opts.Resolve or
// opts.Reject when the backend answers, synchronously or later, and return
// any error that prevented the request from being made.
type SyncFunc func(ctx context.Context, method Method, model Model, opts *Options) error

// ValidateFunc checks the attributes a write would produce.
type ValidateFunc func(attrs Attrs, opts *Options) error

// ParseFunc converts a backend response into attributes.
type ParseFunc func(resp any, opts *Options) Attrs

package record

import (
	"context"
	"errors"
	"strings"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
)

// Built-in event names.
const (
	EventAdd     = "add"
	EventRemove  = "remove"
	EventReset   = "reset"
	EventChange  = "change"
	EventDestroy = "destroy"
	EventRequest = "request"
	EventSync    = "sync"
	EventError   = "error"
	EventInvalid = "invalid"

	// ChangePrefix starts every attribute change event ("change:name").
	ChangePrefix = "change:"
)

// BuiltinEvents lists the lifecycle events whose first argument is the
// record that emitted them.
var BuiltinEvents = []string{
	EventAdd,
	EventRemove,
	EventReset,
	EventChange,
	EventDestroy,
	EventRequest,
	EventSync,
	EventError,
	EventInvalid,
}

// IsBuiltinEvent reports whether name is a lifecycle event or starts with
// ChangePrefix.
func IsBuiltinEvent(name string) bool {
	if strings.HasPrefix(name, ChangePrefix) {
		return true
	}
	for _, b := range BuiltinEvents {
		if name == b {
			return true
		}
	}
	return false
}

// Sentinel errors.
var (
	// ErrNoSync indicates a persistence call on a record without a sync hook.
	ErrNoSync = errors.New("record has no sync hook")

	// ErrNoURL indicates a URL was needed but no URL root is configured.
	ErrNoURL = errors.New("record has no url root")
)

// Model is the contract a proxy wraps and itself fulfils.
type Model interface {
	event.Observable

	// ID returns the value of the id attribute as of the last write to it.
	ID() any
	// CID returns the client-side identifier assigned at construction.
	CID() string
	// IDAttribute returns the name of the id attribute.
	IDAttribute() string

	Get(key string) any
	Has(key string) bool
	Set(attrs Attrs, opts *Options) error
	Unset(key string, opts *Options) error
	Clear(opts *Options) error

	// Attributes returns a copy of the current attributes.
	Attributes() Attrs
	// ToJSON returns the attributes to persist.
	ToJSON() Attrs

	HasChanged(key string) bool
	ChangedAttributes(diff Attrs) Attrs
	Previous(key string) any
	PreviousAttributes() Attrs

	ValidationError() error
	IsValid() bool
	IsNew() bool
	URL() (string, error)

	Fetch(ctx context.Context, opts *Options) error
	Save(ctx context.Context, attrs Attrs, opts *Options) error
	Destroy(ctx context.Context, opts *Options) error
}

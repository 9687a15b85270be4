package record

import (
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/uuid"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
	proxyerrors "github.com/randalmurphal/recordproxy/pkg/recordproxy/errors"
)

// Record is an observable set of attributes with change tracking and
// pluggable persistence. It is not safe for concurrent use.
type Record struct {
	*event.Events

	cid         string
	id          any
	idAttribute string
	urlRoot     string

	attributes    Attrs
	previousAttrs Attrs
	changed       Attrs
	changing      bool
	pending       *Options

	validationError error

	defaults  Attrs
	validator ValidateFunc
	parser    ParseFunc
	syncFn    SyncFunc
	logger    *slog.Logger
}

// Compile-time interface check.
var _ Model = (*Record)(nil)

// Option configures a Record at construction.
type Option func(*Record)

// WithDefaults supplies attribute values used when attrs omits them.
func WithDefaults(defaults Attrs) Option {
	return func(r *Record) {
		r.defaults = defaults.Clone()
	}
}

// WithIDAttribute sets the name of the id attribute. Default: "id".
func WithIDAttribute(name string) Option {
	return func(r *Record) {
		if name != "" {
			r.idAttribute = name
		}
	}
}

// WithURLRoot sets the collection URL the record persists under.
func WithURLRoot(root string) Option {
	return func(r *Record) {
		r.urlRoot = root
	}
}

// WithValidator sets the validation hook.
func WithValidator(fn ValidateFunc) Option {
	return func(r *Record) {
		r.validator = fn
	}
}

// WithParser sets the hook converting sync responses into attributes.
func WithParser(fn ParseFunc) Option {
	return func(r *Record) {
		r.parser = fn
	}
}

// WithSync sets the persistence hook.
func WithSync(fn SyncFunc) Option {
	return func(r *Record) {
		r.syncFn = fn
	}
}

// WithLogger sets a logger for validation failures and sync dispatch.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Record) {
		r.logger = logger
	}
}

// New creates a record holding attrs merged over any configured defaults.
func New(attrs Attrs, opts ...Option) *Record {
	r := &Record{
		cid:           uuid.NewString(),
		idAttribute:   "id",
		attributes:    Attrs{},
		previousAttrs: Attrs{},
		changed:       Attrs{},
	}
	r.Events = event.NewEvents(r)
	for _, opt := range opts {
		opt(r)
	}

	initial := r.defaults.Clone()
	for k, v := range attrs {
		initial[k] = v
	}
	_ = r.Set(initial, &Options{})
	r.changed = Attrs{}
	return r
}

// SetSync replaces the persistence hook.
func (r *Record) SetSync(fn SyncFunc) {
	r.syncFn = fn
}

// SetValidator replaces the validation hook.
func (r *Record) SetValidator(fn ValidateFunc) {
	r.validator = fn
}

// SetParser replaces the response parsing hook.
func (r *Record) SetParser(fn ParseFunc) {
	r.parser = fn
}

// SetIDAttribute changes the name of the id attribute. ID keeps its value
// until the new attribute is written.
func (r *Record) SetIDAttribute(name string) {
	if name != "" {
		r.idAttribute = name
	}
}

// SetURLRoot changes the collection URL.
func (r *Record) SetURLRoot(root string) {
	r.urlRoot = root
}

// ID implements Model.
func (r *Record) ID() any { return r.id }

// CID implements Model.
func (r *Record) CID() string { return r.cid }

// IDAttribute implements Model.
func (r *Record) IDAttribute() string { return r.idAttribute }

// Get implements Model.
func (r *Record) Get(key string) any {
	return r.attributes[key]
}

// Has implements Model.
func (r *Record) Has(key string) bool {
	return r.attributes[key] != nil
}

// Set applies attrs, firing change events unless opts.Silent. With
// opts.Validate a failed validation leaves the record untouched, fires
// "invalid" and returns a *errors.ValidationError.
//
// Sets made from change listeners are folded into the outermost call: the
// "change" event repeats until no nested set leaves changes pending.
func (r *Record) Set(attrs Attrs, opts *Options) error {
	if attrs == nil {
		return nil
	}
	if opts == nil {
		opts = &Options{}
	}
	if err := r.validate(attrs, opts); err != nil {
		return err
	}

	changing := r.changing
	r.changing = true
	if !changing {
		r.previousAttrs = r.attributes.Clone()
		r.changed = Attrs{}
	}

	var changes []string
	for _, key := range attrs.Keys() {
		val := attrs[key]
		if !reflect.DeepEqual(r.attributes[key], val) {
			changes = append(changes, key)
		}
		if !reflect.DeepEqual(r.previousAttrs[key], val) {
			r.changed[key] = val
		} else {
			delete(r.changed, key)
		}
		if opts.Unset {
			delete(r.attributes, key)
		} else {
			r.attributes[key] = val
		}
	}
	if _, ok := attrs[r.idAttribute]; ok {
		r.id = r.attributes[r.idAttribute]
	}

	if !opts.Silent {
		if len(changes) > 0 {
			r.pending = opts
		}
		for _, key := range changes {
			r.Trigger(ChangePrefix+key, r, r.attributes[key], opts)
		}
	}

	if changing {
		return nil
	}
	if !opts.Silent {
		for r.pending != nil {
			pending := r.pending
			r.pending = nil
			r.Trigger(EventChange, r, pending)
		}
	}
	r.pending = nil
	r.changing = false
	return nil
}

// Unset removes key.
func (r *Record) Unset(key string, opts *Options) error {
	o := opts.Clone()
	o.Unset = true
	return r.Set(Attrs{key: nil}, o)
}

// Clear removes every attribute.
func (r *Record) Clear(opts *Options) error {
	attrs := make(Attrs, len(r.attributes))
	for k := range r.attributes {
		attrs[k] = nil
	}
	o := opts.Clone()
	o.Unset = true
	return r.Set(attrs, o)
}

func (r *Record) validate(attrs Attrs, opts *Options) error {
	if !opts.Validate || r.validator == nil {
		return nil
	}
	merged := r.attributes.Clone()
	for k, v := range attrs {
		merged[k] = v
	}
	err := r.validator(merged, opts)
	r.validationError = err
	if err == nil {
		return nil
	}
	if r.logger != nil {
		r.logger.Debug("record validation failed",
			slog.String("cid", r.cid),
			slog.String("error", err.Error()),
		)
	}
	opts.ValidationError = err
	r.Trigger(EventInvalid, r, err, opts)
	return &proxyerrors.ValidationError{Err: err}
}

// Attributes implements Model.
func (r *Record) Attributes() Attrs {
	return r.attributes.Clone()
}

// ToJSON implements Model.
func (r *Record) ToJSON() Attrs {
	return r.attributes.Clone()
}

// HasChanged reports whether key changed in the last set. An empty key
// asks whether anything changed.
func (r *Record) HasChanged(key string) bool {
	if key == "" {
		return len(r.changed) > 0
	}
	_, ok := r.changed[key]
	return ok
}

// ChangedAttributes returns the attributes changed by the last set, or, when
// diff is given, the entries of diff that differ from the current values.
// It returns nil when there is nothing to report.
func (r *Record) ChangedAttributes(diff Attrs) Attrs {
	if diff == nil {
		if len(r.changed) == 0 {
			return nil
		}
		return r.changed.Clone()
	}
	old := r.attributes
	if r.changing {
		old = r.previousAttrs
	}
	var out Attrs
	for k, v := range diff {
		if reflect.DeepEqual(old[k], v) {
			continue
		}
		if out == nil {
			out = Attrs{}
		}
		out[k] = v
	}
	return out
}

// Previous returns the value key had before the last set.
func (r *Record) Previous(key string) any {
	return r.previousAttrs[key]
}

// PreviousAttributes returns the attributes as they were before the last set.
func (r *Record) PreviousAttributes() Attrs {
	return r.previousAttrs.Clone()
}

// ValidationError returns the error from the last validation, if any.
func (r *Record) ValidationError() error {
	return r.validationError
}

// IsValid runs the validator against the current attributes.
func (r *Record) IsValid() bool {
	return r.validate(Attrs{}, &Options{Validate: true}) == nil
}

// IsNew reports whether the record has never been persisted.
func (r *Record) IsNew() bool {
	return !r.Has(r.idAttribute)
}

// URL returns where the record lives: the URL root for new records, the root
// followed by the escaped id otherwise.
func (r *Record) URL() (string, error) {
	base := r.urlRoot
	if base == "" {
		return "", ErrNoURL
	}
	if r.IsNew() {
		return base, nil
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(fmt.Sprint(r.id)), nil
}

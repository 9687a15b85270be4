package recordproxy

import (
	"context"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/observability"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// Class makes proxies for one record. Every proxy it makes wraps that same
// record.
type Class struct {
	proxied record.Model
	cfg     classConfig
}

// Extend returns the Class of proxies for proxied. proxied may itself be a
// *Proxy.
func Extend(proxied record.Model, opts ...Option) *Class {
	cfg := defaultClassConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Class{proxied: proxied, cfg: cfg}
}

// Proxied returns the record the Class wraps.
func (c *Class) Proxied() record.Model {
	return c.proxied
}

// New creates a proxy. Each proxy has its own listeners and relay.
func (c *Class) New() *Proxy {
	p := &Proxy{proxied: c.proxied}
	p.engine = newEngine(p, c.proxied, nil, c.cfg.metrics)
	p.engine.logger = observability.EnrichLogger(c.cfg.logger, c.proxied.CID(), p.engine.token.id)
	return p
}

// Proxy stands in for a record. Attribute access and persistence go to the
// record; listeners attached to the proxy see the proxy as the subject of
// the record's events.
//
// Hooks such as sync, validation and the id attribute are configured on
// the record. A proxy has no setters for them.
type Proxy struct {
	proxied record.Model
	engine  *engine
}

// Compile-time interface checks.
var (
	_ record.Model    = (*Proxy)(nil)
	_ event.Inspector = (*Proxy)(nil)
)

// Proxied returns the wrapped record.
func (p *Proxy) Proxied() record.Model {
	return p.proxied
}

// Relay reports the state of the proxy's subscription to its record.
func (p *Proxy) Relay() RelayState {
	return p.engine.state()
}

// On implements event.Observable. Listeners receive the proxy as subject
// and, without a context, as receiver.
func (p *Proxy) On(name string, cb *event.Callback, context any) event.Observable {
	p.engine.on(name, cb, context)
	return p
}

// Off implements event.Observable.
func (p *Proxy) Off(name string, cb *event.Callback, context any) event.Observable {
	p.engine.off(name, cb, context)
	return p
}

// Once implements event.Observable.
func (p *Proxy) Once(name string, cb *event.Callback, context any) event.Observable {
	p.engine.once(name, cb, context)
	return p
}

// Trigger fires name on the proxy only. Listeners on the record do not see
// it.
func (p *Proxy) Trigger(name string, args ...any) event.Observable {
	p.engine.trigger(name, args...)
	return p
}

// ListenTo implements event.Observable with the proxy as listener.
func (p *Proxy) ListenTo(obj event.Observable, name string, cb *event.Callback) event.Observable {
	p.engine.events.ListenTo(obj, name, cb)
	return p
}

// ListenToOnce implements event.Observable with the proxy as listener.
func (p *Proxy) ListenToOnce(obj event.Observable, name string, cb *event.Callback) event.Observable {
	p.engine.events.ListenToOnce(obj, name, cb)
	return p
}

// StopListening implements event.Observable.
func (p *Proxy) StopListening(obj event.Observable, name string, cb *event.Callback) event.Observable {
	p.engine.events.StopListening(obj, name, cb)
	return p
}

// HasListener implements event.Inspector for listeners attached through
// the proxy.
func (p *Proxy) HasListener(name string, context any) bool {
	return p.engine.events.HasListener(name, context)
}

// Set writes attrs to the record. Change events fire on the record with the
// record as subject, and reach the proxy's listeners through the relay.
func (p *Proxy) Set(attrs record.Attrs, opts *record.Options) error {
	return p.proxied.Set(attrs, opts)
}

// Unset implements record.Model.
func (p *Proxy) Unset(key string, opts *record.Options) error {
	return p.proxied.Unset(key, opts)
}

// Clear implements record.Model.
func (p *Proxy) Clear(opts *record.Options) error {
	return p.proxied.Clear(opts)
}

// ID implements record.Model.
func (p *Proxy) ID() any { return p.proxied.ID() }

// CID implements record.Model.
func (p *Proxy) CID() string { return p.proxied.CID() }

// IDAttribute implements record.Model.
func (p *Proxy) IDAttribute() string { return p.proxied.IDAttribute() }

// Get implements record.Model.
func (p *Proxy) Get(key string) any { return p.proxied.Get(key) }

// Has implements record.Model.
func (p *Proxy) Has(key string) bool { return p.proxied.Has(key) }

// Attributes implements record.Model.
func (p *Proxy) Attributes() record.Attrs { return p.proxied.Attributes() }

// ToJSON implements record.Model.
func (p *Proxy) ToJSON() record.Attrs { return p.proxied.ToJSON() }

// HasChanged implements record.Model.
func (p *Proxy) HasChanged(key string) bool { return p.proxied.HasChanged(key) }

// ChangedAttributes implements record.Model.
func (p *Proxy) ChangedAttributes(diff record.Attrs) record.Attrs {
	return p.proxied.ChangedAttributes(diff)
}

// Previous implements record.Model.
func (p *Proxy) Previous(key string) any { return p.proxied.Previous(key) }

// PreviousAttributes implements record.Model.
func (p *Proxy) PreviousAttributes() record.Attrs { return p.proxied.PreviousAttributes() }

// ValidationError implements record.Model.
func (p *Proxy) ValidationError() error { return p.proxied.ValidationError() }

// IsValid implements record.Model.
func (p *Proxy) IsValid() bool { return p.proxied.IsValid() }

// IsNew implements record.Model.
func (p *Proxy) IsNew() bool { return p.proxied.IsNew() }

// URL implements record.Model.
func (p *Proxy) URL() (string, error) { return p.proxied.URL() }

// Fetch reloads the record. opts.Success and opts.Error receive the proxy as
// their model; the sync hook still receives the record.
func (p *Proxy) Fetch(ctx context.Context, opts *record.Options) error {
	return p.proxied.Fetch(ctx, p.remap(opts))
}

// Save persists the record, remapping callbacks as Fetch does.
func (p *Proxy) Save(ctx context.Context, attrs record.Attrs, opts *record.Options) error {
	return p.proxied.Save(ctx, attrs, p.remap(opts))
}

// Destroy deletes the record, remapping callbacks as Fetch does.
func (p *Proxy) Destroy(ctx context.Context, opts *record.Options) error {
	return p.proxied.Destroy(ctx, p.remap(opts))
}

// remap clones opts and wraps its callbacks so the proxy is reported as
// the model. The caller's options are never modified.
func (p *Proxy) remap(opts *record.Options) *record.Options {
	o := opts.Clone()
	if success := o.Success; success != nil {
		o.Success = func(_ record.Model, resp any, opts *record.Options) {
			success(p, resp, opts)
		}
	}
	if onError := o.Error; onError != nil {
		o.Error = func(_ record.Model, resp any, opts *record.Options) {
			onError(p, resp, opts)
		}
	}
	return o
}

package record

import (
	"context"
	"log/slog"
)

// Fetch reloads the record through the sync hook. On success the response
// is parsed and set, opts.Success runs and "sync" fires.
func (r *Record) Fetch(ctx context.Context, opts *Options) error {
	opts = opts.Clone()
	success := opts.Success
	opts.Success = nil
	opts.resolve = func(resp any) {
		if err := r.Set(r.parse(resp, opts), opts); err != nil {
			return
		}
		if success != nil {
			success(r, resp, opts)
		}
		r.Trigger(EventSync, r, resp, opts)
	}
	r.wrapError(opts)
	return r.sync(ctx, MethodRead, opts)
}

// Save persists the record, first applying attrs. Validation runs unless
// opts.SkipValidate. With opts.Wait, attrs only take effect once the backend
// confirms. New records are created, others updated (or patched with
// opts.Patch).
func (r *Record) Save(ctx context.Context, attrs Attrs, opts *Options) error {
	opts = opts.Clone()
	opts.Validate = !opts.SkipValidate

	original := r.attributes
	if attrs != nil && !opts.Wait {
		if err := r.Set(attrs, opts); err != nil {
			return err
		}
	} else if err := r.validate(attrs, opts); err != nil {
		return err
	}
	if attrs != nil && opts.Wait {
		pending := original.Clone()
		for k, v := range attrs {
			pending[k] = v
		}
		r.attributes = pending
	}

	success := opts.Success
	opts.Success = nil
	opts.resolve = func(resp any) {
		r.attributes = original
		serverAttrs := r.parse(resp, opts)
		if opts.Wait {
			merged := attrs.Clone()
			for k, v := range serverAttrs {
				merged[k] = v
			}
			serverAttrs = merged
		}
		if serverAttrs != nil {
			if err := r.Set(serverAttrs, opts); err != nil {
				return
			}
		}
		if success != nil {
			success(r, resp, opts)
		}
		r.Trigger(EventSync, r, resp, opts)
	}
	r.wrapError(opts)

	method := MethodUpdate
	switch {
	case r.IsNew():
		method = MethodCreate
	case opts.Patch:
		method = MethodPatch
		opts.Attrs = attrs.Clone()
	}

	err := r.sync(ctx, method, opts)
	if attrs != nil && opts.Wait {
		r.attributes = original
	}
	return err
}

// Destroy deletes the record through the sync hook. A new record is never
// sent to the backend; its success path runs immediately. "destroy" fires
// right away unless opts.Wait defers it to the backend's confirmation. It
// does not fire when the request could not be made at all, such as with no
// sync hook or no URL.
func (r *Record) Destroy(ctx context.Context, opts *Options) error {
	opts = opts.Clone()
	success := opts.Success
	opts.Success = nil

	destroy := func() {
		r.Trigger(EventDestroy, r, nil, opts)
	}
	settled := false
	opts.resolve = func(resp any) {
		settled = true
		if opts.Wait || r.IsNew() {
			destroy()
		}
		if success != nil {
			success(r, resp, opts)
		}
		if !r.IsNew() {
			r.Trigger(EventSync, r, resp, opts)
		}
	}

	if r.IsNew() {
		opts.Resolve(nil)
		return nil
	}

	r.wrapError(opts)
	reject := opts.reject
	opts.reject = func(resp any) {
		settled = true
		reject(resp)
	}

	// An error with nothing settled means no request was made.
	err := r.sync(ctx, MethodDelete, opts)
	if err != nil && !settled {
		return err
	}
	if !opts.Wait {
		destroy()
	}
	return err
}

// wrapError routes a rejected request to the caller's error callback and
// the "error" event.
func (r *Record) wrapError(opts *Options) {
	onError := opts.Error
	opts.Error = nil
	opts.reject = func(resp any) {
		if onError != nil {
			onError(r, resp, opts)
		}
		r.Trigger(EventError, r, resp, opts)
	}
}

func (r *Record) parse(resp any, opts *Options) Attrs {
	if r.parser != nil {
		return r.parser(resp, opts)
	}
	return AttrsFrom(resp)
}

func (r *Record) sync(ctx context.Context, method Method, opts *Options) error {
	if r.syncFn == nil {
		return ErrNoSync
	}
	if r.logger != nil {
		r.logger.Debug("record sync",
			slog.String("cid", r.cid),
			slog.String("method", string(method)),
		)
	}
	return r.syncFn(ctx, method, r, opts)
}

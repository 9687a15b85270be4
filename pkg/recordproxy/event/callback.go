package event

import "reflect"

// All is the wildcard channel. Listeners on All receive every event with the
// event name as their first argument.
const All = "all"

// Func is the body of a listener. this is the receiver the listener was
// registered with (its context, or the owning Observable when none was given).
type Func func(this any, args ...any)

// Callback is an identity-bearing listener.
type Callback struct {
	fn       Func
	original *Callback
}

// NewCallback wraps fn in a new Callback. Each call yields a distinct identity.
func NewCallback(fn Func) *Callback {
	return &Callback{fn: fn}
}

// Wrap returns a Callback that runs fn but stands in for original when
// listeners are matched for removal.
func Wrap(original *Callback, fn Func) *Callback {
	return &Callback{fn: fn, original: original}
}

// Call invokes the callback. A nil callback is a no-op.
func (c *Callback) Call(this any, args ...any) {
	if c == nil || c.fn == nil {
		return
	}
	c.fn(this, args...)
}

// Original returns the callback c stands in for, or nil.
func (c *Callback) Original() *Callback {
	if c == nil {
		return nil
	}
	return c.original
}

// Matches reports whether c is other or a wrapper standing in for other.
func (c *Callback) Matches(other *Callback) bool {
	if c == nil || other == nil {
		return false
	}
	return c == other || c.original == other
}

// SameIdentity reports whether a and b denote the same context value.
// Reference kinds compare by pointer, comparable values by ==. Structs and
// arrays that are not comparable match when every field or element does,
// so a context holding a slice matches a copy sharing that slice. It never
// panics.
func SameIdentity(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return sameValue(reflect.ValueOf(a), reflect.ValueOf(b))
}

func sameValue(va, vb reflect.Value) bool {
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Func, reflect.Chan, reflect.Pointer, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Interface:
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		return sameValue(va.Elem(), vb.Elem())
	case reflect.Struct:
		for i := range va.NumField() {
			if !sameValue(va.Field(i), vb.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := range va.Len() {
			if !sameValue(va.Index(i), vb.Index(i)) {
				return false
			}
		}
		return true
	}
	return va.Equal(vb)
}

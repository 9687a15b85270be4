package config

import (
	"slices"
	"time"
)

// Config is a decoded YAML or JSON document. Lookups fall back to the
// given default when a key is absent or holds a value of another type.
type Config struct {
	values map[string]any
}

// New wraps values. A nil map is an empty document.
func New(values map[string]any) Config {
	if values == nil {
		values = map[string]any{}
	}
	return Config{values: values}
}

func lookup[T any](c Config, key string, def T) T {
	if v, ok := c.values[key].(T); ok {
		return v
	}
	return def
}

// String returns the string at key.
func (c Config) String(key, def string) string {
	return lookup(c, key, def)
}

// Bool returns the boolean at key.
func (c Config) Bool(key string, def bool) bool {
	return lookup(c, key, def)
}

// Duration returns the duration at key. Strings use time.ParseDuration;
// bare numbers are seconds.
func (c Config) Duration(key string, def time.Duration) time.Duration {
	switch v := c.values[key].(type) {
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return def
}

// StringSlice returns the list at key if every element is a string.
func (c Config) StringSlice(key string, def []string) []string {
	items, ok := c.values[key].([]any)
	if !ok {
		return def
	}
	out := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return def
		}
		out[i] = s
	}
	return out
}

// Map returns the mapping at key, or nil.
func (c Config) Map(key string) map[string]any {
	return lookup[map[string]any](c, key, nil)
}

// Value returns whatever is stored at key.
func (c Config) Value(key string) any {
	return c.values[key]
}

// Has reports whether key is present.
func (c Config) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Keys returns the top-level keys in sorted order.
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

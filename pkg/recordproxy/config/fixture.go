package config

import (
	"fmt"
	"slices"
	"time"
)

// Fixture describes a record to build: its initial attributes plus the
// settings a record is constructed with.
//
//	url_root: /notes
//	id_attribute: id
//	required: [title]
//	wait: false
//	timeout: 5s
//	defaults:
//	  status: draft
//	attributes:
//	  title: hello
type Fixture struct {
	URLRoot     string
	IDAttribute string
	Required    []string
	Wait        bool
	Timeout     time.Duration
	Defaults    map[string]any
	Attributes  map[string]any
}

// Default fixture settings.
const (
	DefaultIDAttribute = "id"
	DefaultTimeout     = 10 * time.Second
)

// fixtureKeys are the setting keys of a fixture document.
var fixtureKeys = []string{"url_root", "id_attribute", "required", "wait", "timeout", "defaults"}

// ParseFixture reads a Fixture out of cfg. In a document without an
// "attributes" section every non-setting key is an attribute.
func ParseFixture(cfg Config) Fixture {
	f := Fixture{
		URLRoot:     cfg.String("url_root", ""),
		IDAttribute: cfg.String("id_attribute", DefaultIDAttribute),
		Required:    cfg.StringSlice("required", nil),
		Wait:        cfg.Bool("wait", false),
		Timeout:     cfg.Duration("timeout", DefaultTimeout),
		Defaults:    cfg.Map("defaults"),
		Attributes:  cfg.Map("attributes"),
	}
	if !cfg.Has("attributes") {
		f.Attributes = map[string]any{}
		for _, k := range cfg.Keys() {
			if !slices.Contains(fixtureKeys, k) {
				f.Attributes[k] = cfg.Value(k)
			}
		}
	}
	if f.Attributes == nil {
		f.Attributes = map[string]any{}
	}
	return f
}

// LoadFixture loads a Fixture from a YAML or JSON file.
func LoadFixture(path string) (Fixture, error) {
	cfg, err := Load(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("load fixture %s: %w", path, err)
	}
	return ParseFixture(cfg), nil
}

// Missing returns the required attribute names absent from attrs.
func (f Fixture) Missing(attrs map[string]any) []string {
	var missing []string
	for _, name := range f.Required {
		if v, ok := attrs[name]; !ok || v == nil || v == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

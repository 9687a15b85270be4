package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/config"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/observability"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/persist"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

// openStore opens the configured store together with a Syncer over it.
func (o *RootOptions) openStore() (persist.Store, *persist.Syncer, error) {
	store, err := persist.Open(o.Store, o.DB)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to open store", err)
	}
	syncer := persist.NewSyncer(store,
		persist.WithLogger(o.Logger),
		persist.WithMetrics(observability.NewMetricsRecorder()),
		persist.WithSpans(observability.NewSpanManager()),
	)
	return store, syncer, nil
}

// newProxy builds the record described by f and returns a proxy of it.
// sync may be nil for records that are never persisted.
func (o *RootOptions) newProxy(f config.Fixture, sync record.SyncFunc) *recordproxy.Proxy {
	urlRoot := f.URLRoot
	if urlRoot == "" {
		urlRoot = o.URLRoot
	}
	rec := record.New(f.Attributes,
		record.WithDefaults(f.Defaults),
		record.WithIDAttribute(f.IDAttribute),
		record.WithURLRoot(urlRoot),
		record.WithValidator(requiredValidator(f)),
		record.WithSync(sync),
		record.WithLogger(o.Logger),
	)
	return recordproxy.Extend(rec,
		recordproxy.WithLogger(o.Logger),
		recordproxy.WithMetrics(observability.NewMetricsRecorder()),
	).New()
}

// requiredValidator rejects writes that leave a required attribute empty.
func requiredValidator(f config.Fixture) record.ValidateFunc {
	if len(f.Required) == 0 {
		return nil
	}
	return func(attrs record.Attrs, _ *record.Options) error {
		if missing := f.Missing(attrs); len(missing) > 0 {
			return fmt.Errorf("missing required attributes: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

// parseAssignment splits "key=value". The value is decoded as YAML so that
// numbers and booleans keep their type; an empty value is nil.
func parseAssignment(s string) (string, any, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid assignment %q: want key=value", s)
	}
	if raw == "" {
		return key, nil, nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return key, raw, nil
	}
	return key, v, nil
}

// formatAttrs renders attrs as sorted key=value pairs.
func formatAttrs(attrs record.Attrs) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, attrs[k])
	}
	return strings.Join(parts, " ")
}

// recordFor builds an empty persisted record with the given id, used by
// commands that address an existing document.
func (o *RootOptions) recordFor(id string, sync record.SyncFunc) *recordproxy.Proxy {
	return o.newProxy(config.Fixture{
		URLRoot:     o.URLRoot,
		IDAttribute: config.DefaultIDAttribute,
		Attributes:  map[string]any{config.DefaultIDAttribute: id},
	}, sync)
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/config"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/event"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Sets []string
}

// TraceEvent is one event observed during a trace.
type TraceEvent struct {
	Source  string `json:"source"`  // "proxied" or "proxy"
	Event   string `json:"event"`
	Subject string `json:"subject"` // which model the listener received
	Value   any    `json:"value,omitempty"`
}

// TraceStep is one write and the events it caused.
type TraceStep struct {
	Set    string       `json:"set"`
	Events []TraceEvent `json:"events"`
	Error  string       `json:"error,omitempty"`
}

// TraceResult holds the complete trace output.
type TraceResult struct {
	Steps      []TraceStep  `json:"steps"`
	Attributes record.Attrs `json:"attributes"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace <fixture>",
		Short: "Show the events a record and its proxy observe",
		Long: `Build a record from a fixture, apply each --set through a proxy
of it and print, per write, every event seen by a listener on the
record and by a listener on the proxy, in firing order.

Writes are validated against the fixture's required attributes.
Values are parsed as YAML; an empty value clears the attribute.

Examples:
  recordproxy trace note.yaml --set title=world --set views=3
  recordproxy trace note.yaml --set title= --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.Sets, "set", nil, "attribute assignment key=value (repeatable)")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command, path string) error {
	fixture, err := config.LoadFixture(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}

	type assignment struct {
		raw   string
		key   string
		value any
	}
	assignments := make([]assignment, 0, len(opts.Sets))
	for _, s := range opts.Sets {
		key, value, err := parseAssignment(s)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --set", err)
		}
		assignments = append(assignments, assignment{raw: s, key: key, value: value})
	}

	proxy := opts.newProxy(fixture, nil)
	proxied := proxy.Proxied()

	label := func(v any) string {
		switch {
		case event.SameIdentity(v, proxy):
			return "proxy"
		case event.SameIdentity(v, proxied):
			return "proxied"
		default:
			return fmt.Sprintf("%T", v)
		}
	}

	var step *TraceStep
	observe := func(source string) *event.Callback {
		return event.NewCallback(func(_ any, args ...any) {
			if step == nil || len(args) < 2 {
				return
			}
			name, _ := args[0].(string)
			ev := TraceEvent{Source: source, Event: name, Subject: label(args[1])}
			if strings.HasPrefix(name, record.ChangePrefix) && len(args) > 2 {
				ev.Value = args[2]
			}
			step.Events = append(step.Events, ev)
		})
	}
	proxied.On(event.All, observe("proxied"), nil)
	proxy.On(event.All, observe("proxy"), nil)

	result := TraceResult{Steps: make([]TraceStep, 0, len(assignments))}
	for _, a := range assignments {
		step = &TraceStep{Set: a.raw, Events: []TraceEvent{}}
		if err := proxy.Set(record.Attrs{a.key: a.value}, &record.Options{Validate: true}); err != nil {
			step.Error = err.Error()
		}
		result.Steps = append(result.Steps, *step)
	}
	step = nil
	result.Attributes = proxy.Attributes()

	return opts.formatter(cmd).Success(result, formatTrace(result))
}

// formatTrace renders a trace as indented text, one event per line.
func formatTrace(result TraceResult) string {
	var b strings.Builder
	for _, s := range result.Steps {
		fmt.Fprintf(&b, "set %s\n", s.Set)
		for _, ev := range s.Events {
			fmt.Fprintf(&b, "  %s %s subject=%s", ev.Source, ev.Event, ev.Subject)
			if strings.HasPrefix(ev.Event, record.ChangePrefix) {
				fmt.Fprintf(&b, " value=%v", ev.Value)
			}
			b.WriteString("\n")
		}
		if s.Error != "" {
			fmt.Fprintf(&b, "  error: %s\n", s.Error)
		}
	}
	fmt.Fprintf(&b, "attributes: %s\n", formatAttrs(result.Attributes))
	return b.String()
}

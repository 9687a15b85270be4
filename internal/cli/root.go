package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Store   string
	DB      string
	URLRoot string
	Verbose bool
	Format  string // "json" | "text"

	// Logger is built before any subcommand runs.
	Logger *slog.Logger

	logLevel string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the recordproxy CLI.
// Flag defaults come from the RECORDPROXY_* environment variables.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	env, envErr := config.LoadEnv()

	cmd := &cobra.Command{
		Use:   "recordproxy",
		Short: "Inspect and persist records through proxies",
		Long: `recordproxy drives records and the proxies that stand in for them.

Records are built from YAML or JSON fixtures and persisted to a
memory or SQLite store. The trace command shows which events a
record and its proxy observe for a sequence of writes.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", envErr)
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			logger, err := newLogger(cmd.ErrOrStderr(), opts)
			if err != nil {
				return err
			}
			opts.Logger = logger
			return nil
		},
	}

	opts.logLevel = env.LogLevel

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Store, "store", env.Store, "store kind (memory|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", env.DB, "store data source (SQLite path or memory store name)")
	cmd.PersistentFlags().StringVar(&opts.URLRoot, "url-root", env.URLRoot, "URL root for records whose fixture names none")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	// Add subcommands
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewDestroyCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger writes to w at the configured level, or debug with --verbose.
// JSON output gets JSON logs so both can be machine read.
func newLogger(w io.Writer, opts *RootOptions) (*slog.Logger, error) {
	level := slog.LevelWarn
	if opts.logLevel != "" {
		if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
		}
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if opts.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
}

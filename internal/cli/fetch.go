package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <id>",
		Short: "Load a saved record and print its attributes",
		Long: `Load the record with the given id from under --url-root.

Examples:
  recordproxy fetch 6f1c...
  recordproxy --url-root /notes fetch 6f1c... --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(rootOpts, cmd, args[0])
		},
	}
}

func runFetch(opts *RootOptions, cmd *cobra.Command, id string) error {
	store, syncer, err := opts.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	proxy := opts.recordFor(id, syncer.Sync)
	if err := proxy.Fetch(cmd.Context(), nil); err != nil {
		return WrapExitError(ExitFailure, "fetch failed", err)
	}

	attrs := proxy.Attributes()
	return opts.formatter(cmd).Success(attrs, fmt.Sprintln(formatAttrs(attrs)))
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// NewDestroyCommand creates the destroy command.
func NewDestroyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "destroy <id>",
		Short: "Delete a saved record",
		Long: `Delete the record with the given id from under --url-root.

Examples:
  recordproxy destroy 6f1c...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestroy(rootOpts, cmd, args[0])
		},
	}
}

func runDestroy(opts *RootOptions, cmd *cobra.Command, id string) error {
	store, syncer, err := opts.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	proxy := opts.recordFor(id, syncer.Sync)
	if err := proxy.Destroy(cmd.Context(), &record.Options{Wait: true}); err != nil {
		return WrapExitError(ExitFailure, "destroy failed", err)
	}

	url, _ := proxy.URL()
	return opts.formatter(cmd).Success(map[string]string{"url": url}, fmt.Sprintf("destroyed %s\n", url))
}

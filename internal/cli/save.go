package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/recordproxy/pkg/recordproxy/config"
	"github.com/randalmurphal/recordproxy/pkg/recordproxy/record"
)

// SaveResult is the JSON payload of the save command.
type SaveResult struct {
	ID         any          `json:"id"`
	URL        string       `json:"url"`
	Attributes record.Attrs `json:"attributes"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <fixture>",
		Short: "Create a record from a fixture and save it",
		Long: `Build a record from a YAML or JSON fixture and save it through a
proxy. The store assigns the record's id.

Examples:
  recordproxy save note.yaml
  recordproxy --store sqlite --db notes.db save note.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(rootOpts, cmd, args[0])
		},
	}
}

func runSave(opts *RootOptions, cmd *cobra.Command, path string) error {
	fixture, err := config.LoadFixture(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load fixture", err)
	}

	store, syncer, err := opts.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	proxy := opts.newProxy(fixture, syncer.Sync)

	ctx, cancel := context.WithTimeout(cmd.Context(), fixture.Timeout)
	defer cancel()
	if err := proxy.Save(ctx, nil, &record.Options{Wait: fixture.Wait}); err != nil {
		return WrapExitError(ExitFailure, "save failed", err)
	}

	url, err := proxy.URL()
	if err != nil {
		return WrapExitError(ExitFailure, "save failed", err)
	}
	return opts.formatter(cmd).Success(SaveResult{
		ID:         proxy.ID(),
		URL:        url,
		Attributes: proxy.Attributes(),
	}, fmt.Sprintf("saved %s\n", url))
}

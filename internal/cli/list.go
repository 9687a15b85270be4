package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// ListEntry is one stored document in list output.
type ListEntry struct {
	Key      string    `json:"key"`
	Revision int64     `json:"revision"`
	Updated  time.Time `json:"updated"`
	Size     int64     `json:"size"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved records under the URL root",
		Long: `List the documents stored under --url-root with their revisions.

Examples:
  recordproxy --url-root /notes list`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	store, _, err := opts.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	prefix := strings.TrimSuffix(opts.URLRoot, "/") + "/"
	infos, err := store.List(cmd.Context(), prefix)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list records", err)
	}

	entries := make([]ListEntry, len(infos))
	var text strings.Builder
	for i, info := range infos {
		entries[i] = ListEntry{
			Key:      info.Key,
			Revision: info.Revision,
			Updated:  info.Updated,
			Size:     info.Size,
		}
		fmt.Fprintf(&text, "%s\trev %d\t%d bytes\n", info.Key, info.Revision, info.Size)
	}
	if len(infos) == 0 {
		fmt.Fprintf(&text, "No records under %s\n", prefix)
	}
	return opts.formatter(cmd).Success(entries, text.String())
}

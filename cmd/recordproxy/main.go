// Command recordproxy builds records from fixtures, persists them and
// traces the events their proxies observe.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/randalmurphal/recordproxy/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}

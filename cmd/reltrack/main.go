// Command reltrack maintains a ledger of a git repository's releases,
// intended to be invoked from a post-receive hook.
package main

import (
	"fmt"
	"os"

	"github.com/reltrack/reltrack/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "reltrack: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// Command rdfpipe runs streaming RDF quad pipelines.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/rdfpipe/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		// Commands report their own failures; anything else came from cobra.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfpipe/internal/builtin"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Registry resolves processor names. Nil means builtin.Default().
	Registry *builtin.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) registry() *builtin.Registry {
	if o.Registry == nil {
		o.Registry = builtin.Default()
	}
	return o.Registry
}

// NewRootCommand creates the root command for the rdfpipe CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "rdfpipe",
		Short: "rdfpipe - streaming RDF quad pipelines",
		Long: `Process RDF quad streams through pipelines of processors.

A pipeline is written as a sequence of @processor calls, with parallel
groups in braces merged by a set or multiset combinator:

  rdfpipe run -i data.jsonl '@rdfs ontology.jsonl { @nop , @tbox }u @unique'`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewProcessorsCommand(opts))

	return cmd
}

// setupLogging installs a text logger on w, at debug level when verbose.
func setupLogging(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

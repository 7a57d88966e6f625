package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfpipe/internal/builtin"
	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Input          string
	Output         string
	ConfigPath     string
	TmpDir         string
	SpillThreshold int
	Workers        int
	OutputFormat   string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [flags] PIPELINE...",
		Short: "Stream quads through a pipeline",
		Long: `Read JSON Lines quads, run them through the pipeline and write the result.

The pipeline may be given as one quoted argument or as separate words.
Output is written only when every stage completes; a failed run leaves
no partial output file behind.

Example:
  rdfpipe run -i data.jsonl -o out.jsonl '@rdfs tbox.jsonl @unique -m'
  rdfpipe run --output-format nquads @stats -o < data.jsonl`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(opts, args, cmd)
		},
	}

	// Flags after the first pipeline word belong to the processors.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "-", "input JSONL file (- for stdin)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "YAML run configuration")
	cmd.Flags().StringVar(&opts.TmpDir, "tmp", "", "directory for spill files (default: system temp dir)")
	cmd.Flags().IntVar(&opts.SpillThreshold, "spill-threshold", spill.DefaultMaxInMemory, "distinct keys held in memory before spilling")
	cmd.Flags().IntVar(&opts.Workers, "workers", runtime.GOMAXPROCS(0), "rule engine workers")
	cmd.Flags().StringVar(&opts.OutputFormat, "output-format", string(ir.FormatJSONL), "output encoding (jsonl|nquads)")

	return cmd
}

func runPipeline(opts *RunOptions, args []string, cmd *cobra.Command) error {
	logger := setupLogging(cmd.ErrOrStderr(), opts.Verbose)
	formatter := &OutputFormatter{
		Format:  opts.Format,
		Writer:  cmd.ErrOrStderr(), // stdout carries quads
		Verbose: opts.Verbose,
	}

	format := ir.Format(opts.OutputFormat)
	if !slices.Contains(ir.ValidFormats, format) {
		return reportError(formatter, ExitCommandError, ErrCodeGeneric,
			fmt.Errorf("invalid output format %q: must be one of %v", opts.OutputFormat, ir.ValidFormats))
	}

	cfg := &Config{}
	if opts.ConfigPath != "" {
		loaded, err := LoadConfig(opts.ConfigPath)
		if err != nil {
			return reportError(formatter, ExitCommandError, ErrCodeConfig, err)
		}
		cfg = loaded
	}
	cfg.merge(cmd.Flags(), opts)

	reg := opts.registry()
	node, err := pipeline.ParseArgs(args, reg)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrorCode(err), err)
	}
	formatter.VerboseLog("Parsed pipeline: %s", node)

	namespaces := ir.DefaultNamespaces()
	for prefix, ns := range cfg.Prefixes {
		namespaces.Set(prefix, ns)
	}
	env := builtin.Env{
		Spill: spill.Options{
			Dir:         cfg.TmpDir,
			MaxInMemory: cfg.SpillThreshold,
			Logger:      logger,
		},
		Workers:    cfg.Workers,
		Namespaces: namespaces,
		Logger:     logger,
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := builtin.Build(ctx, node, reg, env)
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrorCode(err), err)
	}

	in, closeIn, err := openInput(opts.Input, cmd.InOrStdin())
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeIO, err)
	}
	defer closeIn()

	out, err := openOutput(opts.Output, cmd.OutOrStdout())
	if err != nil {
		return reportError(formatter, ExitCommandError, ErrCodeIO, err)
	}

	res, err := processor.Run(ctx, p, ir.NewDecoder(in), processor.EncoderSink(ir.NewEncoder(out, format)))
	if err != nil {
		out.discard()
		code := ErrorCode(err)
		exit := ExitFailure
		if code != ErrCodeRuntime && code != ErrCodeGeneric {
			exit = ExitCommandError
		}
		return reportError(formatter, exit, code, err)
	}
	if err := out.commit(); err != nil {
		return reportError(formatter, ExitFailure, ErrCodeIO, err)
	}

	logger.Info("pipeline complete",
		"read", res.Read,
		"duration", res.Duration,
		"output", opts.Output,
	)
	return nil
}

// reportError prints err through the formatter and returns it with an
// exit code.
func reportError(f *OutputFormatter, exit int, code string, err error) error {
	_ = f.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

// output buffers a run's result in a temp file next to the target and
// renames it into place on commit. Stdout output is written directly.
type output struct {
	io.Writer
	tmp    *os.File
	target string
}

func openOutput(path string, stdout io.Writer) (*output, error) {
	if path == "" || path == "-" {
		return &output{Writer: stdout}, nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rdfpipe-*")
	if err != nil {
		return nil, err
	}
	return &output{Writer: tmp, tmp: tmp, target: path}, nil
}

func (o *output) commit() error {
	if o.tmp == nil {
		return nil
	}
	if err := o.tmp.Close(); err != nil {
		_ = os.Remove(o.tmp.Name())
		return err
	}
	if err := os.Rename(o.tmp.Name(), o.target); err != nil {
		_ = os.Remove(o.tmp.Name())
		return fmt.Errorf("write %s: %w", o.target, err)
	}
	return nil
}

func (o *output) discard() {
	if o.tmp == nil {
		return
	}
	_ = o.tmp.Close()
	if err := os.Remove(o.tmp.Name()); err != nil {
		slog.Warn("could not remove partial output", "path", o.tmp.Name(), "error", err)
	}
}

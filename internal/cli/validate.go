package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rdfpipe/internal/builtin"
	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/rules"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool           `json:"valid"`
	Pipeline string         `json:"pipeline"`
	Stages   int            `json:"stages"`
	Warnings []StageWarning `json:"warnings,omitempty"`
}

// StageWarning is an informational finding about one stage.
type StageWarning struct {
	Stage   string   `json:"stage"`
	Message string   `json:"message"`
	Rules   []string `json:"rules,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate PIPELINE...",
		Short: "Check a pipeline without running it",
		Long: `Parse a pipeline and construct every processor without reading input.

Catches syntax errors, unknown processors and combinators, bad arguments,
rulesets that do not compile or are unsafe, and missing background files.
Recursive rule groups are reported as warnings.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runValidate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
	logger := setupLogging(cmd.ErrOrStderr(), opts.Verbose)

	reg := opts.registry()
	node, err := pipeline.ParseArgs(args, reg)
	if err != nil {
		return outputValidateError(formatter, err)
	}
	formatter.VerboseLog("Parsed pipeline: %s", node)

	env := builtin.Env{Logger: logger}
	if _, err := builtin.Build(cmd.Context(), node, reg, env); err != nil {
		return outputValidateError(formatter, err)
	}

	result := ValidationResult{Valid: true, Pipeline: node.String()}
	var walkErr error
	pipeline.Walk(node, func(n pipeline.Node) {
		call, ok := n.(*pipeline.Call)
		if !ok || walkErr != nil {
			return
		}
		result.Stages++
		rs, err := builtin.RuleSet(call, env)
		if err != nil {
			walkErr = err
			return
		}
		if rs == nil {
			return
		}
		stage := fmt.Sprintf("@%s (offset %d)", call.Name, call.Pos)
		formatter.VerboseLog("Analyzing ruleset %s of %s", rs.Name, stage)
		for _, w := range rules.AnalyzeRecursion(rs) {
			result.Warnings = append(result.Warnings, StageWarning{
				Stage:   stage,
				Message: w.Message,
				Rules:   w.Path,
			})
		}
	})
	if walkErr != nil {
		return outputValidateError(formatter, walkErr)
	}

	return outputValidateSuccess(formatter, result)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Pipeline valid (%d stages)\n", result.Stages)
	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "  warning: %s: %s\n", w.Stage, w.Message)
	}
	return nil
}

// outputValidateError outputs a construction error. Every failure
// validate can see is a command-level error (exit code 2).
func outputValidateError(formatter *OutputFormatter, err error) error {
	code := ErrorCode(err)
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(ExitCommandError, code, err)
}

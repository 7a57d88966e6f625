package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/rdfpipe/internal/builtin"
	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/rules"
	"github.com/roach88/rdfpipe/internal/script"
	"github.com/roach88/rdfpipe/internal/spill"
	"github.com/roach88/rdfpipe/internal/testutil"
)

// Error kinds of a failed run.
const (
	KindSyntax            = "syntax"
	KindUnknownProcessor  = "unknown_processor"
	KindUnknownCombinator = "unknown_combinator"
	KindArguments         = "arguments"
	KindRuleParse         = "rule_parse"
	KindUnsafeRule        = "unsafe_rule"
	KindResource          = "resource"
	KindScript            = "script"
	KindRuntime           = "runtime"
	KindOther             = "other"
)

// Harness runs scenarios against a processor registry.
type Harness struct {
	registry *builtin.Registry
	logger   *slog.Logger
	spillDir string
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry replaces the default processor registry.
func WithRegistry(reg *builtin.Registry) Option {
	return func(h *Harness) { h.registry = reg }
}

// WithLogger routes processor logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithSpillDir places spill files in dir.
func WithSpillDir(dir string) Option {
	return func(h *Harness) { h.spillDir = dir }
}

// New creates a harness. By default it uses every built-in processor and
// discards logs.
func New(opts ...Option) *Harness {
	h := &Harness{
		registry: builtin.Default(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a scenario and evaluates its assertions.
//
// Execution flow:
// 1. Parse the input quads against the scenario's prefix table
// 2. Build the pipeline; construction errors count as the run's failure
// 3. Stream the input through it into a collecting sink
// 4. Check the failure against expect_error, then evaluate assertions
//
// The returned error reports a broken scenario, never a failed pipeline.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	ns := scenario.Namespaces()
	src := &processor.SliceSource{}
	for i, spec := range scenario.Input {
		q, err := spec.Quad(ns)
		if err != nil {
			return nil, fmt.Errorf("input[%d]: %w", i, err)
		}
		src.Quads = append(src.Quads, q)
	}

	env := builtin.Env{
		Spill: spill.Options{
			Dir:         h.spillDir,
			MaxInMemory: scenario.SpillThreshold,
		},
		Namespaces: ns,
		Logger:     h.logger,
	}

	result := NewResult()
	sink := testutil.NewCollector()
	p, err := builtin.Compile(ctx, scenario.Expression(), h.registry, env)
	if err == nil {
		var res processor.Result
		res, err = processor.Run(ctx, p, src, sink)
		result.Read = res.Read
	}
	result.Err = err
	result.Output = sink.Quads()
	result.Namespaces = sink.Namespaces()

	h.logger.Info("scenario executed",
		"scenario", scenario.Name,
		"read", result.Read,
		"emitted", len(result.Output),
		"error", err,
	)

	switch {
	case scenario.ExpectError != "":
		if err == nil {
			result.AddError(fmt.Sprintf("expected %s error, pipeline succeeded", scenario.ExpectError))
		} else if kind := ErrorKind(err); kind != scenario.ExpectError {
			result.AddError(fmt.Sprintf("expected %s error, got %s: %v", scenario.ExpectError, kind, err))
		}
		return result, nil
	case err != nil:
		result.AddError(fmt.Sprintf("pipeline failed: %v", err))
		return result, nil
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions, ns) {
		result.AddError(msg)
	}
	return result, nil
}

// ErrorKind classifies a pipeline failure. Runtime failures are checked
// first because a stage error wraps whatever the stage returned.
func ErrorKind(err error) string {
	var (
		syntaxErr   *pipeline.SyntaxError
		unknownProc *pipeline.UnknownProcessorError
		unknownComb *pipeline.UnknownCombinatorError
		argErr      *processor.ArgumentError
		ruleErr     *rules.RuleParseError
		unsafeErr   *rules.UnsafeRuleError
		resourceErr *processor.ResourceError
		scriptErr   *script.Error
	)
	switch {
	case processor.IsRuntimeError(err):
		return KindRuntime
	case errors.As(err, &syntaxErr):
		return KindSyntax
	case errors.As(err, &unknownProc):
		return KindUnknownProcessor
	case errors.As(err, &unknownComb):
		return KindUnknownCombinator
	case errors.As(err, &argErr):
		return KindArguments
	case errors.As(err, &ruleErr):
		return KindRuleParse
	case errors.As(err, &unsafeErr):
		return KindUnsafeRule
	case errors.As(err, &resourceErr):
		return KindResource
	case errors.As(err, &scriptErr):
		return KindScript
	}
	return KindOther
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/rules"
	"github.com/roach88/rdfpipe/internal/script"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // The pipeline failed while processing quads
	ExitCommandError = 2 // The pipeline could not be built: syntax, names, arguments, rules, resources
)

// Error codes reported in CLI output.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeConfig            = "E002" // Unreadable or invalid config file
	ErrCodeIO                = "E003" // Input or output file error
	ErrCodeSyntax            = "E101" // Malformed pipeline expression
	ErrCodeUnknownProcessor  = "E102" // @name not registered
	ErrCodeUnknownCombinator = "E103" // Invalid symbol after '}'
	ErrCodeArguments         = "E104" // Malformed processor arguments
	ErrCodeRuleParse         = "E110" // Ruleset does not compile
	ErrCodeUnsafeRule        = "E111" // Head variable not bound by the body
	ErrCodeResource          = "E120" // Missing background file, unusable temp dir
	ErrCodeScript            = "E121" // Script rejected or failed
	ErrCodeRuntime           = "E201" // Stage failed during the run
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode classifies a pipeline error for CLI output. Runtime failures
// are checked first: a stage error wraps whatever the stage returned.
func ErrorCode(err error) string {
	var (
		syntaxErr   *pipeline.SyntaxError
		unknownProc *pipeline.UnknownProcessorError
		unknownComb *pipeline.UnknownCombinatorError
		argErr      *processor.ArgumentError
		ruleErr     *rules.RuleParseError
		unsafeErr   *rules.UnsafeRuleError
		resourceErr *processor.ResourceError
		scriptErr   *script.Error
		runtimeErr  *processor.RuntimeProcessingError
	)
	switch {
	case errors.As(err, &runtimeErr):
		return ErrCodeRuntime
	case errors.As(err, &syntaxErr):
		return ErrCodeSyntax
	case errors.As(err, &unknownProc):
		return ErrCodeUnknownProcessor
	case errors.As(err, &unknownComb):
		return ErrCodeUnknownCombinator
	case errors.As(err, &argErr):
		return ErrCodeArguments
	case errors.As(err, &ruleErr):
		return ErrCodeRuleParse
	case errors.As(err, &unsafeErr):
		return ErrCodeUnsafeRule
	case errors.As(err, &resourceErr):
		return ErrCodeResource
	case errors.As(err, &scriptErr):
		return ErrCodeScript
	}
	return ErrCodeGeneric
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string    `json:"status"`          // "ok" or "error"
	Data   any       `json:"data,omitempty"`  // success payload
	Error  *CLIError `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E001", "E101", etc.
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

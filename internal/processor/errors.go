package processor

import (
	"errors"
	"fmt"
)

// ResourceError reports a resource a processor needs at construction time
// that is missing or unusable: a background data file, the temp directory.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("resource %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// ArgumentError reports malformed processor arguments.
type ArgumentError struct {
	Processor string
	Err       error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("@%s: invalid arguments: %v", e.Processor, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

// RuntimeProcessingError reports a stage that failed while the pipeline was
// running. It aborts the whole run.
type RuntimeProcessingError struct {
	// Stage identifies the failing stage, e.g. "@rules (offset 12)".
	Stage string
	Err   error
}

func (e *RuntimeProcessingError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *RuntimeProcessingError) Unwrap() error { return e.Err }

// IsResourceError returns true if err is or wraps a ResourceError.
func IsResourceError(err error) bool {
	var re *ResourceError
	return errors.As(err, &re)
}

// IsRuntimeError returns true if err is or wraps a RuntimeProcessingError.
func IsRuntimeError(err error) bool {
	var re *RuntimeProcessingError
	return errors.As(err, &re)
}

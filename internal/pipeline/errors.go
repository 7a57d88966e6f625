package pipeline

import (
	"errors"
	"fmt"
)

// SyntaxError reports a malformed pipeline expression.
type SyntaxError struct {
	// Pos is the byte offset of the offending token (len(input) at end of input).
	Pos int

	// Expected describes what the parser was looking for.
	Expected string

	// Found is the offending token, "<EOF>" at end of input.
	Found string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: expected %s, found '%s'", e.Pos, e.Expected, e.Found)
}

// UnknownProcessorError reports a '@name' that is not registered.
type UnknownProcessorError struct {
	Name string
	Pos  int
}

func (e *UnknownProcessorError) Error() string {
	return fmt.Sprintf("unknown processor @%s at offset %d", e.Name, e.Pos)
}

// UnknownCombinatorError reports an invalid symbol after '}'.
type UnknownCombinatorError struct {
	Symbol string
	Pos    int
}

func (e *UnknownCombinatorError) Error() string {
	return fmt.Sprintf("unknown combinator %q at offset %d", e.Symbol, e.Pos)
}

// IsParseError reports whether err is any of the parse-time errors.
func IsParseError(err error) bool {
	var se *SyntaxError
	var pe *UnknownProcessorError
	var ce *UnknownCombinatorError
	return errors.As(err, &se) || errors.As(err, &pe) || errors.As(err, &ce)
}

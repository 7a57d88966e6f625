package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
)

// maxListedOutput bounds the output quads quoted in an AssertionError.
const maxListedOutput = 20

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string    // Assertion type for categorization
	Expected string    // Human-readable expected outcome
	Actual   string    // Human-readable actual outcome
	Output   []ir.Quad // Output for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nOutput (%d quads):\n", len(e.Output))
	for i, q := range e.Output {
		if i == maxListedOutput {
			fmt.Fprintf(&buf, "  ... %d more\n", len(e.Output)-i)
			break
		}
		fmt.Fprintf(&buf, "  [%d] %s\n", i+1, q)
	}

	return buf.String()
}

// assertContains checks that the output holds at least one copy of the quad.
func assertContains(result *Result, q ir.Quad) error {
	if result.Multiplicity(q) > 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: q.String(),
		Actual:   "not found in output",
		Output:   result.Output,
	}
}

// assertExcludes checks that the output holds no copy of the quad.
func assertExcludes(result *Result, q ir.Quad) error {
	n := result.Multiplicity(q)
	if n == 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertExcludes,
		Expected: fmt.Sprintf("no %s", q),
		Actual:   fmt.Sprintf("%d copies in output", n),
		Output:   result.Output,
	}
}

// assertCount checks the exact size of the output.
func assertCount(result *Result, count int) error {
	if len(result.Output) == count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d quads", count),
		Actual:   fmt.Sprintf("%d quads", len(result.Output)),
		Output:   result.Output,
	}
}

// assertMultiplicity checks the exact number of copies of a quad.
func assertMultiplicity(result *Result, q ir.Quad, count int) error {
	n := result.Multiplicity(q)
	if n == count {
		return nil
	}
	return &AssertionError{
		Type:     AssertMultiplicity,
		Expected: fmt.Sprintf("%d copies of %s", count, q),
		Actual:   fmt.Sprintf("%d copies", n),
		Output:   result.Output,
	}
}

// assertNamespace checks that the declaration was emitted.
func assertNamespace(result *Result, prefix, namespace string) error {
	for _, d := range result.Namespaces {
		if d.Prefix == prefix && d.Namespace == namespace {
			return nil
		}
	}
	declared := make([]string, len(result.Namespaces))
	for i, d := range result.Namespaces {
		declared[i] = d.Prefix + ": <" + d.Namespace + ">"
	}
	return &AssertionError{
		Type:     AssertNamespace,
		Expected: fmt.Sprintf("%s: <%s>", prefix, namespace),
		Actual:   fmt.Sprintf("declared [%s]", strings.Join(declared, ", ")),
	}
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
// Quads in assertions are parsed against ns.
func EvaluateAssertions(result *Result, assertions []Assertion, ns *ir.Namespaces) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertContains, AssertExcludes, AssertMultiplicity:
			q, perr := assertion.Quad.Quad(ns)
			if perr != nil {
				err = fmt.Errorf("assertion[%d]: %w", i, perr)
				break
			}
			switch assertion.Type {
			case AssertContains:
				err = assertContains(result, q)
			case AssertExcludes:
				err = assertExcludes(result, q)
			default:
				err = assertMultiplicity(result, q, assertion.Count)
			}
		case AssertCount:
			err = assertCount(result, assertion.Count)
		case AssertNamespace:
			err = assertNamespace(result, assertion.Prefix, assertion.Namespace)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Snapshot renders a result as N-Quads: the namespace declarations as
// comment lines, then the output quads in sorted order. Sorting makes the
// snapshot independent of the order parallel branches and spilled tables
// emit in; duplicates are kept, so multiset semantics stay visible.
func Snapshot(result *Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := ir.NewEncoder(&buf, ir.FormatNQuads)
	for _, d := range result.Namespaces {
		if err := enc.WriteNamespace(d.Prefix, d.Namespace); err != nil {
			return nil, err
		}
	}
	quads := append([]ir.Quad(nil), result.Output...)
	ir.SortQuads(quads)
	for _, q := range quads {
		if err := enc.WriteQuad(q); err != nil {
			return nil, err
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares its output against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass and Errors.
// Test failure (via goldie) occurs if the output doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := New(WithSpillDir(t.TempDir())).Run(t.Context(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's output against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)

	return nil
}

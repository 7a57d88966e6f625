package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/testutil"
)

func sampleResult(t *testing.T) *Result {
	r := NewResult()
	r.Output = []ir.Quad{
		testutil.Q(t, "ex:a", "ex:p", "ex:b"),
		testutil.Q(t, "ex:a", "ex:p", "ex:b"),
		testutil.QC(t, "ex:a", "ex:p", "ex:c", "ex:g"),
	}
	r.Namespaces = []ir.NamespaceDecl{{Prefix: "ex", Namespace: testutil.Ex}}
	return r
}

func TestEvaluateAssertions(t *testing.T) {
	ns := testutil.Namespaces()
	tests := []struct {
		name      string
		assertion Assertion
		wantErr   string
	}{
		{"contains", Assertion{Type: AssertContains, Quad: QuadSpec{"ex:a", "ex:p", "ex:b"}}, ""},
		{"contains in graph", Assertion{Type: AssertContains, Quad: QuadSpec{"ex:a", "ex:p", "ex:c", "ex:g"}}, ""},
		{"contains wrong graph", Assertion{Type: AssertContains, Quad: QuadSpec{"ex:a", "ex:p", "ex:c"}}, "not found in output"},
		{"excludes", Assertion{Type: AssertExcludes, Quad: QuadSpec{"ex:b", "ex:p", "ex:a"}}, ""},
		{"excludes present", Assertion{Type: AssertExcludes, Quad: QuadSpec{"ex:a", "ex:p", "ex:b"}}, "2 copies in output"},
		{"count", Assertion{Type: AssertCount, Count: 3}, ""},
		{"count mismatch", Assertion{Type: AssertCount, Count: 2}, "Expected: 2 quads"},
		{"multiplicity", Assertion{Type: AssertMultiplicity, Quad: QuadSpec{"ex:a", "ex:p", "ex:b"}, Count: 2}, ""},
		{"multiplicity mismatch", Assertion{Type: AssertMultiplicity, Quad: QuadSpec{"ex:a", "ex:p", "ex:b"}, Count: 1}, "Actual: 2 copies"},
		{"namespace", Assertion{Type: AssertNamespace, Prefix: "ex", Namespace: testutil.Ex}, ""},
		{"namespace missing", Assertion{Type: AssertNamespace, Prefix: "foaf", Namespace: "http://xmlns.com/foaf/0.1/"}, "declared [ex: <" + testutil.Ex + ">]"},
		{"bad quad", Assertion{Type: AssertContains, Quad: QuadSpec{"nope:a", "ex:p", "ex:b"}}, "assertion[0]"},
		{"unknown type", Assertion{Type: "trace_count"}, `unknown assertion type "trace_count"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(sampleResult(t), []Assertion{tt.assertion}, ns)
			if tt.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.wantErr)
		})
	}
}

func TestAssertionError_ListsOutput(t *testing.T) {
	r := NewResult()
	for i := 0; i < maxListedOutput+5; i++ {
		r.Output = append(r.Output, testutil.Q(t, "ex:a", "ex:p", "ex:b"))
	}
	err := assertCount(r, 0)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: count")
	assert.Contains(t, msg, "Output (25 quads):")
	assert.Contains(t, msg, "[20] <"+testutil.Ex+"a>")
	assert.Contains(t, msg, "... 5 more")
	assert.NotContains(t, msg, "[21]")
}

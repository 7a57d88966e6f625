package transform

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/testutil"
)

func mustParse(t *testing.T, spec string) *Rules {
	t.Helper()
	r, err := Parse(strings.Fields(spec), testutil.Namespaces())
	require.NoError(t, err)
	return r
}

func TestFilters(t *testing.T) {
	in := []ir.Quad{
		testutil.Q(t, "ex:a", "ex:p", "ex:b"),
		testutil.Q(t, "ex:a", "ex:p", "_:x"),
		testutil.Q(t, "ex:a", "ex:p", `"plain"`),
		testutil.Q(t, "ex:a", "ex:p", `"hi"@en`),
		testutil.Q(t, "ex:a", "ex:p", `"hallo"@de`),
		testutil.Q(t, "ex:a", "ex:p", `"1"^^xsd:integer`),
		testutil.Q(t, "ex:a", "ex:p", "rdfs:Resource"),
		testutil.QC(t, "ex:a", "rdf:type", "ex:b", "ex:g"),
	}

	tests := []struct {
		spec string
		want []int
	}{
		{"+o <*>", []int{0, 6, 7}},
		{"-o <*>", []int{1, 2, 3, 4, 5}},
		{"+o _:*", []int{1}},
		{"+o *", []int{2}},
		{"+o *@*", []int{3, 4}},
		{"+o *@EN", []int{3}},
		{"+o *^^*", []int{5}},
		{"+o *^^xsd:integer", []int{5}},
		{"+o *^^xsd:*", []int{5}},
		{"+o rdfs:*", []int{6}},
		{"+o <http://example.org/*>", []int{0, 7}},
		{`+o "hi"@en ex:b`, []int{0, 3, 7}},
		{"+p a", []int{7}},
		{"+c <*>", []int{7}},
		{"-c <*>", []int{0, 1, 2, 3, 4, 5, 6}},
		{"+so ex:b", []int{}},
		{"+o ex:b -c ex:g", []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			r := mustParse(t, tt.spec)
			var got []int
			for i, q := range in {
				out, ok, err := r.Apply(q)
				require.NoError(t, err)
				if ok {
					assert.Equal(t, q, out)
					got = append(got, i)
				}
			}
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplace(t *testing.T) {
	r := mustParse(t, "=c ex:merged =p rdfs:label")
	out, ok, err := r.Apply(testutil.Q(t, "ex:a", "ex:name", `"Ann"`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, testutil.QC(t, "ex:a", "rdfs:label", `"Ann"`, "ex:merged"), out)
}

func TestReplaceOnlyMatching(t *testing.T) {
	r := mustParse(t, "+o *@en =o \"x\"")
	_, ok, err := r.Apply(testutil.Q(t, "ex:a", "ex:p", `"y"@de`))
	require.NoError(t, err)
	assert.False(t, ok)

	out, ok, err := r.Apply(testutil.Q(t, "ex:a", "ex:p", `"y"@en`))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ir.NewLiteral("x"), out.O)
}

func TestCast(t *testing.T) {
	tests := []struct {
		in, dt string
		want   string
		bad    bool
	}{
		{`"42"`, "xsd:integer", `"42"^^xsd:integer`, false},
		{`" 7 "`, "xsd:int", `"7"^^xsd:int`, false},
		{`"4.5"`, "xsd:decimal", `"4.5"^^xsd:decimal`, false},
		{`"1e3"`, "xsd:decimal", "", true},
		{`"1e3"`, "xsd:double", `"1e3"^^xsd:double`, false},
		{`"true"`, "xsd:boolean", `"true"^^xsd:boolean`, false},
		{`"yes"`, "xsd:boolean", "", true},
		{`"2024-02-29"`, "xsd:date", `"2024-02-29"^^xsd:date`, false},
		{`"2023-02-29"`, "xsd:date", "", true},
		{`"2024-01-01T10:00:00Z"`, "xsd:dateTime", `"2024-01-01T10:00:00Z"^^xsd:dateTime`, false},
		{`"abc"`, "xsd:integer", "", true},
		{`"abc"@en`, "xsd:string", `"abc"`, false},
		{`"abc"`, "ex:custom", `"abc"^^ex:custom`, false},
		{"ex:iri", "xsd:integer", "ex:iri", false},
	}
	for _, tt := range tests {
		t.Run(tt.in+" "+tt.dt, func(t *testing.T) {
			r := mustParse(t, "^o "+tt.dt)
			out, ok, err := r.Apply(testutil.Q(t, "ex:a", "ex:p", tt.in))
			if tt.bad {
				var castErr *CastError
				require.ErrorAs(t, err, &castErr)
				return
			}
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, testutil.Q(t, "ex:a", "ex:p", tt.want), out)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{
		"ex:a",
		"+x ex:a",
		"+o ex:a -o ex:b",
		"=p \"lit\"",
		"=s \"lit\"",
		"^p xsd:integer",
		"^o \"x\"",
		"+o nope:*",
		"+o",
		"+ ex:a",
	} {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(strings.Fields(spec), testutil.Namespaces())
			var ruleErr *RuleError
			assert.ErrorAs(t, err, &ruleErr)
		})
	}
}

func run(t *testing.T, p processor.Processor, in ...ir.Quad) ([]ir.Quad, error) {
	t.Helper()
	sink := testutil.NewCollector()
	_, err := processor.Run(context.Background(), p, &processor.SliceSource{Quads: in}, sink)
	return sink.Quads(), err
}

func TestProcessorCastFailureAbortsRun(t *testing.T) {
	_, err := run(t, New(mustParse(t, "^o xsd:integer"), Options{}),
		testutil.Q(t, "ex:a", "ex:p", `"1"`),
		testutil.Q(t, "ex:a", "ex:p", `"one"`),
	)
	var castErr *CastError
	assert.ErrorAs(t, err, &castErr)
}

func TestProcessorSkipPolicy(t *testing.T) {
	sink := testutil.NewCollector()
	h, err := New(mustParse(t, "^o xsd:integer"), Options{Skip: true}).Open(context.Background(), sink)
	require.NoError(t, err)

	ctx := context.Background()
	for _, o := range []string{`"1"`, `"one"`, `"2"`, `"two"`} {
		require.NoError(t, h.Consume(ctx, testutil.Q(t, "ex:a", "ex:p", o)))
	}
	require.NoError(t, h.Close(ctx))

	assert.Len(t, sink.Quads(), 2)
	assert.Equal(t, int64(2), h.(*handler).Skipped())
}

func TestProcessorForwardsNamespaces(t *testing.T) {
	sink := testutil.NewCollector()
	_, err := processor.Run(context.Background(), New(mustParse(t, "-o *"), Options{}),
		&eventSource{events: []ir.Event{
			{Namespace: &ir.NamespaceDecl{Prefix: "ex", Namespace: testutil.Ex}},
			{Quad: testutil.Q(t, "ex:a", "ex:p", `"x"`)},
		}}, sink)
	require.NoError(t, err)
	assert.Empty(t, sink.Quads())
	assert.Len(t, sink.Namespaces(), 1)
}

type eventSource struct {
	events []ir.Event
}

func (s *eventSource) Next() (ir.Event, error) {
	if len(s.events) == 0 {
		return ir.Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

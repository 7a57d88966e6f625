package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/testutil"
)

const subclassRules = `
rules: {
	rdfs9: {
		body: ["?c rdfs:subClassOf ?d", "?x rdf:type ?c"]
		head: ["?x rdf:type ?d"]
	}
	rdfs11: {
		body: ["?c rdfs:subClassOf ?d", "?d rdfs:subClassOf ?e"]
		head: ["?c rdfs:subClassOf ?e"]
	}
}`

func mustCompile(t *testing.T, src string) *RuleSet {
	t.Helper()
	rs, err := Compile("test", []byte(src))
	require.NoError(t, err)
	return rs
}

func runClosure(t *testing.T, opts Options, in ...ir.Quad) *testutil.Collector {
	t.Helper()
	if opts.Spill.Dir == "" {
		opts.Spill.Dir = t.TempDir()
	}
	c, err := New(context.Background(), opts)
	require.NoError(t, err)
	sink := testutil.NewCollector()
	_, err = processor.Run(context.Background(), c, &processor.SliceSource{Quads: in}, sink)
	require.NoError(t, err)
	return sink
}

func subclassInput(t *testing.T, ctx string) []ir.Quad {
	return []ir.Quad{
		testutil.Q(t, "ex:A", "rdfs:subClassOf", "ex:B"),
		testutil.Q(t, "ex:B", "rdfs:subClassOf", "ex:C"),
		testutil.QC(t, "ex:x", "a", "ex:A", ctx),
	}
}

func TestClosureInfersSubclasses(t *testing.T) {
	in := subclassInput(t, "")
	sink := runClosure(t, Options{Rules: mustCompile(t, subclassRules)}, in...)

	want := append(in,
		testutil.Q(t, "ex:A", "rdfs:subClassOf", "ex:C"),
		testutil.Q(t, "ex:x", "a", "ex:B"),
		testutil.Q(t, "ex:x", "a", "ex:C"),
	)
	assert.Equal(t, testutil.Keys(want), sink.Keys())

	// Input passes through first, in arrival order.
	assert.Equal(t, in, sink.Quads()[:3])
}

func TestClosureGraphModes(t *testing.T) {
	rs := mustCompile(t, subclassRules)
	in := subclassInput(t, "ex:g1")
	inf := testutil.IRI("inferred")

	tests := []struct {
		name   string
		mode   GraphMode
		global ir.Value
		want   []ir.Quad
	}{
		{
			name: "none",
			mode: GraphNone,
			want: []ir.Quad{
				testutil.Q(t, "ex:A", "rdfs:subClassOf", "ex:C"),
				testutil.Q(t, "ex:x", "a", "ex:B"),
				testutil.Q(t, "ex:x", "a", "ex:C"),
			},
		},
		{
			name:   "global",
			mode:   GraphGlobal,
			global: inf,
			want: []ir.Quad{
				testutil.QC(t, "ex:A", "rdfs:subClassOf", "ex:C", "ex:inferred"),
				testutil.QC(t, "ex:x", "a", "ex:B", "ex:inferred"),
				testutil.QC(t, "ex:x", "a", "ex:C", "ex:inferred"),
			},
		},
		{
			name: "star",
			mode: GraphStar,
			want: []ir.Quad{
				testutil.Q(t, "ex:A", "rdfs:subClassOf", "ex:C"),
				testutil.QC(t, "ex:x", "a", "ex:B", "ex:g1"),
				testutil.QC(t, "ex:x", "a", "ex:C", "ex:g1"),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := runClosure(t, Options{Rules: rs, GraphMode: tt.mode, GlobalGraph: tt.global}, in...)
			assert.Equal(t, testutil.Keys(append(append([]ir.Quad{}, in...), tt.want...)), sink.Keys())
		})
	}
}

func TestClosureStarFallsBackToGlobalOnMixedContexts(t *testing.T) {
	rs := mustCompile(t, subclassRules)
	in := []ir.Quad{
		testutil.QC(t, "ex:A", "rdfs:subClassOf", "ex:B", "ex:g1"),
		testutil.QC(t, "ex:x", "a", "ex:A", "ex:g2"),
	}
	sink := runClosure(t, Options{Rules: rs, GraphMode: GraphStar, GlobalGraph: testutil.IRI("global")}, in...)

	assert.Contains(t, sink.Keys(), testutil.QC(t, "ex:x", "a", "ex:B", "ex:global").String())
}

func TestClosureSeparateGraphPerPartition(t *testing.T) {
	rs := mustCompile(t, subclassRules)
	sink := runClosure(t, Options{Rules: rs, GraphMode: GraphSeparate}, subclassInput(t, "")...)

	graph := ir.MintPartitionGraph("all")
	for _, q := range sink.Quads()[3:] {
		assert.Equal(t, ir.Value(graph), q.C)
	}
	assert.Len(t, sink.Quads(), 6)
}

func TestClosurePartitioningsAgree(t *testing.T) {
	src := subclassRules[:len(subclassRules)-2] + `
	inverse: {
		body: ["?x ex:parent ?y"]
		head: ["?y ex:child ?x"]
	}
}
prefixes: ex: "http://example.org/"`
	rs := mustCompile(t, src)
	in := append(subclassInput(t, ""),
		testutil.Q(t, "ex:x", "ex:parent", "ex:y"),
		testutil.QC(t, "ex:y", "a", "ex:B", "ex:g"),
		testutil.QC(t, "ex:z", "ex:parent", "ex:x", "ex:g"),
	)

	reference := runClosure(t, Options{Rules: rs}, in...).Keys()
	for _, p := range []Partitioning{PartitionEntity, PartitionRules} {
		t.Run(p.String(), func(t *testing.T) {
			got := runClosure(t, Options{Rules: rs, Partitioning: p, Workers: 4}, in...).Keys()
			assert.Equal(t, reference, got)
		})
	}
	assert.Len(t, Components(rs), 2)
}

func TestClosureGraphPartitioning(t *testing.T) {
	rs := mustCompile(t, subclassRules)
	in := []ir.Quad{
		testutil.Q(t, "ex:A", "rdfs:subClassOf", "ex:B"),
		testutil.QC(t, "ex:x", "a", "ex:A", "ex:g1"),
		testutil.QC(t, "ex:y", "a", "ex:A", "ex:g2"),
	}
	sink := runClosure(t, Options{Rules: rs, Partitioning: PartitionGraph, GraphMode: GraphStar, Workers: 2}, in...)

	keys := sink.Keys()
	assert.Contains(t, keys, testutil.QC(t, "ex:x", "a", "ex:B", "ex:g1").String())
	assert.Contains(t, keys, testutil.QC(t, "ex:y", "a", "ex:B", "ex:g2").String())
	assert.Len(t, keys, 5)
}

func TestClosureIsIdempotent(t *testing.T) {
	rs, err := RDFS(true)
	require.NoError(t, err)
	in := []ir.Quad{
		testutil.Q(t, "ex:Person", "a", "owl:Class"),
		testutil.Q(t, "ex:Student", "rdfs:subClassOf", "ex:Person"),
		testutil.Q(t, "ex:name", "rdfs:domain", "ex:Person"),
		testutil.QC(t, "ex:ann", "a", "ex:Student", "ex:g"),
		testutil.QC(t, "ex:ann", "ex:name", `"Ann"`, "ex:g"),
	}
	tests := []struct {
		name string
		opts Options
	}{
		{"star", Options{Rules: rs, GraphMode: GraphStar}},
		{"entity global", Options{Rules: rs, Partitioning: PartitionEntity, GraphMode: GraphGlobal, GlobalGraph: testutil.IRI("inferred"), Workers: 3}},
		{"graph separate", Options{Rules: rs, Partitioning: PartitionGraph, GraphMode: GraphSeparate, Workers: 2}},
		{"none separate", Options{Rules: rs, GraphMode: GraphSeparate}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			once := runClosure(t, tt.opts, in...).Quads()
			twice := runClosure(t, tt.opts, once...).Quads()

			assert.ElementsMatch(t, testutil.Keys(once), testutil.Keys(twice))
			assert.Greater(t, len(once), len(in))
		})
	}
}

func TestSeparateGraphKeepsPartitionGraphs(t *testing.T) {
	minted := ir.MintPartitionGraph("graph/<http://example.org/g>")

	policy := newContextPolicy(GraphSeparate, nil, "graph/<"+string(minted)+">", minted)
	assert.Equal(t, ir.Value(minted), policy.context(nil))

	policy = newContextPolicy(GraphSeparate, nil, "graph/<http://example.org/g>", testutil.IRI("g"))
	assert.Equal(t, ir.Value(minted), policy.context(nil))
}

func TestClosureDropsBNodeTypes(t *testing.T) {
	rs := mustCompile(t, `
prefixes: ex: "http://example.org/"
rules: r: {body: ["?x ex:kind ?k"], head: ["?x rdf:type ?k"]}`)
	in := []ir.Quad{
		testutil.Q(t, "ex:x", "ex:kind", "_:anon"),
		testutil.Q(t, "ex:y", "a", "_:b"),
		testutil.Q(t, "ex:z", "ex:kind", "ex:K"),
	}

	kept := runClosure(t, Options{Rules: rs}, in...)
	assert.Len(t, kept.Quads(), 5)

	dropped := runClosure(t, Options{Rules: rs, DropBNodeTypes: true}, in...)
	assert.Equal(t, testutil.Keys([]ir.Quad{
		in[0], in[2],
		testutil.Q(t, "ex:z", "a", "ex:K"),
	}), dropped.Keys())
}

func TestClosureBackground(t *testing.T) {
	rs := mustCompile(t, subclassRules)
	bg := []ir.Quad{
		testutil.Q(t, "ex:A", "rdfs:subClassOf", "ex:B"),
		testutil.Q(t, "ex:B", "rdfs:subClassOf", "ex:C"),
	}
	in := []ir.Quad{testutil.Q(t, "ex:x", "a", "ex:A")}

	hidden := runClosure(t, Options{Rules: rs, Background: bg}, in...)
	assert.Equal(t, testutil.Keys([]ir.Quad{
		in[0],
		testutil.Q(t, "ex:x", "a", "ex:B"),
		testutil.Q(t, "ex:x", "a", "ex:C"),
	}), hidden.Keys())

	emitted := runClosure(t, Options{
		Rules:           rs,
		Background:      bg,
		EmitBackground:  true,
		BackgroundGraph: testutil.IRI("tbox"),
	}, in...)
	keys := emitted.Keys()
	assert.Len(t, keys, 6)
	assert.Contains(t, keys, testutil.QC(t, "ex:A", "rdfs:subClassOf", "ex:C", "ex:tbox").String())
}

func TestClosureDeduplicatesInput(t *testing.T) {
	rs := mustCompile(t, subclassRules)
	q := testutil.Q(t, "ex:x", "a", "ex:A")

	plain := runClosure(t, Options{Rules: rs}, q, q)
	assert.Len(t, plain.Quads(), 2)

	dedup := runClosure(t, Options{Rules: rs, Deduplicate: true}, q, q)
	assert.Len(t, dedup.Quads(), 1)
}

func TestClosureAxiomaticRules(t *testing.T) {
	rs := mustCompile(t, `rules: axiom: {head: ["rdf:type rdf:type rdf:Property"]}`)
	sink := runClosure(t, Options{Rules: rs})
	assert.Equal(t, []string{testutil.Q(t, "rdf:type", "a", "rdf:Property").String()}, sink.Keys())
}

func TestClosureSkipsGeneralizedTriples(t *testing.T) {
	rs := mustCompile(t, `
prefixes: ex: "http://example.org/"
rules: flip: {body: ["?x ex:p ?y"], head: ["?y ex:q ?x"]}`)
	in := []ir.Quad{testutil.Q(t, "ex:x", "ex:p", `"lit"`)}

	sink := runClosure(t, Options{Rules: rs}, in...)
	assert.Equal(t, testutil.Keys(in), sink.Keys())
}

func TestApply(t *testing.T) {
	c, err := New(context.Background(), Options{Rules: mustCompile(t, subclassRules), Spill: spillDir(t)})
	require.NoError(t, err)

	out, err := c.Apply(context.Background(), subclassInput(t, ""))
	require.NoError(t, err)
	assert.Len(t, out, 6)
}

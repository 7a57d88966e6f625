package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/testutil"
)

func TestCompileRuleset(t *testing.T) {
	src := `
prefixes: ex: "http://example.org/"
rules: {
	inverse: {
		body: ["?x ex:p ?y"]
		head: ["?y ex:q ?x"]
	}
	label: {
		body: ["?x a ex:Person"]
		head: ["?x rdfs:label \"a person\"@en"]
	}
}`
	rs, err := Compile("test", []byte(src))
	require.NoError(t, err)
	require.Len(t, rs.Rules, 2)

	inv := rs.Rules[0]
	assert.Equal(t, "inverse", inv.ID)
	assert.Equal(t, Term{Var: "x"}, inv.Body[0].S)
	assert.Equal(t, Term{Const: testutil.IRI("p")}, inv.Body[0].P)
	assert.Equal(t, "?y <http://example.org/q> ?x", inv.Head[0].String())

	label := rs.Rules[1]
	assert.Equal(t, ir.NewLangLiteral("a person", "en"), label.Head[0].O.Const)
}

func TestCompileRejectsUnsafeRule(t *testing.T) {
	src := `rules: leak: {
	body: ["?x rdfs:subClassOf ?y"]
	head: ["?x rdfs:subClassOf ?z"]
}`
	_, err := Compile("test", []byte(src))
	var ue *UnsafeRuleError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "leak", ue.Rule)
	assert.Equal(t, "z", ue.Variable)
	assert.True(t, IsLoadError(err))
}

func TestCompileReportsMalformedRules(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		rule    string
		message string
	}{
		{
			name:    "short pattern",
			src:     `rules: r: {body: ["?x rdf:type"], head: ["?x rdf:type ?x"]}`,
			rule:    "r",
			message: "expected 3 terms",
		},
		{
			name:    "literal predicate",
			src:     `rules: r: {body: ["?x \"p\" ?y"], head: ["?x rdf:type ?y"]}`,
			rule:    "r",
			message: "predicate must be an IRI",
		},
		{
			name:    "missing head",
			src:     `rules: r: {body: ["?x ?p ?y"]}`,
			rule:    "r",
			message: "head is required",
		},
		{
			name:    "unknown prefix",
			src:     `rules: r: {body: ["?x nope:p ?y"], head: ["?x rdf:type ?y"]}`,
			rule:    "r",
			message: "nope",
		},
		{
			name:    "no rules",
			src:     `prefixes: {}`,
			message: "rules is required",
		},
		{
			name:    "invalid cue",
			src:     `rules: {`,
			message: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile("test", []byte(tt.src))
			var pe *RuleParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.rule, pe.Rule)
			assert.Contains(t, pe.Message, tt.message)
		})
	}
}

func TestPatternPositionsInErrors(t *testing.T) {
	src := "rules: r: {\n\tbody: [\"?x\"]\n\thead: [\"?x a ?x\"]\n}"
	_, err := Compile("pos", []byte(src))
	var pe *RuleParseError
	require.ErrorAs(t, err, &pe)
	require.True(t, pe.Pos.IsValid())
	assert.Equal(t, 2, pe.Pos.Line())
	assert.Contains(t, err.Error(), "pos.cue:2:")
}

func TestBuiltinRulesets(t *testing.T) {
	assert.Equal(t, []string{"owl", "owl2rdfs", "rdfs"}, Builtins())

	for _, name := range Builtins() {
		rs, err := Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, rs.Rules, name)
	}
}

func TestRDFSExclusions(t *testing.T) {
	rs, err := RDFS(false, "rdfs4a", "rdfs4b")
	require.NoError(t, err)
	for _, r := range rs.Rules {
		assert.NotContains(t, []string{"rdfs4a", "rdfs4b"}, r.ID)
	}
	assert.Len(t, rs.Rules, 12)

	withOWL, err := RDFS(true)
	require.NoError(t, err)
	assert.Greater(t, len(withOWL.Rules), 14)

	_, err = RDFS(false, "rdfs99")
	assert.True(t, IsLoadError(err))
}

func TestLoadReadsFiles(t *testing.T) {
	_, err := Load("/does/not/exist.cue")
	require.Error(t, err)
	assert.False(t, IsLoadError(err))
}

func TestBindSubstitutesVariables(t *testing.T) {
	rs, err := Compile("test", []byte(`rules: r: {body: ["?x ?p ?y"], head: ["?x ?p ?y"]}`))
	require.NoError(t, err)

	name, v, err := ParseBinding("p=<http://example.org/knows>", ir.DefaultNamespaces())
	require.NoError(t, err)
	bound := rs.Bind(map[string]ir.Value{name: v})

	assert.Equal(t, Term{Const: testutil.IRI("knows")}, bound.Rules[0].Body[0].P)
	assert.Equal(t, Term{Const: testutil.IRI("knows")}, bound.Rules[0].Head[0].P)
	assert.Equal(t, Term{Var: "p"}, rs.Rules[0].Body[0].P, "original ruleset unchanged")
	require.NoError(t, bound.CheckSafety())

	_, _, err = ParseBinding("novalue", ir.DefaultNamespaces())
	assert.Error(t, err)
}

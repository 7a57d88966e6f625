package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMintIRIDeterministic(t *testing.T) {
	a := MintIRI("urn:graph:", DomainMergedGraph, "<g1>", "<g2>")
	b := MintIRI("urn:graph:", DomainMergedGraph, "<g1>", "<g2>")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(string(a), "urn:graph:"))
	assert.Len(t, strings.TrimPrefix(string(a), "urn:graph:"), 32)

	assert.NotEqual(t, a, MintIRI("urn:graph:", DomainMergedGraph, "<g1>", "<g3>"))
	assert.NotEqual(t, a, MintIRI("urn:graph:", DomainStatsNode, "<g1>", "<g2>"))
	// Part boundaries matter.
	assert.NotEqual(t, MintIRI("x:", DomainStatsNode, "ab", "c"), MintIRI("x:", DomainStatsNode, "a", "bc"))
}

func TestMintNormalizesUnicode(t *testing.T) {
	composed := "caf\u00e9"
	decomposed := "cafe\u0301"
	assert.Equal(t, MintIRI("x:", DomainStatsNode, composed), MintIRI("x:", DomainStatsNode, decomposed))
	assert.Equal(t, MintPartitionGraph(composed), MintPartitionGraph(decomposed))
}

func TestMintPartitionGraph(t *testing.T) {
	iri := MintPartitionGraph("graph/<http://e/g>")
	assert.True(t, strings.HasPrefix(string(iri), PartitionGraphPrefix))
	assert.Len(t, strings.TrimPrefix(string(iri), PartitionGraphPrefix), 36)
	assert.Equal(t, iri, MintPartitionGraph("graph/<http://e/g>"))
	assert.NotEqual(t, iri, MintPartitionGraph("all"))

	assert.True(t, IsPartitionGraph(iri))
	assert.False(t, IsPartitionGraph(IRI("http://e/g")))
	assert.False(t, IsPartitionGraph(BNode(PartitionGraphPrefix)))
	assert.False(t, IsPartitionGraph(nil))
}

func TestPartitionOf(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		p := PartitionOf(IRI("http://e/a"), n)
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, n)
		assert.Equal(t, p, PartitionOf(IRI("http://e/a"), n))
	}
}

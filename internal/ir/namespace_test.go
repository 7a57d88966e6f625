package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaces(t *testing.T) {
	ns := DefaultNamespaces()

	iri, ok := ns.Expand("rdfs:label")
	assert.True(t, ok)
	assert.Equal(t, IRI("http://www.w3.org/2000/01/rdf-schema#label"), iri)

	_, ok = ns.Expand("http://example.org/x")
	assert.False(t, ok, "absolute IRIs are not prefixed names")

	_, ok = ns.Expand("nope:x")
	assert.False(t, ok)

	clone := ns.Clone()
	clone.Set("ex", "http://e/")
	_, ok = ns.Lookup("ex")
	assert.False(t, ok, "clone must not alias the original")

	prefix, ok := clone.PrefixFor("http://e/")
	assert.True(t, ok)
	assert.Equal(t, "ex", prefix)
}

func TestSplitIRI(t *testing.T) {
	tests := []struct {
		iri       IRI
		ns, local string
	}{
		{"http://e/a", "http://e/", "a"},
		{"http://e/v#x", "http://e/v#", "x"},
		{"urn:isbn:123", "urn:isbn:", "123"},
		{"plain", "", "plain"},
	}
	for _, tt := range tests {
		ns, local := SplitIRI(tt.iri)
		assert.Equal(t, tt.ns, ns, string(tt.iri))
		assert.Equal(t, tt.local, local, string(tt.iri))
	}
}

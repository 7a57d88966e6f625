package ir

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuadValidation(t *testing.T) {
	s := IRI("http://example.org/s")
	p := IRI("http://example.org/p")

	_, err := NewQuad(NewLiteral("x"), p, s, nil)
	assert.Error(t, err, "literal subject")

	_, err = NewQuad(s, "", s, nil)
	assert.Error(t, err, "empty predicate")

	_, err = NewQuad(s, p, nil, nil)
	assert.Error(t, err, "missing object")

	_, err = NewQuad(s, p, s, NewLiteral("g"))
	assert.Error(t, err, "literal context")

	q, err := NewQuad(BNode("b"), p, NewLiteral("x"), IRI("http://example.org/g"))
	require.NoError(t, err)
	assert.False(t, q.InDefaultGraph())
	assert.True(t, q.WithContext(nil).InDefaultGraph())
}

func TestQuadKeyRoundTrip(t *testing.T) {
	quads := []Quad{
		MustQuad(IRI("http://e/a"), "http://e/p", NewLangLiteral("x y", "en"), nil),
		MustQuad(BNode("n1"), "http://e/p", IRI("http://e/b"), IRI("http://e/g")),
	}
	for _, q := range quads {
		back, err := ParseKey(q.Key())
		require.NoError(t, err)
		assert.Equal(t, q, back)
	}
}

func TestKeyOrderMatchesCompare(t *testing.T) {
	quads := []Quad{
		MustQuad(IRI("http://e/a"), "http://e/p", IRI("http://e/b"), IRI("http://e/g")),
		MustQuad(IRI("http://e/a"), "http://e/p", IRI("http://e/b"), nil),
		MustQuad(IRI("http://e/ab"), "http://e/p", IRI("http://e/b"), nil),
		MustQuad(IRI("http://e/a"), "http://e/pq", IRI("http://e/b"), nil),
		MustQuad(BNode("z"), "http://e/p", NewLiteral("b"), nil),
		MustQuad(IRI("http://e/a"), "http://e/p", NewLiteral("b"), nil),
	}

	byKey := append([]Quad(nil), quads...)
	sort.Slice(byKey, func(i, j int) bool { return byKey[i].Key() < byKey[j].Key() })

	byCompare := append([]Quad(nil), quads...)
	sort.Slice(byCompare, func(i, j int) bool { return Compare(byCompare[i], byCompare[j]) < 0 })

	assert.Equal(t, byCompare, byKey)
}

func TestTripleKeyIsKeyPrefix(t *testing.T) {
	q := MustQuad(IRI("http://e/a"), "http://e/p", IRI("http://e/b"), IRI("http://e/g"))
	assert.Equal(t, q.TripleKey(), q.WithContext(nil).Key())
	assert.True(t, len(q.Key()) > len(q.TripleKey()))
	assert.Equal(t, q.TripleKey(), q.Key()[:len(q.TripleKey())])
}

func TestQuadString(t *testing.T) {
	q := MustQuad(IRI("http://e/a"), "http://e/p", NewLiteral("x"), IRI("http://e/g"))
	assert.Equal(t, `<http://e/a> <http://e/p> "x" <http://e/g> .`, q.String())
	assert.Equal(t, `<http://e/a> <http://e/p> "x" .`, q.WithContext(nil).String())
}

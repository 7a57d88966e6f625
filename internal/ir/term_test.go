package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	var _ Value = IRI("http://example.org/a")
	var _ Value = BNode("b0")
	var _ Value = NewLiteral("x")
}

func TestLiteralConstructorsNormalize(t *testing.T) {
	assert.Equal(t, NewLiteral("x"), NewTypedLiteral("x", ""))
	assert.Equal(t, NewLiteral("x"), NewLangLiteral("x", ""))
	assert.Equal(t, NewLangLiteral("x", "en"), NewLangLiteral("x", "EN"))
	assert.NotEqual(t, NewLiteral("x"), NewLangLiteral("x", "en"))
}

func TestFormatTerm(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"iri", IRI("http://example.org/a"), "<http://example.org/a>"},
		{"iri with space", IRI("http://example.org/a b"), `<http://example.org/a\u0020b>`},
		{"bnode", BNode("b1"), "_:b1"},
		{"plain literal", NewLiteral("Ann"), `"Ann"`},
		{"lang literal", NewLangLiteral("Ann", "en"), `"Ann"@en`},
		{"typed literal", NewTypedLiteral("1", "http://www.w3.org/2001/XMLSchema#integer"), `"1"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{"escapes", NewLiteral("a\"b\\c\nd\x00"), `"a\"b\\c\nd\u0000"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTerm(tt.v)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "\x00")

			back, err := ParseTerm(got)
			require.NoError(t, err)
			assert.Equal(t, tt.v, back)
		})
	}
}

func TestParseTermNS(t *testing.T) {
	ns := DefaultNamespaces()
	ns.Set("ex", "http://example.org/")

	tests := []struct {
		in   string
		want Value
	}{
		{"ex:a", IRI("http://example.org/a")},
		{"a", IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")},
		{"42", NewTypedLiteral("42", "http://www.w3.org/2001/XMLSchema#integer")},
		{"-4.5", NewTypedLiteral("-4.5", "http://www.w3.org/2001/XMLSchema#decimal")},
		{"1e3", NewTypedLiteral("1e3", "http://www.w3.org/2001/XMLSchema#double")},
		{"true", NewTypedLiteral("true", "http://www.w3.org/2001/XMLSchema#boolean")},
		{`"5"^^xsd:int`, NewTypedLiteral("5", "http://www.w3.org/2001/XMLSchema#int")},
		{`'single'`, NewLiteral("single")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTermNS(tt.in, ns)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTermErrors(t *testing.T) {
	for _, in := range []string{"", "<unterminated", `"open`, `"x"junk`, "_:", "ex:a", `"x"^^_:b`, `"x"@`} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTerm(in)
			require.Error(t, err)
			var te *TermError
			assert.ErrorAs(t, err, &te)
		})
	}
}

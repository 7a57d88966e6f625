package ir

import "strings"

// Datatypes the model itself needs to normalize literals. The full
// vocabulary lives in internal/vocab.
const (
	xsdString     IRI = "http://www.w3.org/2001/XMLSchema#string"
	rdfLangString IRI = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Kind discriminates the three RDF term kinds.
type Kind int

const (
	KindIRI Kind = iota + 1
	KindBNode
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBNode:
		return "bnode"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Value is a sealed interface representing an RDF term.
// Only IRI, BNode and Literal implement it.
type Value interface {
	rdfValue() // Sealed
	Kind() Kind
}

// IRI is an absolute IRI reference.
type IRI string

func (IRI) rdfValue() {}

// Kind implements Value.
func (IRI) Kind() Kind { return KindIRI }

// String returns the raw IRI text.
func (i IRI) String() string { return string(i) }

// BNode is a blank node identified by a label scoped to one run.
type BNode string

func (BNode) rdfValue() {}

// Kind implements Value.
func (BNode) Kind() Kind { return KindBNode }

// String returns the label without the "_:" prefix.
func (b BNode) String() string { return string(b) }

// Literal is an RDF literal. Datatype is always set: plain literals carry
// xsd:string and language-tagged literals carry rdf:langString. Use the
// constructors to keep equality structural.
type Literal struct {
	Lexical  string
	Datatype IRI
	Lang     string
}

func (Literal) rdfValue() {}

// Kind implements Value.
func (Literal) Kind() Kind { return KindLiteral }

// NewLiteral creates an xsd:string literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical, Datatype: xsdString}
}

// NewLangLiteral creates a language-tagged literal. The tag is lowercased.
func NewLangLiteral(lexical, lang string) Literal {
	if lang == "" {
		return NewLiteral(lexical)
	}
	return Literal{Lexical: lexical, Datatype: rdfLangString, Lang: strings.ToLower(lang)}
}

// NewTypedLiteral creates a literal with an explicit datatype.
// An empty datatype means xsd:string.
func NewTypedLiteral(lexical string, datatype IRI) Literal {
	if datatype == "" {
		datatype = xsdString
	}
	return Literal{Lexical: lexical, Datatype: datatype}
}

// IsResource reports whether v may appear in subject or context position.
func IsResource(v Value) bool {
	switch v.(type) {
	case IRI, BNode:
		return true
	default:
		return false
	}
}

// IsIRI reports whether v is an IRI.
func IsIRI(v Value) bool {
	_, ok := v.(IRI)
	return ok
}

// IsBNode reports whether v is a blank node.
func IsBNode(v Value) bool {
	_, ok := v.(BNode)
	return ok
}

// CompareValues orders two values by their canonical text form.
// nil (the default graph) sorts before every term.
func CompareValues(a, b Value) int {
	return strings.Compare(formatOrEmpty(a), formatOrEmpty(b))
}

func formatOrEmpty(v Value) string {
	if v == nil {
		return ""
	}
	return FormatTerm(v)
}

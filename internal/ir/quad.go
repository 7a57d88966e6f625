package ir

import (
	"fmt"
	"slices"
	"strings"
)

// keySep separates components in Quad.Key. It sorts below every byte
// FormatTerm can produce.
const keySep = "\x00"

// Quad is an RDF statement plus its named-graph context.
//
// Invariants (enforced by NewQuad):
//   - S is an IRI or a BNode
//   - P is a non-empty IRI
//   - O is any Value
//   - C is nil (default graph), an IRI or a BNode
type Quad struct {
	S Value
	P IRI
	O Value
	C Value
}

// NewQuad validates and creates a quad. c may be nil for the default graph.
func NewQuad(s Value, p IRI, o Value, c Value) (Quad, error) {
	if !IsResource(s) {
		return Quad{}, fmt.Errorf("subject must be an IRI or blank node, got %v", kindOf(s))
	}
	if p == "" {
		return Quad{}, fmt.Errorf("predicate must be a non-empty IRI")
	}
	if o == nil {
		return Quad{}, fmt.Errorf("object is required")
	}
	if c != nil && !IsResource(c) {
		return Quad{}, fmt.Errorf("context must be an IRI or blank node, got %v", kindOf(c))
	}
	return Quad{S: s, P: p, O: o, C: c}, nil
}

// MustQuad is like NewQuad but panics on invalid input.
// Intended for tests and static vocabulary.
func MustQuad(s Value, p IRI, o Value, c Value) Quad {
	q, err := NewQuad(s, p, o, c)
	if err != nil {
		panic(err)
	}
	return q
}

func kindOf(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Kind().String()
}

// InDefaultGraph reports whether the quad has no named context.
func (q Quad) InDefaultGraph() bool { return q.C == nil }

// WithContext returns a copy of q placed in context c.
func (q Quad) WithContext(c Value) Quad {
	q.C = c
	return q
}

// Key returns the canonical sort key of q: the N-Triples forms of subject,
// predicate, object and context separated by NUL, with an empty context for
// the default graph. Byte order of keys equals Compare order.
func (q Quad) Key() string {
	var b strings.Builder
	b.WriteString(FormatTerm(q.S))
	b.WriteString(keySep)
	b.WriteString(FormatTerm(q.P))
	b.WriteString(keySep)
	b.WriteString(FormatTerm(q.O))
	b.WriteString(keySep)
	if q.C != nil {
		b.WriteString(FormatTerm(q.C))
	}
	return b.String()
}

// TripleKey returns the key prefix covering subject, predicate and object
// only. Every Key of a quad with the same triple starts with it.
func (q Quad) TripleKey() string {
	return FormatTerm(q.S) + keySep + FormatTerm(q.P) + keySep + FormatTerm(q.O) + keySep
}

// ParseKey decodes a key produced by Quad.Key.
func ParseKey(key string) (Quad, error) {
	parts := strings.Split(key, keySep)
	if len(parts) != 4 {
		return Quad{}, fmt.Errorf("malformed quad key: %d components", len(parts))
	}
	terms := make([]Value, 4)
	for i, part := range parts {
		if part == "" {
			continue
		}
		v, err := ParseTerm(part)
		if err != nil {
			return Quad{}, fmt.Errorf("malformed quad key: %w", err)
		}
		terms[i] = v
	}
	p, ok := terms[1].(IRI)
	if !ok {
		return Quad{}, fmt.Errorf("malformed quad key: predicate is not an IRI")
	}
	return NewQuad(terms[0], p, terms[2], terms[3])
}

// Compare orders quads by subject, predicate, object, context.
func Compare(a, b Quad) int {
	if c := CompareValues(a.S, b.S); c != 0 {
		return c
	}
	if c := strings.Compare(FormatTerm(a.P), FormatTerm(b.P)); c != 0 {
		return c
	}
	if c := CompareValues(a.O, b.O); c != 0 {
		return c
	}
	return CompareValues(a.C, b.C)
}

// SortQuads sorts qs in Compare order.
func SortQuads(qs []Quad) {
	slices.SortFunc(qs, Compare)
}

// String renders q as an N-Quads line without the trailing newline.
func (q Quad) String() string {
	var b strings.Builder
	b.WriteString(FormatTerm(q.S))
	b.WriteByte(' ')
	b.WriteString(FormatTerm(q.P))
	b.WriteByte(' ')
	b.WriteString(FormatTerm(q.O))
	if q.C != nil {
		b.WriteByte(' ')
		b.WriteString(FormatTerm(q.C))
	}
	b.WriteString(" .")
	return b.String()
}

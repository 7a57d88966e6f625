package testutil

import (
	"testing"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Ex is the namespace used by test fixtures.
const Ex = "http://example.org/"

// IRI returns Ex+local as an IRI.
func IRI(local string) ir.IRI { return ir.IRI(Ex + local) }

// Q builds a default-graph quad from N-Triples or prefixed terms. The "ex:"
// prefix maps to Ex.
func Q(t testing.TB, s, p, o string) ir.Quad {
	t.Helper()
	return QC(t, s, p, o, "")
}

// QC builds a quad in context c; an empty c means the default graph.
func QC(t testing.TB, s, p, o, c string) ir.Quad {
	t.Helper()
	ns := Namespaces()
	terms := make([]ir.Value, 4)
	for i, text := range []string{s, p, o, c} {
		if text == "" {
			continue
		}
		v, err := ir.ParseTermNS(text, ns)
		if err != nil {
			t.Fatalf("parse term %q: %v", text, err)
		}
		terms[i] = v
	}
	pred, ok := terms[1].(ir.IRI)
	if !ok {
		t.Fatalf("predicate %q is not an IRI", p)
	}
	q, err := ir.NewQuad(terms[0], pred, terms[2], terms[3])
	if err != nil {
		t.Fatalf("build quad: %v", err)
	}
	return q
}

// Namespaces returns the default namespaces plus ex:.
func Namespaces() *ir.Namespaces {
	ns := ir.DefaultNamespaces()
	ns.Set("ex", Ex)
	return ns
}

// Keys returns the sorted N-Quads lines of qs, for order-insensitive
// comparison of multisets.
func Keys(qs []ir.Quad) []string {
	out := make([]string, len(qs))
	sorted := append([]ir.Quad(nil), qs...)
	ir.SortQuads(sorted)
	for i, q := range sorted {
		out[i] = q.String()
	}
	return out
}

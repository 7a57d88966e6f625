package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/rdfpipe/internal/ir"
)

func TestIsTBox(t *testing.T) {
	a := ir.IRI("http://e/A")
	b := ir.IRI("http://e/B")
	x := ir.IRI("http://e/x")

	tests := []struct {
		name string
		q    ir.Quad
		want bool
	}{
		{"subclass axiom", ir.MustQuad(a, RDFSSubClassOf, b, nil), true},
		{"class declaration", ir.MustQuad(a, RDFType, OWLClass, nil), true},
		{"instance typing", ir.MustQuad(x, RDFType, a, nil), false},
		{"label", ir.MustQuad(a, RDFSLabel, ir.NewLiteral("A"), nil), false},
		{"bnode type object", ir.MustQuad(x, RDFType, ir.BNode("c"), nil), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTBox(tt.q))
		})
	}
}

package vocab

import "github.com/roach88/rdfpipe/internal/ir"

// schemaProperties are predicates whose statements are TBox axioms.
var schemaProperties = map[ir.IRI]bool{
	RDFSSubClassOf:        true,
	RDFSSubPropertyOf:     true,
	RDFSDomain:            true,
	RDFSRange:             true,
	OWLEquivalentClass:    true,
	OWLEquivalentProperty: true,
	OWLInverseOf:          true,
	OWLDisjointWith:       true,
	OWLOnProperty:         true,
	OWLSomeValuesFrom:     true,
	OWLAllValuesFrom:      true,
	OWLHasValue:           true,
	OWLUnionOf:            true,
	OWLIntersectionOf:     true,
	OWLImports:            true,
}

// schemaClasses are the classes whose instances are vocabulary terms.
var schemaClasses = map[ir.IRI]bool{
	RDFSClass:                true,
	RDFSDatatype:             true,
	RDFProperty:              true,
	OWLClass:                 true,
	OWLRestriction:           true,
	OWLObjectProperty:        true,
	OWLDatatypeProperty:      true,
	OWLAnnotationProperty:    true,
	OWLTransitiveProperty:    true,
	OWLSymmetricProperty:     true,
	OWLFunctionalProperty:    true,
	OWLInverseFunctionalProp: true,
	OWLOntology:              true,
}

// IsSchemaProperty reports whether p is an axiom-bearing predicate.
func IsSchemaProperty(p ir.IRI) bool { return schemaProperties[p] }

// IsSchemaClass reports whether c is a class of vocabulary terms.
func IsSchemaClass(c ir.IRI) bool { return schemaClasses[c] }

// IsTBox reports whether q is a schema-level statement: either its
// predicate is an axiom-bearing predicate, or it types its subject as a
// class or property.
func IsTBox(q ir.Quad) bool {
	if schemaProperties[q.P] {
		return true
	}
	if q.P != RDFType {
		return false
	}
	c, ok := q.O.(ir.IRI)
	return ok && schemaClasses[c]
}

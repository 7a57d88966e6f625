// Package vocab holds the IRIs of the vocabularies rdfpipe processors
// interpret: RDF, RDFS, OWL, XSD, VOID, PROV and Dublin Core terms.
package vocab

import "github.com/roach88/rdfpipe/internal/ir"

// Namespace IRIs.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
	VOIDNamespace = "http://rdfs.org/ns/void#"
	PROVNamespace = "http://www.w3.org/ns/prov#"
	DCTNamespace  = "http://purl.org/dc/terms/"
)

// RDF terms.
const (
	RDFType       ir.IRI = RDFNamespace + "type"
	RDFProperty   ir.IRI = RDFNamespace + "Property"
	RDFLangString ir.IRI = RDFNamespace + "langString"
)

// RDFS terms.
const (
	RDFSResource          ir.IRI = RDFSNamespace + "Resource"
	RDFSClass             ir.IRI = RDFSNamespace + "Class"
	RDFSLiteral           ir.IRI = RDFSNamespace + "Literal"
	RDFSDatatype          ir.IRI = RDFSNamespace + "Datatype"
	RDFSSubClassOf        ir.IRI = RDFSNamespace + "subClassOf"
	RDFSSubPropertyOf     ir.IRI = RDFSNamespace + "subPropertyOf"
	RDFSDomain            ir.IRI = RDFSNamespace + "domain"
	RDFSRange             ir.IRI = RDFSNamespace + "range"
	RDFSLabel             ir.IRI = RDFSNamespace + "label"
	RDFSComment           ir.IRI = RDFSNamespace + "comment"
	RDFSMember            ir.IRI = RDFSNamespace + "member"
	RDFSContainerMembProp ir.IRI = RDFSNamespace + "ContainerMembershipProperty"
)

// OWL terms.
const (
	OWLSameAs                ir.IRI = OWLNamespace + "sameAs"
	OWLClass                 ir.IRI = OWLNamespace + "Class"
	OWLThing                 ir.IRI = OWLNamespace + "Thing"
	OWLRestriction           ir.IRI = OWLNamespace + "Restriction"
	OWLObjectProperty        ir.IRI = OWLNamespace + "ObjectProperty"
	OWLDatatypeProperty      ir.IRI = OWLNamespace + "DatatypeProperty"
	OWLAnnotationProperty    ir.IRI = OWLNamespace + "AnnotationProperty"
	OWLTransitiveProperty    ir.IRI = OWLNamespace + "TransitiveProperty"
	OWLSymmetricProperty     ir.IRI = OWLNamespace + "SymmetricProperty"
	OWLFunctionalProperty    ir.IRI = OWLNamespace + "FunctionalProperty"
	OWLInverseFunctionalProp ir.IRI = OWLNamespace + "InverseFunctionalProperty"
	OWLEquivalentClass       ir.IRI = OWLNamespace + "equivalentClass"
	OWLEquivalentProperty    ir.IRI = OWLNamespace + "equivalentProperty"
	OWLInverseOf             ir.IRI = OWLNamespace + "inverseOf"
	OWLDisjointWith          ir.IRI = OWLNamespace + "disjointWith"
	OWLOnProperty            ir.IRI = OWLNamespace + "onProperty"
	OWLSomeValuesFrom        ir.IRI = OWLNamespace + "someValuesFrom"
	OWLAllValuesFrom         ir.IRI = OWLNamespace + "allValuesFrom"
	OWLHasValue              ir.IRI = OWLNamespace + "hasValue"
	OWLUnionOf               ir.IRI = OWLNamespace + "unionOf"
	OWLIntersectionOf        ir.IRI = OWLNamespace + "intersectionOf"
	OWLOntology              ir.IRI = OWLNamespace + "Ontology"
	OWLImports               ir.IRI = OWLNamespace + "imports"
)

// XSD datatypes.
const (
	XSDString   ir.IRI = XSDNamespace + "string"
	XSDBoolean  ir.IRI = XSDNamespace + "boolean"
	XSDInteger  ir.IRI = XSDNamespace + "integer"
	XSDInt      ir.IRI = XSDNamespace + "int"
	XSDLong     ir.IRI = XSDNamespace + "long"
	XSDDecimal  ir.IRI = XSDNamespace + "decimal"
	XSDDouble   ir.IRI = XSDNamespace + "double"
	XSDFloat    ir.IRI = XSDNamespace + "float"
	XSDDate     ir.IRI = XSDNamespace + "date"
	XSDDateTime ir.IRI = XSDNamespace + "dateTime"
	XSDAnyURI   ir.IRI = XSDNamespace + "anyURI"
)

// VOID terms.
const (
	VOIDDataset           ir.IRI = VOIDNamespace + "Dataset"
	VOIDTriples           ir.IRI = VOIDNamespace + "triples"
	VOIDEntities          ir.IRI = VOIDNamespace + "entities"
	VOIDClasses           ir.IRI = VOIDNamespace + "classes"
	VOIDProperties        ir.IRI = VOIDNamespace + "properties"
	VOIDDistinctSubjects  ir.IRI = VOIDNamespace + "distinctSubjects"
	VOIDDistinctObjects   ir.IRI = VOIDNamespace + "distinctObjects"
	VOIDSubset            ir.IRI = VOIDNamespace + "subset"
	VOIDClass             ir.IRI = VOIDNamespace + "class"
	VOIDProperty          ir.IRI = VOIDNamespace + "property"
	VOIDClassPartition    ir.IRI = VOIDNamespace + "classPartition"
	VOIDPropertyPartition ir.IRI = VOIDNamespace + "propertyPartition"
)

// PROV and Dublin Core terms.
const (
	PROVWasDerivedFrom ir.IRI = PROVNamespace + "wasDerivedFrom"
	DCTSource          ir.IRI = DCTNamespace + "source"
)

package ir

import (
	"sort"
	"strings"
)

// Namespaces maps prefixes to namespace IRIs and back.
// A Namespaces value is read-only once handed to a running pipeline; use
// Clone before modifying a shared table.
type Namespaces struct {
	byPrefix    map[string]string
	byNamespace map[string]string
}

// NewNamespaces creates an empty table.
func NewNamespaces() *Namespaces {
	return &Namespaces{
		byPrefix:    make(map[string]string),
		byNamespace: make(map[string]string),
	}
}

// DefaultNamespaces returns a fresh table with the well-known vocabularies.
func DefaultNamespaces() *Namespaces {
	ns := NewNamespaces()
	for prefix, iri := range map[string]string{
		"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
		"owl":  "http://www.w3.org/2002/07/owl#",
		"xsd":  "http://www.w3.org/2001/XMLSchema#",
		"void": "http://rdfs.org/ns/void#",
		"prov": "http://www.w3.org/ns/prov#",
		"dct":  "http://purl.org/dc/terms/",
		"foaf": "http://xmlns.com/foaf/0.1/",
		"skos": "http://www.w3.org/2004/02/skos/core#",
	} {
		ns.Set(prefix, iri)
	}
	return ns
}

// Set binds prefix to namespace, replacing any previous binding of prefix.
// When several prefixes share a namespace the lexicographically smallest
// one is returned by PrefixFor.
func (n *Namespaces) Set(prefix, namespace string) {
	if old, ok := n.byPrefix[prefix]; ok && n.byNamespace[old] == prefix {
		delete(n.byNamespace, old)
	}
	n.byPrefix[prefix] = namespace
	if cur, ok := n.byNamespace[namespace]; !ok || prefix < cur {
		n.byNamespace[namespace] = prefix
	}
}

// Lookup returns the namespace bound to prefix.
func (n *Namespaces) Lookup(prefix string) (string, bool) {
	iri, ok := n.byPrefix[prefix]
	return iri, ok
}

// PrefixFor returns the prefix bound to namespace.
func (n *Namespaces) PrefixFor(namespace string) (string, bool) {
	prefix, ok := n.byNamespace[namespace]
	return prefix, ok
}

// Expand resolves a prefixed name such as rdf:type.
func (n *Namespaces) Expand(qname string) (IRI, bool) {
	prefix, local, ok := strings.Cut(qname, ":")
	if !ok || strings.HasPrefix(local, "//") {
		return "", false
	}
	iri, found := n.byPrefix[prefix]
	if !found {
		return "", false
	}
	return IRI(iri + local), true
}

// Prefixes returns the bound prefixes in sorted order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, 0, len(n.byPrefix))
	for p := range n.byPrefix {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (n *Namespaces) Clone() *Namespaces {
	c := NewNamespaces()
	for p, iri := range n.byPrefix {
		c.byPrefix[p] = iri
	}
	for iri, p := range n.byNamespace {
		c.byNamespace[iri] = p
	}
	return c
}

// SplitIRI splits iri after its last '#', '/' or ':' into namespace and
// local name. The namespace is empty when no separator exists.
func SplitIRI(iri IRI) (namespace, local string) {
	s := string(iri)
	i := strings.LastIndexAny(s, "#/:")
	if i < 0 {
		return "", s
	}
	return s[:i+1], s[i+1:]
}

package transform

import (
	"fmt"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// matcher tests a term against a set of values and wildcards:
//
//	<*>           any IRI
//	_:*           any blank node
//	*             any plain literal
//	*@*           any language-tagged literal
//	*@lang        literals tagged lang
//	*^^*          any typed literal
//	*^^<dt>       literals of datatype dt (also *^^ns:dt)
//	*^^ns:*       literals whose datatype is in namespace ns
//	ns:*          IRIs in namespace ns
//	<prefix*>     IRIs starting with prefix
//
// Anything else is parsed as a term and matched exactly. The default graph
// matches nothing.
type matcher struct {
	anyIRI, anyBNode         bool
	anyPlain, anyLang, anyDT bool

	iris         map[ir.IRI]bool
	iriPrefixes  []string
	bnodes       map[ir.BNode]bool
	langs        map[string]bool
	datatypes    map[ir.IRI]bool
	dtNamespaces []string
	literals     map[ir.Literal]bool
}

func newMatcher() *matcher {
	return &matcher{
		iris:      make(map[ir.IRI]bool),
		bnodes:    make(map[ir.BNode]bool),
		langs:     make(map[string]bool),
		datatypes: make(map[ir.IRI]bool),
		literals:  make(map[ir.Literal]bool),
	}
}

func expandNamespace(prefix string, ns *ir.Namespaces) (string, error) {
	iri, ok := ns.Lookup(prefix)
	if !ok {
		return "", fmt.Errorf("unknown prefix %q", prefix)
	}
	return iri, nil
}

func (m *matcher) add(expr string, ns *ir.Namespaces) error {
	switch {
	case expr == "<*>":
		m.anyIRI = true
	case expr == "_:*":
		m.anyBNode = true
	case expr == "*":
		m.anyPlain = true
	case expr == "*@*":
		m.anyLang = true
	case expr == "*^^*":
		m.anyDT = true
	case strings.HasPrefix(expr, "*@"):
		m.langs[strings.ToLower(expr[2:])] = true
	case strings.HasPrefix(expr, "*^^") && strings.HasSuffix(expr, ":*"):
		iri, err := expandNamespace(expr[3:len(expr)-2], ns)
		if err != nil {
			return err
		}
		m.dtNamespaces = append(m.dtNamespaces, iri)
	case strings.HasPrefix(expr, "*^^"):
		v, err := ir.ParseTermNS(expr[3:], ns)
		if err != nil {
			return err
		}
		dt, ok := v.(ir.IRI)
		if !ok {
			return fmt.Errorf("datatype must be an IRI")
		}
		m.datatypes[dt] = true
	case strings.HasSuffix(expr, ":*"):
		iri, err := expandNamespace(expr[:len(expr)-2], ns)
		if err != nil {
			return err
		}
		m.iriPrefixes = append(m.iriPrefixes, iri)
	case strings.HasPrefix(expr, "<") && strings.HasSuffix(expr, "*>"):
		m.iriPrefixes = append(m.iriPrefixes, expr[1:len(expr)-2])
	default:
		v, err := ir.ParseTermNS(expr, ns)
		if err != nil {
			return err
		}
		switch t := v.(type) {
		case ir.IRI:
			m.iris[t] = true
		case ir.BNode:
			m.bnodes[t] = true
		case ir.Literal:
			m.literals[t] = true
		}
	}
	return nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func (m *matcher) match(v ir.Value) bool {
	switch t := v.(type) {
	case ir.IRI:
		return m.anyIRI || m.iris[t] || hasAnyPrefix(string(t), m.iriPrefixes)
	case ir.BNode:
		return m.anyBNode || m.bnodes[t]
	case ir.Literal:
		switch {
		case m.literals[t]:
			return true
		case t.Lang != "":
			return m.anyLang || m.langs[strings.ToLower(t.Lang)]
		case t.Datatype == "" || t.Datatype == vocab.XSDString:
			return m.anyPlain
		default:
			return m.anyDT || m.datatypes[t.Datatype] || hasAnyPrefix(string(t.Datatype), m.dtNamespaces)
		}
	}
	return false
}

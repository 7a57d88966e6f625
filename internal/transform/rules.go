// Package transform implements per-component quad filtering, replacement
// and literal casting.
//
// A rule list is a sequence of selectors, each followed by its values:
//
//	+X values   keep the quad only if component X matches a value
//	-X values   drop the quad if component X matches a value
//	=X value    replace component X
//	^X datatype cast literal component X to datatype
//
// X is any combination of s, p, o and c. Values are terms in Turtle syntax
// or wildcards (see matcher).
package transform

import (
	"fmt"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Component indexes a quad position.
type Component int

const (
	Subject Component = iota
	Predicate
	Object
	Context
)

var componentNames = [4]string{"subject", "predicate", "object", "context"}

func (c Component) String() string { return componentNames[c] }

func parseComponent(r byte) (Component, bool) {
	switch r {
	case 's', 'S':
		return Subject, true
	case 'p', 'P':
		return Predicate, true
	case 'o', 'O':
		return Object, true
	case 'c', 'C':
		return Context, true
	}
	return 0, false
}

// RuleError reports a malformed rule list.
type RuleError struct {
	Token   string
	Message string
}

func (e *RuleError) Error() string {
	if e.Token == "" {
		return "transform: " + e.Message
	}
	return fmt.Sprintf("transform: %s: %s", e.Token, e.Message)
}

// componentRule is everything configured for one component.
type componentRule struct {
	match       *matcher
	include     *bool
	replacement ir.Value
	cast        ir.IRI
}

func (r *componentRule) active() bool {
	return r.match != nil || r.replacement != nil || r.cast != ""
}

// Rules is a compiled rule list. It is immutable and safe for concurrent use.
type Rules struct {
	components [4]*componentRule
}

// isSelector reports whether tok is an action character followed only by
// component letters.
func isSelector(tok string) bool {
	if len(tok) < 2 || !strings.ContainsRune("+-=^", rune(tok[0])) {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if _, ok := parseComponent(tok[i]); !ok {
			return false
		}
	}
	return true
}

// Parse compiles a rule list. Prefixed names resolve against ns.
func Parse(tokens []string, ns *ir.Namespaces) (*Rules, error) {
	if ns == nil {
		ns = ir.DefaultNamespaces()
	}
	r := &Rules{}
	for i := range r.components {
		r.components[i] = &componentRule{}
	}

	var action byte
	var selected []Component
	for _, tok := range tokens {
		if isSelector(tok) {
			action = tok[0]
			selected = selected[:0]
			for i := 1; i < len(tok); i++ {
				c, _ := parseComponent(tok[i])
				selected = append(selected, c)
			}
			continue
		}
		if len(tok) == 1 && strings.ContainsRune("+-=^", rune(tok[0])) {
			return nil, &RuleError{Token: tok, Message: "no component specified"}
		}
		if action == 0 {
			return nil, &RuleError{Token: tok, Message: "value before any selector"}
		}
		for _, c := range selected {
			if err := r.add(c, action, tok, ns); err != nil {
				return nil, err
			}
		}
	}
	if action != 0 && len(tokens) > 0 && isSelector(tokens[len(tokens)-1]) {
		return nil, &RuleError{Token: tokens[len(tokens)-1], Message: "selector without values"}
	}
	return r, nil
}

func (r *Rules) add(c Component, action byte, tok string, ns *ir.Namespaces) error {
	cr := r.components[c]
	switch action {
	case '=':
		v, err := ir.ParseTermNS(tok, ns)
		if err != nil {
			return &RuleError{Token: tok, Message: err.Error()}
		}
		if err := checkPosition(c, v); err != nil {
			return &RuleError{Token: tok, Message: err.Error()}
		}
		cr.replacement = v
	case '^':
		if c != Object {
			return &RuleError{Token: tok, Message: "only objects can be cast"}
		}
		v, err := ir.ParseTermNS(tok, ns)
		if err != nil {
			return &RuleError{Token: tok, Message: err.Error()}
		}
		dt, ok := v.(ir.IRI)
		if !ok {
			return &RuleError{Token: tok, Message: "datatype must be an IRI"}
		}
		cr.cast = dt
	default:
		include := action == '+'
		if cr.include != nil && *cr.include != include {
			return &RuleError{Token: tok, Message: fmt.Sprintf("both include and exclude rules for %s", c)}
		}
		cr.include = &include
		if cr.match == nil {
			cr.match = newMatcher()
		}
		if err := cr.match.add(tok, ns); err != nil {
			return &RuleError{Token: tok, Message: err.Error()}
		}
	}
	return nil
}

func checkPosition(c Component, v ir.Value) error {
	switch c {
	case Predicate:
		if !ir.IsIRI(v) {
			return fmt.Errorf("predicate replacement must be an IRI")
		}
	case Subject, Context:
		if !ir.IsResource(v) {
			return fmt.Errorf("%s replacement must be an IRI or blank node", c)
		}
	}
	return nil
}

// Apply transforms q. ok is false when the quad is filtered out. A cast of
// a malformed literal returns a *CastError.
func (r *Rules) Apply(q ir.Quad) (out ir.Quad, ok bool, err error) {
	terms := [4]ir.Value{q.S, q.P, q.O, q.C}
	for i, cr := range r.components {
		if !cr.active() {
			continue
		}
		v := terms[i]
		if cr.match != nil && cr.match.match(v) != *cr.include {
			return ir.Quad{}, false, nil
		}
		if cr.replacement != nil {
			v = cr.replacement
		}
		if cr.cast != "" {
			if v, err = cast(v, cr.cast); err != nil {
				return ir.Quad{}, false, err
			}
		}
		terms[i] = v
	}
	out, err = ir.NewQuad(terms[0], terms[1].(ir.IRI), terms[2], terms[3])
	if err != nil {
		return ir.Quad{}, false, err
	}
	return out, true, nil
}

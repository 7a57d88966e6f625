package rules

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Term is a pattern position: a variable or a constant.
type Term struct {
	Var   string
	Const ir.Value
}

// IsVar reports whether t is a variable.
func (t Term) IsVar() bool { return t.Var != "" }

func (t Term) String() string {
	if t.IsVar() {
		return "?" + t.Var
	}
	return ir.FormatTerm(t.Const)
}

// Pattern is a triple pattern.
type Pattern struct {
	S, P, O Term
}

func (p Pattern) terms() [3]Term { return [3]Term{p.S, p.P, p.O} }

func (p Pattern) String() string {
	return p.S.String() + " " + p.P.String() + " " + p.O.String()
}

// Rule derives the Head patterns for every binding satisfying all Body
// patterns.
type Rule struct {
	ID   string
	Body []Pattern
	Head []Pattern
}

func (r Rule) String() string {
	body := make([]string, len(r.Body))
	for i, p := range r.Body {
		body[i] = p.String()
	}
	head := make([]string, len(r.Head))
	for i, p := range r.Head {
		head[i] = p.String()
	}
	return fmt.Sprintf("%s: %s => %s", r.ID, strings.Join(body, " . "), strings.Join(head, " . "))
}

// bodyVars returns the set of variables occurring in the body.
func (r Rule) bodyVars() map[string]bool {
	vars := make(map[string]bool)
	for _, p := range r.Body {
		for _, t := range p.terms() {
			if t.IsVar() {
				vars[t.Var] = true
			}
		}
	}
	return vars
}

// RuleSet is an ordered collection of rules.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// CheckSafety fails with an UnsafeRuleError for the first rule with a head
// variable that the body does not bind.
func (rs *RuleSet) CheckSafety() error {
	for _, r := range rs.Rules {
		vars := r.bodyVars()
		for _, p := range r.Head {
			for _, t := range p.terms() {
				if t.IsVar() && !vars[t.Var] {
					return &UnsafeRuleError{Ruleset: rs.Name, Rule: r.ID, Variable: t.Var}
				}
			}
		}
	}
	return nil
}

// Bind replaces the named variables with constants in every rule.
func (rs *RuleSet) Bind(bindings map[string]ir.Value) *RuleSet {
	if len(bindings) == 0 {
		return rs
	}
	sub := func(t Term) Term {
		if v, ok := bindings[t.Var]; ok && t.IsVar() {
			return Term{Const: v}
		}
		return t
	}
	subAll := func(ps []Pattern) []Pattern {
		out := make([]Pattern, len(ps))
		for i, p := range ps {
			out[i] = Pattern{S: sub(p.S), P: sub(p.P), O: sub(p.O)}
		}
		return out
	}
	out := &RuleSet{Name: rs.Name, Rules: make([]Rule, len(rs.Rules))}
	for i, r := range rs.Rules {
		out.Rules[i] = Rule{ID: r.ID, Body: subAll(r.Body), Head: subAll(r.Head)}
	}
	return out
}

// Without returns rs minus the rules with the given IDs.
func (rs *RuleSet) Without(ids ...string) *RuleSet {
	if len(ids) == 0 {
		return rs
	}
	out := &RuleSet{Name: rs.Name}
	for _, r := range rs.Rules {
		if !slices.Contains(ids, r.ID) {
			out.Rules = append(out.Rules, r)
		}
	}
	return out
}

// Merge concatenates rulesets. Rule IDs are qualified by their ruleset
// name when two rulesets define the same ID.
func Merge(sets ...*RuleSet) *RuleSet {
	if len(sets) == 1 {
		return sets[0]
	}
	names := make([]string, len(sets))
	seen := make(map[string]int)
	for _, rs := range sets {
		for _, r := range rs.Rules {
			seen[r.ID]++
		}
	}
	out := &RuleSet{}
	for i, rs := range sets {
		names[i] = rs.Name
		for _, r := range rs.Rules {
			if seen[r.ID] > 1 {
				r.ID = rs.Name + "." + r.ID
			}
			out.Rules = append(out.Rules, r)
		}
	}
	out.Name = strings.Join(names, "+")
	return out
}

func (rs *RuleSet) has(id string) bool {
	for _, r := range rs.Rules {
		if r.ID == id {
			return true
		}
	}
	return false
}

package rules

import (
	"context"

	"github.com/roach88/rdfpipe/internal/ir"
)

// slot is a compiled pattern position: a constant, or a variable index
// into the binding array.
type slot struct {
	v   int
	val ir.Value
}

func (s slot) isVar() bool { return s.v >= 0 }

type compiledPattern [3]slot

type compiledRule struct {
	id    string
	nvars int
	body  []compiledPattern
	head  []compiledPattern
}

func compileRules(rules []Rule) []compiledRule {
	out := make([]compiledRule, len(rules))
	for i, r := range rules {
		vars := make(map[string]int)
		conv := func(t Term) slot {
			if !t.IsVar() {
				return slot{v: -1, val: t.Const}
			}
			n, ok := vars[t.Var]
			if !ok {
				n = len(vars)
				vars[t.Var] = n
			}
			return slot{v: n}
		}
		cr := compiledRule{id: r.ID}
		for _, p := range r.Body {
			cr.body = append(cr.body, compiledPattern{conv(p.S), conv(p.P), conv(p.O)})
		}
		for _, p := range r.Head {
			cr.head = append(cr.head, compiledPattern{conv(p.S), conv(p.P), conv(p.O)})
		}
		cr.nvars = len(vars)
		out[i] = cr
	}
	return out
}

// span is a half-open range of store positions.
type span struct{ lo, hi int }

// fixpoint applies rules to s until no new quad is derived. It is
// semi-naive: each round only joins that use at least one quad derived in
// the previous round are evaluated. It returns the number of rounds.
func fixpoint(ctx context.Context, s *store, rules []compiledRule, policy contextPolicy) (int, error) {
	m := &matcher{store: s, policy: policy}
	lo, hi := 0, s.len()
	rounds := 0
	for {
		if err := ctx.Err(); err != nil {
			return rounds, err
		}
		rounds++
		m.produced = m.produced[:0]
		for i := range rules {
			r := &rules[i]
			if len(r.body) == 0 {
				if rounds == 1 {
					m.fire(r, make([]ir.Value, r.nvars), nil)
				}
				continue
			}
			for d := range r.body {
				m.evaluate(r, d, lo, hi)
			}
		}
		added := 0
		for _, q := range m.produced {
			if s.add(q) {
				added++
			}
		}
		if added == 0 {
			return rounds, nil
		}
		lo, hi = hi, s.len()
	}
}

type matcher struct {
	store    *store
	policy   contextPolicy
	produced []ir.Quad
}

// evaluate matches r with body atom d restricted to the delta [lo, hi),
// atoms before d to [0, lo) and atoms after d to [0, hi).
func (m *matcher) evaluate(r *compiledRule, d, lo, hi int) {
	if lo == hi {
		return
	}
	spans := make([]span, len(r.body))
	for j := range r.body {
		switch {
		case j < d:
			spans[j] = span{0, lo}
		case j == d:
			spans[j] = span{lo, hi}
		default:
			spans[j] = span{0, hi}
		}
		if spans[j].lo == spans[j].hi {
			return
		}
	}
	done := make([]bool, len(r.body))
	bindings := make([]ir.Value, r.nvars)
	contexts := make([]ir.Value, 0, len(r.body))
	m.join(r, spans, done, d, bindings, contexts)
}

// join matches atom next, then recurses on the remaining atom with the
// most bound positions.
func (m *matcher) join(r *compiledRule, spans []span, done []bool, next int, bindings, contexts []ir.Value) {
	atom := r.body[next]
	done[next] = true
	defer func() { done[next] = false }()

	m.candidates(atom, bindings, spans[next], func(q ir.Quad) {
		bound, ok := unify(atom, q, bindings)
		if !ok {
			return
		}
		ctxs := append(contexts, q.C)
		if following := pickNext(r.body, done, bindings); following >= 0 {
			m.join(r, spans, done, following, bindings, ctxs)
		} else {
			m.fire(r, bindings, ctxs)
		}
		for _, v := range bound {
			bindings[v] = nil
		}
	})
}

// pickNext returns the pending atom with the most bound positions, or -1.
func pickNext(body []compiledPattern, done []bool, bindings []ir.Value) int {
	best, bestScore := -1, -1
	for j, atom := range body {
		if done[j] {
			continue
		}
		score := 0
		for _, s := range atom {
			if !s.isVar() || bindings[s.v] != nil {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = j, score
		}
	}
	return best
}

func resolve(s slot, bindings []ir.Value) ir.Value {
	if s.isVar() {
		return bindings[s.v]
	}
	return s.val
}

// candidates calls fn for each quad in sp that could match atom under the
// current bindings, using the narrowest index available.
func (m *matcher) candidates(atom compiledPattern, bindings []ir.Value, sp span, fn func(ir.Quad)) {
	sv, pv, ov := resolve(atom[0], bindings), resolve(atom[1], bindings), resolve(atom[2], bindings)
	var idx []int
	switch {
	case pv == nil:
		for i := sp.lo; i < sp.hi; i++ {
			fn(m.store.quads[i])
		}
		return
	default:
		p, ok := pv.(ir.IRI)
		if !ok {
			return
		}
		switch {
		case sv != nil:
			idx = m.store.byPS[pairKey{p, sv}]
		case ov != nil:
			idx = m.store.byPO[pairKey{p, ov}]
		default:
			idx = m.store.byP[p]
		}
	}
	for _, i := range window(idx, sp.lo, sp.hi) {
		fn(m.store.quads[i])
	}
}

// unify binds atom's free variables to q's terms. It returns the variables
// it bound so the caller can undo them.
func unify(atom compiledPattern, q ir.Quad, bindings []ir.Value) ([]int, bool) {
	var bound []int
	terms := [3]ir.Value{q.S, q.P, q.O}
	for i, s := range atom {
		if !s.isVar() {
			if s.val != terms[i] {
				return undo(bound, bindings), false
			}
			continue
		}
		if cur := bindings[s.v]; cur != nil {
			if cur != terms[i] {
				return undo(bound, bindings), false
			}
			continue
		}
		bindings[s.v] = terms[i]
		bound = append(bound, s.v)
	}
	return bound, true
}

func undo(bound []int, bindings []ir.Value) []int {
	for _, v := range bound {
		bindings[v] = nil
	}
	return nil
}

// fire instantiates the heads of r. Instantiations that are not valid RDF
// (a literal subject, a non-IRI predicate) are skipped.
func (m *matcher) fire(r *compiledRule, bindings, contexts []ir.Value) {
	c := m.policy.context(contexts)
	for _, h := range r.head {
		s := resolve(h[0], bindings)
		p, ok := resolve(h[1], bindings).(ir.IRI)
		o := resolve(h[2], bindings)
		if !ok || !ir.IsResource(s) || o == nil {
			continue
		}
		q, err := ir.NewQuad(s, p, o, c)
		if err != nil {
			continue
		}
		m.produced = append(m.produced, q)
	}
}

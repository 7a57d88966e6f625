package rules

import (
	"fmt"
	"sort"
	"strings"
)

// RecursionWarning describes a group of rules that can trigger each other,
// directly or through a chain of rules.
//
// Recursion is normal in closure rulesets (subclass transitivity is
// recursive), so these are informational. They show which rules drive the
// number of fixpoint iterations.
type RecursionWarning struct {
	Path    []string `json:"path"`
	Message string   `json:"message"`
}

// dependencyGraph maps a rule index to the rules its heads can feed.
type dependencyGraph map[int][]int

// buildDependencyGraph adds an edge a -> b when some head pattern of a
// unifies with some body pattern of b.
func buildDependencyGraph(rules []Rule) dependencyGraph {
	graph := make(dependencyGraph, len(rules))
	for a := range rules {
		graph[a] = []int{}
		for b := range rules {
			if feeds(rules[a], rules[b]) {
				graph[a] = append(graph[a], b)
			}
		}
	}
	return graph
}

func feeds(a, b Rule) bool {
	for _, h := range a.Head {
		for _, p := range b.Body {
			if unifiable(h, p) {
				return true
			}
		}
	}
	return false
}

// unifiable reports whether two patterns could match a common triple,
// treating each variable independently.
func unifiable(a, b Pattern) bool {
	at, bt := a.terms(), b.terms()
	for i := range at {
		if at[i].IsVar() || bt[i].IsVar() {
			continue
		}
		if at[i].Const != bt[i].Const {
			return false
		}
	}
	return true
}

// AnalyzeRecursion reports every strongly connected component of the rule
// dependency graph that is a real cycle: more than one rule, or one rule
// feeding itself.
func AnalyzeRecursion(rs *RuleSet) []RecursionWarning {
	graph := buildDependencyGraph(rs.Rules)
	var warnings []RecursionWarning
	for _, scc := range tarjanSCC(graph, len(rs.Rules)) {
		if len(scc) == 1 && !hasSelfLoop(scc[0], graph) {
			continue
		}
		sort.Ints(scc)
		path := make([]string, 0, len(scc)+1)
		for _, i := range scc {
			path = append(path, rs.Rules[i].ID)
		}
		if len(scc) == 1 {
			path = append(path, path[0])
		}
		warnings = append(warnings, RecursionWarning{
			Path:    path,
			Message: fmt.Sprintf("recursive rules: %s", strings.Join(path, " -> ")),
		})
	}
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].Path[0] < warnings[j].Path[0] })
	return warnings
}

func hasSelfLoop(node int, graph dependencyGraph) bool {
	for _, n := range graph[node] {
		if n == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in index order so the result is deterministic.
func tarjanSCC(graph dependencyGraph, n int) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make(map[int]int)
		lowlink = make(map[int]int)
		onStack = make(map[int]bool)
		sccs    [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for v := 0; v < n; v++ {
		if _, visited := indices[v]; !visited {
			strongConnect(v)
		}
	}
	return sccs
}

// Components splits rs into groups of rules that never exchange quads: the
// connected components of the dependency graph taken as undirected. Each
// group's closure is independent of the others.
func Components(rs *RuleSet) []*RuleSet {
	graph := buildDependencyGraph(rs.Rules)
	parent := make([]int, len(rs.Rules))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	for a, succ := range graph {
		for _, b := range succ {
			ra, rb := find(a), find(b)
			if ra != rb {
				parent[max(ra, rb)] = min(ra, rb)
			}
		}
	}

	groups := make(map[int]*RuleSet)
	var order []int
	for i, r := range rs.Rules {
		root := find(i)
		g, ok := groups[root]
		if !ok {
			g = &RuleSet{Name: fmt.Sprintf("%s#%d", rs.Name, len(order))}
			groups[root] = g
			order = append(order, root)
		}
		g.Rules = append(g.Rules, r)
	}
	out := make([]*RuleSet, len(order))
	for i, root := range order {
		out[i] = groups[root]
	}
	return out
}

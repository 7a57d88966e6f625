package smush

import (
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
)

// clusters is a union-find arena over nodes. Nodes are referenced by index;
// the arena is dropped as a whole when the run ends.
type clusters struct {
	index  map[ir.Value]int32
	nodes  []ir.Value
	parent []int32
	rank   []uint8
	repr   []int32 // representative per root, filled by choose
}

func newClusters() *clusters {
	return &clusters{index: make(map[ir.Value]int32)}
}

func (c *clusters) ref(v ir.Value) int32 {
	if i, ok := c.index[v]; ok {
		return i
	}
	i := int32(len(c.nodes))
	c.index[v] = i
	c.nodes = append(c.nodes, v)
	c.parent = append(c.parent, i)
	c.rank = append(c.rank, 0)
	return i
}

func (c *clusters) find(i int32) int32 {
	for c.parent[i] != i {
		c.parent[i] = c.parent[c.parent[i]]
		i = c.parent[i]
	}
	return i
}

// union links a and b.
func (c *clusters) union(a, b ir.Value) {
	ra, rb := c.find(c.ref(a)), c.find(c.ref(b))
	if ra == rb {
		return
	}
	switch {
	case c.rank[ra] < c.rank[rb]:
		c.parent[ra] = rb
	case c.rank[ra] > c.rank[rb]:
		c.parent[rb] = ra
	default:
		c.parent[rb] = ra
		c.rank[ra]++
	}
}

// choose picks the representative of every cluster with ranker.
func (c *clusters) choose(r ranker) {
	c.repr = make([]int32, len(c.nodes))
	for i := range c.repr {
		c.repr[i] = -1
	}
	for i := range c.nodes {
		root := c.find(int32(i))
		cur := c.repr[root]
		if cur < 0 || r.less(c.nodes[i], c.nodes[cur]) {
			c.repr[root] = int32(i)
		}
	}
}

// rewrite returns the representative of v, or v itself when v is in no
// cluster.
func (c *clusters) rewrite(v ir.Value) ir.Value {
	if v == nil {
		return nil
	}
	i, ok := c.index[v]
	if !ok {
		return v
	}
	return c.nodes[c.repr[c.find(i)]]
}

// size returns the number of nodes and of clusters.
func (c *clusters) size() (nodes, clusters int) {
	for i := range c.nodes {
		if c.find(int32(i)) == int32(i) {
			clusters++
		}
	}
	return len(c.nodes), clusters
}

// ranker orders representative candidates: IRIs before blank nodes, then
// by the position of the first ranked namespace the IRI falls in, then
// lexicographically.
type ranker struct {
	namespaces []string
}

func (r ranker) rankOf(iri ir.IRI) int {
	for i, ns := range r.namespaces {
		if strings.HasPrefix(string(iri), ns) {
			return i
		}
	}
	return len(r.namespaces)
}

func (r ranker) less(a, b ir.Value) bool {
	ai, aIsIRI := a.(ir.IRI)
	bi, bIsIRI := b.(ir.IRI)
	switch {
	case aIsIRI && !bIsIRI:
		return true
	case !aIsIRI && bIsIRI:
		return false
	case !aIsIRI:
		return ir.CompareValues(a, b) < 0
	}
	if ra, rb := r.rankOf(ai), r.rankOf(bi); ra != rb {
		return ra < rb
	}
	return ai < bi
}

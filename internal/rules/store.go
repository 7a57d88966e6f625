package rules

import (
	"sort"

	"github.com/roach88/rdfpipe/internal/ir"
)

// pairKey indexes quads by predicate plus one other position.
type pairKey struct {
	p ir.IRI
	v ir.Value
}

// store is an append-only quad set indexed for pattern lookups. Index
// lists hold positions in quads and are therefore ascending.
type store struct {
	quads []ir.Quad
	seen  map[string]struct{}
	byP   map[ir.IRI][]int
	byPS  map[pairKey][]int
	byPO  map[pairKey][]int
}

func newStore(capacity int) *store {
	return &store{
		quads: make([]ir.Quad, 0, capacity),
		seen:  make(map[string]struct{}, capacity),
		byP:   make(map[ir.IRI][]int),
		byPS:  make(map[pairKey][]int),
		byPO:  make(map[pairKey][]int),
	}
}

// add inserts q and reports whether it was new.
func (s *store) add(q ir.Quad) bool {
	k := q.Key()
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	i := len(s.quads)
	s.quads = append(s.quads, q)
	s.byP[q.P] = append(s.byP[q.P], i)
	s.byPS[pairKey{q.P, q.S}] = append(s.byPS[pairKey{q.P, q.S}], i)
	s.byPO[pairKey{q.P, q.O}] = append(s.byPO[pairKey{q.P, q.O}], i)
	return true
}

func (s *store) contains(q ir.Quad) bool {
	_, ok := s.seen[q.Key()]
	return ok
}

func (s *store) len() int { return len(s.quads) }

// window restricts an ascending index list to positions in [lo, hi).
func window(idx []int, lo, hi int) []int {
	from := sort.SearchInts(idx, lo)
	to := sort.SearchInts(idx, hi)
	return idx[from:to]
}

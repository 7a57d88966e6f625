package pipeline

import (
	"fmt"
	"strconv"
	"strings"
)

// CombinatorKind enumerates the parallel merge operators.
type CombinatorKind int

const (
	SumMulti       CombinatorKind = iota + 1 // a
	UnionSet                                 // u
	UnionMulti                               // U
	IntersectSet                             // i
	IntersectMulti                           // I
	DiffSet                                  // d
	DiffMulti                                // D
	SymDiffSet                               // s
	SymDiffMulti                             // S
	AtLeast                                  // n+
	AtMost                                   // n-
)

var symbols = map[string]CombinatorKind{
	"a": SumMulti,
	"u": UnionSet,
	"U": UnionMulti,
	"i": IntersectSet,
	"I": IntersectMulti,
	"d": DiffSet,
	"D": DiffMulti,
	"s": SymDiffSet,
	"S": SymDiffMulti,
}

// Combinator is a parallel merge operator. N is the threshold of AtLeast
// and AtMost and zero otherwise.
type Combinator struct {
	Kind CombinatorKind
	N    int
}

// Sum is the default combinator.
var Sum = Combinator{Kind: SumMulti}

// ParseCombinator decodes a combinator symbol such as "u", "S" or "2+".
func ParseCombinator(symbol string) (Combinator, error) {
	if symbol == "" {
		return Sum, nil
	}
	if kind, ok := symbols[symbol]; ok {
		return Combinator{Kind: kind}, nil
	}
	if len(symbol) >= 2 {
		digits, sign := symbol[:len(symbol)-1], symbol[len(symbol)-1]
		n, err := strconv.Atoi(digits)
		if err == nil && n >= 0 && !strings.HasPrefix(digits, "+") && !strings.HasPrefix(digits, "-") {
			switch sign {
			case '+':
				return Combinator{Kind: AtLeast, N: n}, nil
			case '-':
				return Combinator{Kind: AtMost, N: n}, nil
			}
		}
	}
	return Combinator{}, &UnknownCombinatorError{Symbol: symbol}
}

// String returns the symbol of c.
func (c Combinator) String() string {
	switch c.Kind {
	case AtLeast:
		return fmt.Sprintf("%d+", c.N)
	case AtMost:
		return fmt.Sprintf("%d-", c.N)
	}
	for sym, kind := range symbols {
		if kind == c.Kind {
			return sym
		}
	}
	return "?"
}

// Streaming reports whether c can merge branch outputs as they arrive.
// Only the multiset sum can; every other combinator needs the per-branch
// occurrence counts of each distinct quad.
func (c Combinator) Streaming() bool {
	return c.Kind == SumMulti
}

// Apply returns how many copies of a distinct quad to emit given its
// occurrence count in each branch.
func (c Combinator) Apply(counts []int) int {
	sum, present, lo, hi := 0, 0, -1, 0
	for _, n := range counts {
		sum += n
		if n > 0 {
			present++
		}
		if lo < 0 || n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	if len(counts) == 0 || present == 0 {
		return 0
	}
	all := present == len(counts)

	switch c.Kind {
	case SumMulti, UnionMulti:
		return sum
	case UnionSet:
		return 1
	case IntersectSet:
		return boolCopies(all)
	case IntersectMulti:
		if !all {
			return 0
		}
		return lo
	case DiffSet, DiffMulti:
		if counts[0] == 0 || present > 1 {
			return 0
		}
		if c.Kind == DiffSet {
			return 1
		}
		return counts[0]
	case SymDiffSet:
		return boolCopies(!all)
	case SymDiffMulti:
		// Multiset symmetric difference: the excess of the most frequent
		// branch over the least frequent one.
		return hi - lo
	case AtLeast:
		return boolCopies(present >= c.N)
	case AtMost:
		return boolCopies(present <= c.N)
	default:
		return 0
	}
}

func boolCopies(b bool) int {
	if b {
		return 1
	}
	return 0
}

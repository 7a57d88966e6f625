package rules

import (
	"fmt"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
)

// GraphMode decides the context of inferred quads.
type GraphMode int

const (
	// GraphNone puts inferred quads in the default graph.
	GraphNone GraphMode = iota
	// GraphGlobal puts every inferred quad in the global graph.
	GraphGlobal
	// GraphSeparate puts inferred quads in one minted graph per partition.
	GraphSeparate
	// GraphStar keeps the single context the premises came from, falling
	// back to the global graph when several contributed.
	GraphStar
)

var graphModeNames = map[string]GraphMode{
	"none":     GraphNone,
	"global":   GraphGlobal,
	"separate": GraphSeparate,
	"star":     GraphStar,
}

// ParseGraphMode decodes a -g argument.
func ParseGraphMode(s string) (GraphMode, error) {
	m, ok := graphModeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return GraphNone, fmt.Errorf("unknown graph inference mode %q (want none, global, separate or star)", s)
	}
	return m, nil
}

func (m GraphMode) String() string {
	for name, v := range graphModeNames {
		if v == m {
			return name
		}
	}
	return fmt.Sprintf("GraphMode(%d)", int(m))
}

// contextPolicy is a graph mode resolved for one partition.
type contextPolicy struct {
	mode      GraphMode
	global    ir.Value
	partition ir.Value
}

// newContextPolicy resolves mode for the partition with the given key.
// graph is the context shared by the partition's quads, if any; a graph
// that is already a partition graph keeps its inferences, so closing the
// output again does not mint a new graph.
func newContextPolicy(mode GraphMode, global ir.Value, key string, graph ir.Value) contextPolicy {
	p := contextPolicy{mode: mode, global: global}
	if mode == GraphSeparate {
		if ir.IsPartitionGraph(graph) {
			p.partition = graph
		} else {
			p.partition = ir.MintPartitionGraph(key)
		}
	}
	return p
}

// context returns the context of a quad inferred from premises in the
// given contexts. Under GraphStar the default graph and the global graph
// never count as a contributing context.
func (p contextPolicy) context(premises []ir.Value) ir.Value {
	switch p.mode {
	case GraphGlobal:
		return p.global
	case GraphSeparate:
		return p.partition
	case GraphStar:
		var only ir.Value
		for _, c := range premises {
			if c == nil || c == p.global {
				continue
			}
			if only != nil && only != c {
				return p.global
			}
			only = c
		}
		if only == nil {
			return p.global
		}
		return only
	default:
		return nil
	}
}

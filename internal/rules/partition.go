package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// Partitioning selects how the closure is split into independent fixpoints.
type Partitioning int

const (
	// PartitionNone runs one fixpoint over all data.
	PartitionNone Partitioning = iota
	// PartitionEntity hashes quads by subject and object.
	PartitionEntity
	// PartitionGraph runs one fixpoint per context.
	PartitionGraph
	// PartitionRules runs one fixpoint per independent group of rules.
	PartitionRules
)

var partitioningNames = map[string]Partitioning{
	"none":   PartitionNone,
	"entity": PartitionEntity,
	"graph":  PartitionGraph,
	"rules":  PartitionRules,
}

// ParsePartitioning decodes a -p argument.
func ParsePartitioning(s string) (Partitioning, error) {
	p, ok := partitioningNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return PartitionNone, fmt.Errorf("unknown partitioning %q (want none, entity, graph or rules)", s)
	}
	return p, nil
}

func (p Partitioning) String() string {
	for name, v := range partitioningNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("Partitioning(%d)", int(p))
}

// partition is the unit of work of one fixpoint worker.
type partition struct {
	key   string
	quads []ir.Quad
	rules []compiledRule

	// graph is the context of a graph partition's instance data.
	graph ir.Value
}

// split divides input into partitions. Schema statements go to every
// partition of the entity and graph modes, so class and property axioms
// are visible wherever instance data needs them.
func split(mode Partitioning, input []ir.Quad, rules []compiledRule, groups [][]compiledRule, n int) []partition {
	switch mode {
	case PartitionEntity:
		if n < 1 {
			n = 1
		}
		parts := make([]partition, n)
		for i := range parts {
			parts[i] = partition{key: "entity/" + strconv.Itoa(i), rules: rules}
		}
		for _, q := range input {
			if vocab.IsTBox(q) {
				for i := range parts {
					parts[i].quads = append(parts[i].quads, q)
				}
				continue
			}
			a := ir.PartitionOf(q.S, n)
			parts[a].quads = append(parts[a].quads, q)
			if ir.IsResource(q.O) {
				if b := ir.PartitionOf(q.O, n); b != a {
					parts[b].quads = append(parts[b].quads, q)
				}
			}
		}
		return parts

	case PartitionGraph:
		var (
			parts  []partition
			byCtx  = make(map[ir.Value]int)
			schema []ir.Quad
		)
		for _, q := range input {
			if vocab.IsTBox(q) {
				schema = append(schema, q)
				continue
			}
			i, ok := byCtx[q.C]
			if !ok {
				i = len(parts)
				byCtx[q.C] = i
				key := "graph/"
				if q.C != nil {
					key += ir.FormatTerm(q.C)
				}
				parts = append(parts, partition{key: key, rules: rules, graph: q.C})
			}
			parts[i].quads = append(parts[i].quads, q)
		}
		if len(parts) == 0 {
			return []partition{{key: "graph/", quads: schema, rules: rules}}
		}
		for i := range parts {
			parts[i].quads = append(parts[i].quads, schema...)
		}
		return parts

	case PartitionRules:
		parts := make([]partition, len(groups))
		for i, g := range groups {
			parts[i] = partition{key: "rules/" + strconv.Itoa(i), quads: input, rules: g}
		}
		return parts

	default:
		return []partition{{key: "all", quads: input, rules: rules}}
	}
}

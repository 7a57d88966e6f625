package builtin

import (
	"context"
	"fmt"

	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
)

// Build turns a composition tree into a processor. Every call is wrapped
// so that runtime failures name the stage, e.g. "@rules (offset 12)".
func Build(ctx context.Context, node pipeline.Node, reg *Registry, env Env) (processor.Processor, error) {
	env = env.withDefaults()
	if err := spill.CheckDir(env.Spill.Dir); err != nil {
		return nil, &processor.ResourceError{Resource: "temp directory", Err: err}
	}
	return build(ctx, node, reg, env)
}

// Compile parses expr and builds its processor.
func Compile(ctx context.Context, expr string, reg *Registry, env Env) (processor.Processor, error) {
	node, err := pipeline.Parse(expr, reg)
	if err != nil {
		return nil, err
	}
	return Build(ctx, node, reg, env)
}

func build(ctx context.Context, node pipeline.Node, reg *Registry, env Env) (processor.Processor, error) {
	switch n := node.(type) {
	case *pipeline.Call:
		spec, ok := reg.Lookup(n.Name)
		if !ok {
			return nil, &pipeline.UnknownProcessorError{Name: n.Name, Pos: n.Pos}
		}
		p, err := spec.Factory(ctx, n.Args, env)
		if err != nil {
			return nil, err
		}
		return processor.Named(fmt.Sprintf("@%s (offset %d)", n.Name, n.Pos), p), nil

	case *pipeline.Sequence:
		stages := make([]processor.Processor, len(n.Stages))
		for i, st := range n.Stages {
			p, err := build(ctx, st, reg, env)
			if err != nil {
				return nil, err
			}
			stages[i] = p
		}
		return processor.Sequence(stages...), nil

	case *pipeline.Parallel:
		branches := make([]processor.Processor, len(n.Branches))
		for i, b := range n.Branches {
			p, err := build(ctx, b, reg, env)
			if err != nil {
				return nil, err
			}
			branches[i] = p
		}
		return processor.Parallel(n.Combinator, processor.ParallelOptions{
			Spill:        env.Spill,
			BranchBuffer: env.BranchBuffer,
			Logger:       env.Logger,
		}, branches...), nil
	}
	return nil, fmt.Errorf("unsupported pipeline node %T", node)
}

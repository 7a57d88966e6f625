package rules

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// Options configures a closure processor.
type Options struct {
	Rules        *RuleSet
	Partitioning Partitioning
	GraphMode    GraphMode

	// GlobalGraph is the target of GraphGlobal and the fallback of
	// GraphStar. Nil means the default graph.
	GlobalGraph ir.Value

	// DropBNodeTypes drops <x rdf:type _:b> statements from the output.
	DropBNodeTypes bool

	// Deduplicate drops repeated input quads from the pass-through.
	Deduplicate bool

	// Background quads are closed once at construction and seeded into
	// every fixpoint. With EmitBackground the closure is emitted on Close
	// into BackgroundGraph (nil for the default graph).
	Background      []ir.Quad
	EmitBackground  bool
	BackgroundGraph ir.Value

	// Workers bounds concurrent fixpoints and is the number of entity
	// partitions.
	Workers int

	Spill  spill.Options
	Logger *slog.Logger
}

// Closure is a forward-chaining processor. Input quads pass through as they
// arrive; on Close the closure is computed and every inferred quad that
// was not part of the input is emitted.
type Closure struct {
	opts       Options
	rules      []compiledRule
	groups     [][]compiledRule
	background []ir.Quad
	bgSeen     map[string]struct{}
}

// New validates opts and closes the background data.
func New(ctx context.Context, opts Options) (*Closure, error) {
	if opts.Rules == nil {
		return nil, fmt.Errorf("rules: no ruleset")
	}
	if err := opts.Rules.CheckSafety(); err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	c := &Closure{
		opts:  opts,
		rules: compileRules(opts.Rules.Rules),
	}
	if opts.Partitioning == PartitionRules {
		for _, g := range Components(opts.Rules) {
			c.groups = append(c.groups, compileRules(g.Rules))
		}
	}

	start := time.Now()
	bg := newStore(len(opts.Background))
	for _, q := range opts.Background {
		bg.add(q)
	}
	rounds := 0
	if len(opts.Background) > 0 {
		var err error
		rounds, err = fixpoint(ctx, bg, c.rules, newContextPolicy(opts.GraphMode, opts.GlobalGraph, "background", nil))
		if err != nil {
			return nil, err
		}
	}
	c.background = bg.quads
	c.bgSeen = bg.seen

	opts.Logger.Debug("closure initialized",
		"ruleset", opts.Rules.Name,
		"rules", len(c.rules),
		"background", len(opts.Background),
		"background_closure", len(c.background),
		"rounds", rounds,
		"duration", time.Since(start),
	)
	return c, nil
}

// Open implements processor.Processor.
func (c *Closure) Open(_ context.Context, next processor.Handler) (processor.Handler, error) {
	return &closureHandler{
		Forward: processor.Forward{Next: next},
		c:       c,
		seen:    make(map[string]struct{}),
	}, nil
}

type closureHandler struct {
	processor.Forward
	c     *Closure
	input []ir.Quad
	seen  map[string]struct{}
}

func (h *closureHandler) keep(q ir.Quad) bool {
	return !h.c.opts.DropBNodeTypes || q.P != vocab.RDFType || !ir.IsBNode(q.O)
}

func (h *closureHandler) Consume(ctx context.Context, q ir.Quad) error {
	k := q.Key()
	if _, dup := h.seen[k]; dup {
		if h.c.opts.Deduplicate || !h.keep(q) {
			return nil
		}
		return h.Next.Consume(ctx, q)
	}
	h.seen[k] = struct{}{}
	h.input = append(h.input, q)
	if !h.keep(q) {
		return nil
	}
	return h.Next.Consume(ctx, q)
}

func (h *closureHandler) Close(ctx context.Context) error {
	opts := h.c.opts
	start := time.Now()

	parts := split(opts.Partitioning, h.input, h.c.rules, h.c.groups, opts.Workers)
	results := make([][]ir.Quad, len(parts))

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithMaxGoroutines(opts.Workers)
	for i, part := range parts {
		p.Go(func(ctx context.Context) error {
			inferred, err := h.c.run(ctx, part, h.seen)
			results[i] = inferred
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return err
	}

	// Partitions can derive the same quad; the table deduplicates and
	// sorts them.
	table := spill.New(opts.Spill)
	defer table.Close()
	for _, inferred := range results {
		for _, q := range inferred {
			if err := table.Add(ctx, q.Key(), 1); err != nil {
				return err
			}
		}
	}

	var emitted int64
	err := table.Each(ctx, func(key string, _ int) error {
		q, err := ir.ParseKey(key)
		if err != nil {
			return err
		}
		if !h.keep(q) {
			return nil
		}
		emitted++
		return h.Next.Consume(ctx, q)
	})
	if err != nil {
		return err
	}

	if opts.EmitBackground {
		if err := h.emitBackground(ctx); err != nil {
			return err
		}
	}

	opts.Logger.Debug("closure computed",
		"partitions", len(parts),
		"partitioning", opts.Partitioning.String(),
		"input", len(h.input),
		"inferred", emitted,
		"duration", time.Since(start),
	)
	return nil
}

func (h *closureHandler) emitBackground(ctx context.Context) error {
	done := make(map[string]struct{})
	for _, q := range h.c.background {
		q = q.WithContext(h.c.opts.BackgroundGraph)
		k := q.Key()
		if _, ok := done[k]; ok {
			continue
		}
		done[k] = struct{}{}
		if _, ok := h.seen[k]; ok || !h.keep(q) {
			continue
		}
		if err := h.Next.Consume(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (h *closureHandler) Abort() {
	h.input = nil
}

// run computes one partition's closure and returns the derived quads that
// are neither input nor background.
func (c *Closure) run(ctx context.Context, part partition, input map[string]struct{}) ([]ir.Quad, error) {
	s := newStore(len(c.background) + len(part.quads))
	for _, q := range c.background {
		s.add(q)
	}
	for _, q := range part.quads {
		s.add(q)
	}
	policy := newContextPolicy(c.opts.GraphMode, c.opts.GlobalGraph, part.key, part.graph)
	rounds, err := fixpoint(ctx, s, part.rules, policy)
	if err != nil {
		return nil, err
	}

	var inferred []ir.Quad
	for _, q := range s.quads {
		k := q.Key()
		if _, ok := input[k]; ok {
			continue
		}
		if _, ok := c.bgSeen[k]; ok {
			continue
		}
		inferred = append(inferred, q)
	}
	c.opts.Logger.Debug("partition closed",
		"partition", part.key,
		"quads", len(part.quads),
		"inferred", len(inferred),
		"rounds", rounds,
	)
	return inferred, nil
}

// Apply computes the closure of quads directly, returning the input
// followed by the inferred quads.
func (c *Closure) Apply(ctx context.Context, quads []ir.Quad) ([]ir.Quad, error) {
	var out []ir.Quad
	sink := collect(func(q ir.Quad) { out = append(out, q) })
	if _, err := processor.Run(ctx, c, &processor.SliceSource{Quads: quads}, sink); err != nil {
		return nil, err
	}
	return out, nil
}

type collect func(ir.Quad)

func (f collect) Consume(_ context.Context, q ir.Quad) error { f(q); return nil }
func (f collect) Close(context.Context) error               { return nil }
func (f collect) Abort()                                    {}

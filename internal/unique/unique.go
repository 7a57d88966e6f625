// Package unique removes duplicate quads, optionally merging the copies of
// a triple found in several graphs into one graph.
package unique

import (
	"context"
	"log/slog"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// MergedGraphBase is the namespace of merged graphs whose sources share no
// namespace.
const MergedGraphBase = "urn:graph:"

// Options configures a deduplicator.
type Options struct {
	// Merge keys quads by triple instead of by quad. A triple found in
	// several named graphs is emitted once, in a merged graph linked to its
	// sources with prov:wasDerivedFrom.
	Merge bool

	Spill  spill.Options
	Logger *slog.Logger
}

// New returns a deduplicating processor. Output is emitted on Close in key
// order.
func New(opts Options) processor.Processor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return &handler{
			Forward: processor.Forward{Next: next},
			opts:    opts,
			seen:    spill.New(opts.Spill),
		}, nil
	})
}

type handler struct {
	processor.Forward
	opts Options
	seen *spill.Bag
}

func (h *handler) Consume(ctx context.Context, q ir.Quad) error {
	return h.seen.Add(ctx, q.Key(), 1)
}

func (h *handler) Close(ctx context.Context) error {
	defer h.seen.Close()
	if h.opts.Merge {
		return h.merge(ctx)
	}
	var distinct int64
	err := h.seen.Each(ctx, func(key string, _ int) error {
		q, err := ir.ParseKey(key)
		if err != nil {
			return err
		}
		distinct++
		return h.Next.Consume(ctx, q)
	})
	if err != nil {
		return err
	}
	h.opts.Logger.Debug("deduplicated", "input", h.seen.Total(), "distinct", distinct)
	return nil
}

func (h *handler) Abort() {
	h.seen.Close()
}

// merger tracks the merged graphs minted during a run.
type merger struct {
	minted  map[string]ir.IRI
	sources map[ir.IRI][]ir.Value
	targets map[ir.Value][]ir.IRI
}

func newMerger() *merger {
	return &merger{
		minted:  make(map[string]ir.IRI),
		sources: make(map[ir.IRI][]ir.Value),
		targets: make(map[ir.Value][]ir.IRI),
	}
}

// graphFor returns the merged graph of a sorted list of contexts.
func (m *merger) graphFor(contexts []ir.Value) ir.IRI {
	parts := make([]string, len(contexts))
	for i, c := range contexts {
		parts[i] = ir.FormatTerm(c)
	}
	id := strings.Join(parts, " ")
	if g, ok := m.minted[id]; ok {
		return g
	}
	g := ir.MintIRI(sharedNamespace(contexts), ir.DomainMergedGraph, parts...)
	m.minted[id] = g
	m.sources[g] = contexts
	for _, c := range contexts {
		m.targets[c] = append(m.targets[c], g)
	}
	return g
}

// sharedNamespace returns the namespace common to all contexts, or
// MergedGraphBase.
func sharedNamespace(contexts []ir.Value) string {
	var ns string
	for i, c := range contexts {
		iri, ok := c.(ir.IRI)
		if !ok {
			return MergedGraphBase
		}
		n, _ := ir.SplitIRI(iri)
		if n == "" || (i > 0 && n != ns) {
			return MergedGraphBase
		}
		ns = n
	}
	return ns
}

// resolve returns the single context a triple is emitted in.
func (m *merger) resolve(contexts []ir.Value) ir.Value {
	if contexts[0] == nil {
		// The default graph asserts the triple unconditionally.
		return nil
	}
	if len(contexts) == 1 {
		return contexts[0]
	}
	return m.graphFor(contexts)
}

// merge makes two passes over the distinct quads: the first mints merged
// graphs, the second emits triples and copies graph metadata (default-graph
// statements about a source graph) onto the merged graphs.
func (h *handler) merge(ctx context.Context) error {
	m := newMerger()
	err := eachTriple(ctx, h.seen, func(_ ir.Quad, contexts []ir.Value) error {
		m.resolve(contexts)
		return nil
	})
	if err != nil {
		return err
	}

	extra := spill.New(h.opts.Spill)
	defer extra.Close()

	var triples int64
	err = eachTriple(ctx, h.seen, func(t ir.Quad, contexts []ir.Value) error {
		triples++
		if contexts[0] == nil {
			for _, g := range m.targets[t.S] {
				if err := extra.Add(ctx, ir.MustQuad(g, t.P, t.O, nil).Key(), 1); err != nil {
					return err
				}
			}
		}
		return h.Next.Consume(ctx, t.WithContext(m.resolve(contexts)))
	})
	if err != nil {
		return err
	}

	for g, sources := range m.sources {
		for _, src := range sources {
			if err := extra.Add(ctx, ir.MustQuad(g, vocab.PROVWasDerivedFrom, src, nil).Key(), 1); err != nil {
				return err
			}
		}
	}
	err = extra.Each(ctx, func(key string, _ int) error {
		q, err := ir.ParseKey(key)
		if err != nil {
			return err
		}
		return h.Next.Consume(ctx, q)
	})
	if err != nil {
		return err
	}

	h.opts.Logger.Debug("merged",
		"input", h.seen.Total(),
		"triples", triples,
		"merged_graphs", len(m.sources),
	)
	return nil
}

// eachTriple groups the distinct quads of bag by triple. Keys sort by
// triple first, so the contexts of a triple are adjacent; they arrive in
// key order with the default graph first.
func eachTriple(ctx context.Context, bag *spill.Bag, fn func(triple ir.Quad, contexts []ir.Value) error) error {
	var (
		cur      ir.Quad
		curKey   string
		contexts []ir.Value
		started  bool
	)
	flush := func() error {
		if !started {
			return nil
		}
		return fn(cur, contexts)
	}
	err := bag.Each(ctx, func(key string, _ int) error {
		q, err := ir.ParseKey(key)
		if err != nil {
			return err
		}
		tk := q.TripleKey()
		if started && tk == curKey {
			contexts = append(contexts, q.C)
			return nil
		}
		if err := flush(); err != nil {
			return err
		}
		cur, curKey, started = q.WithContext(nil), tk, true
		contexts = []ir.Value{q.C}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

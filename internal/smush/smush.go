package smush

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// Options configures a smusher.
type Options struct {
	// Namespaces ranks representative candidates, highest first.
	Namespaces []string

	Spill  spill.Options
	Logger *slog.Logger
}

// New returns a smushing processor.
func New(opts Options) processor.Processor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return &handler{
			Forward:  processor.Forward{Next: next},
			opts:     opts,
			buffer:   spill.New(opts.Spill),
			clusters: newClusters(),
		}, nil
	})
}

type handler struct {
	processor.Forward
	opts     Options
	buffer   *spill.Bag
	clusters *clusters
	links    int64
}

func isLink(q ir.Quad) bool {
	return q.P == vocab.OWLSameAs && ir.IsResource(q.O)
}

func (h *handler) Consume(ctx context.Context, q ir.Quad) error {
	if isLink(q) && q.S != q.O {
		h.clusters.union(q.S, q.O)
		h.links++
	}
	return h.buffer.Add(ctx, q.Key(), 1)
}

func (h *handler) Close(ctx context.Context) error {
	defer h.buffer.Close()
	start := time.Now()

	h.clusters.choose(ranker{namespaces: h.opts.Namespaces})
	nodes, clusters := h.clusters.size()

	var rewritten int64
	err := h.buffer.Each(ctx, func(key string, n int) error {
		q, err := ir.ParseKey(key)
		if err != nil {
			return err
		}
		out := h.rewrite(q)
		if len(out) != 1 || out[0] != q {
			rewritten++
		}
		for range n {
			for _, o := range out {
				if err := h.Next.Consume(ctx, o); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	h.opts.Logger.Debug("owl:sameAs normalization done",
		"links", h.links,
		"resources", nodes,
		"clusters", clusters,
		"rewritten", rewritten,
		"duration", time.Since(start),
	)
	return nil
}

// rewrite maps q to its smushed form. A link statement is replaced by
// statements linking each representative to the non-representative
// endpoints, so no equivalence information is lost. A reflexive link is
// rewritten like any other statement.
func (h *handler) rewrite(q ir.Quad) []ir.Quad {
	c := h.clusters.rewrite(q.C)
	if isLink(q) && q.S != q.O {
		var out []ir.Quad
		if s := h.clusters.rewrite(q.S); s != q.S {
			out = append(out, ir.MustQuad(s, vocab.OWLSameAs, q.S, c))
		}
		if o := h.clusters.rewrite(q.O); o != q.O {
			out = append(out, ir.MustQuad(o, vocab.OWLSameAs, q.O, c))
		}
		return out
	}
	s := h.clusters.rewrite(q.S)
	p, ok := h.clusters.rewrite(q.P).(ir.IRI)
	if !ok {
		p = q.P
	}
	o := q.O
	if ir.IsResource(o) {
		o = h.clusters.rewrite(o)
	}
	return []ir.Quad{ir.MustQuad(s, p, o, c)}
}

func (h *handler) Abort() {
	h.buffer.Close()
}

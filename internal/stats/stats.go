// Package stats computes VOID dataset statistics. It is a terminal
// processor: the input is consumed and only the statistics are emitted.
package stats

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// DefaultNamespace is the namespace of minted dataset IRIs.
const DefaultNamespace = "urn:stats:"

// Options configures the aggregator.
type Options struct {
	// Namespace prefixes minted dataset and partition IRIs.
	Namespace string

	// SourceProperty links a graph to the source it came from. When set,
	// subsets are per source; otherwise per graph.
	SourceProperty ir.IRI

	// SourceGraph restricts source statements to one graph.
	SourceGraph ir.Value

	// Threshold drops subsets with fewer triples.
	Threshold int64

	// Partitions adds class and property partitions.
	Partitions bool

	Spill  spill.Options
	Logger *slog.Logger
}

// New returns a statistics processor.
func New(opts Options) processor.Processor {
	if opts.Namespace == "" {
		opts.Namespace = DefaultNamespace
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return &handler{
			next:    next,
			opts:    opts,
			buffer:  spill.New(opts.Spill),
			sources: make(map[ir.Value][]ir.Value),
		}, nil
	})
}

type handler struct {
	next    processor.Handler
	opts    Options
	buffer  *spill.Bag
	sources map[ir.Value][]ir.Value
}

type set map[uint64]struct{}

func (s set) add(vs ...ir.Value) { s[ir.Fingerprint(vs...)] = struct{}{} }

// counter accumulates the statistics of one dataset.
type counter struct {
	triples, subjects, objects, entities set
	classes                              map[ir.IRI]set
	properties                           map[ir.IRI]set
}

func newCounter() *counter {
	return &counter{
		triples:    set{},
		subjects:   set{},
		objects:    set{},
		entities:   set{},
		classes:    make(map[ir.IRI]set),
		properties: make(map[ir.IRI]set),
	}
}

func (c *counter) add(q ir.Quad, partitions bool) {
	c.triples.add(q.S, q.P, q.O)
	c.subjects.add(q.S)
	c.objects.add(q.O)
	if ir.IsIRI(q.S) {
		c.entities.add(q.S)
	}
	if !partitions {
		return
	}
	if c.properties[q.P] == nil {
		c.properties[q.P] = set{}
	}
	c.properties[q.P].add(q.S, q.O)
	if class, ok := q.O.(ir.IRI); ok && q.P == vocab.RDFType {
		if c.classes[class] == nil {
			c.classes[class] = set{}
		}
		c.classes[class].add(q.S)
	}
}

func (h *handler) isSourceStatement(q ir.Quad) bool {
	if h.opts.SourceProperty == "" || q.P != h.opts.SourceProperty || !ir.IsResource(q.O) {
		return false
	}
	return h.opts.SourceGraph == nil || q.C == h.opts.SourceGraph
}

func (h *handler) Consume(ctx context.Context, q ir.Quad) error {
	if h.isSourceStatement(q) {
		h.sources[q.S] = append(h.sources[q.S], q.O)
	}
	return h.buffer.Add(ctx, q.Key(), 1)
}

// Namespace drops input declarations; the output declares its own.
func (h *handler) Namespace(context.Context, string, string) error { return nil }

func (h *handler) sourcesOf(q ir.Quad) []ir.Value {
	if q.C == nil {
		return nil
	}
	if h.opts.SourceProperty == "" {
		return []ir.Value{q.C}
	}
	return h.sources[q.C]
}

func (h *handler) Close(ctx context.Context) error {
	defer h.buffer.Close()

	root := newCounter()
	subsets := make(map[ir.Value]*counter)
	err := h.buffer.Each(ctx, func(key string, _ int) error {
		q, err := ir.ParseKey(key)
		if err != nil {
			return err
		}
		root.add(q, h.opts.Partitions)
		for _, src := range h.sourcesOf(q) {
			c := subsets[src]
			if c == nil {
				c = newCounter()
				subsets[src] = c
			}
			c.add(q, h.opts.Partitions)
		}
		return nil
	})
	if err != nil {
		return err
	}

	out := &emitter{ns: h.opts.Namespace}
	dataset := out.mint("dataset")
	out.describe(dataset, root, h.opts.Partitions)

	kept := 0
	for src, c := range subsets {
		if int64(len(c.triples)) < h.opts.Threshold {
			continue
		}
		kept++
		subset := out.mint("source", ir.FormatTerm(src))
		out.add(dataset, vocab.VOIDSubset, subset)
		out.add(subset, vocab.DCTSource, src)
		out.describe(subset, c, h.opts.Partitions)
	}

	for _, prefix := range []string{"dct", "rdf", "void", "xsd"} {
		ns, _ := ir.DefaultNamespaces().Lookup(prefix)
		if err := processor.ForwardNamespace(ctx, h.next, prefix, ns); err != nil {
			return err
		}
	}
	ir.SortQuads(out.quads)
	for _, q := range out.quads {
		if err := h.next.Consume(ctx, q); err != nil {
			return err
		}
	}

	h.opts.Logger.Debug("statistics computed",
		"triples", len(root.triples),
		"sources", len(subsets),
		"subsets", kept,
	)
	return nil
}

func (h *handler) Abort() {
	h.buffer.Close()
}

// emitter collects the VOID description.
type emitter struct {
	ns    string
	quads []ir.Quad
}

func (e *emitter) mint(parts ...string) ir.IRI {
	return ir.MintIRI(e.ns, ir.DomainStatsNode, parts...)
}

func (e *emitter) add(s ir.Value, p ir.IRI, o ir.Value) {
	e.quads = append(e.quads, ir.MustQuad(s, p, o, nil))
}

func (e *emitter) count(s ir.Value, p ir.IRI, n int) {
	e.add(s, p, ir.NewTypedLiteral(strconv.Itoa(n), vocab.XSDInteger))
}

func (e *emitter) describe(d ir.IRI, c *counter, partitions bool) {
	e.add(d, vocab.RDFType, vocab.VOIDDataset)
	e.count(d, vocab.VOIDTriples, len(c.triples))
	e.count(d, vocab.VOIDEntities, len(c.entities))
	e.count(d, vocab.VOIDDistinctSubjects, len(c.subjects))
	e.count(d, vocab.VOIDDistinctObjects, len(c.objects))
	if !partitions {
		return
	}
	e.count(d, vocab.VOIDClasses, len(c.classes))
	e.count(d, vocab.VOIDProperties, len(c.properties))
	for _, class := range sortedKeys(c.classes) {
		part := e.mint("class", string(d), string(class))
		e.add(d, vocab.VOIDClassPartition, part)
		e.add(part, vocab.VOIDClass, class)
		e.count(part, vocab.VOIDEntities, len(c.classes[class]))
	}
	for _, prop := range sortedKeys(c.properties) {
		part := e.mint("property", string(d), string(prop))
		e.add(d, vocab.VOIDPropertyPartition, part)
		e.add(part, vocab.VOIDProperty, prop)
		e.count(part, vocab.VOIDTriples, len(c.properties[prop]))
	}
}

func sortedKeys(m map[ir.IRI]set) []ir.IRI {
	keys := make([]ir.IRI, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

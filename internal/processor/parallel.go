package processor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/spill"
)

// DefaultBranchBuffer is the per-branch channel capacity.
const DefaultBranchBuffer = 256

// ParallelOptions configures a parallel composer.
type ParallelOptions struct {
	// Spill configures the occurrence tables of non-streaming combinators.
	Spill spill.Options

	// BranchBuffer is the capacity of each branch's input channel.
	BranchBuffer int

	Logger *slog.Logger
}

// Parallel replicates its input to every branch and merges the branch
// outputs according to comb.
func Parallel(comb pipeline.Combinator, opts ParallelOptions, branches ...Processor) Processor {
	if opts.BranchBuffer <= 0 {
		opts.BranchBuffer = DefaultBranchBuffer
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &parallel{comb: comb, opts: opts, branches: branches}
}

type parallel struct {
	comb     pipeline.Combinator
	opts     ParallelOptions
	branches []Processor
}

// item is one element of a branch's input: a quad or a namespace declaration.
type item struct {
	quad ir.Quad
	ns   *ir.NamespaceDecl
}

func (p *parallel) Open(ctx context.Context, next Handler) (Handler, error) {
	h := &parallelHandler{
		comb:   p.comb,
		next:   next,
		logger: p.opts.Logger,
		failed: make(chan struct{}),
		nsSeen: make(map[ir.NamespaceDecl]bool),
	}

	sinks := make([]Handler, len(p.branches))
	if p.comb.Streaming() {
		shared := Synchronized(next)
		for i := range sinks {
			sinks[i] = shared
		}
	} else {
		h.bags = make([]*spill.Bag, len(p.branches))
		for i := range sinks {
			h.bags[i] = spill.New(p.opts.Spill)
			sinks[i] = &bagSink{bag: h.bags[i], owner: h}
		}
	}

	branches := make([]Handler, len(p.branches))
	for i, b := range p.branches {
		bh, err := b.Open(ctx, sinks[i])
		if err != nil {
			for _, opened := range branches[:i] {
				opened.Abort()
			}
			h.closeBags()
			return nil, err
		}
		branches[i] = bh
	}

	h.inputs = make([]chan item, len(branches))
	for i := range h.inputs {
		h.inputs[i] = make(chan item, p.opts.BranchBuffer)
	}

	runCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.workers = pool.New().WithContext(runCtx).WithCancelOnError().WithFirstError()
	for i, bh := range branches {
		h.workers.Go(func(ctx context.Context) error {
			return h.runBranch(ctx, bh, h.inputs[i])
		})
	}

	p.opts.Logger.Debug("parallel group opened", "branches", len(branches), "combinator", p.comb.String())
	return h, nil
}

type parallelHandler struct {
	comb   pipeline.Combinator
	next   Handler
	logger *slog.Logger

	inputs  []chan item
	workers *pool.ContextPool
	cancel  context.CancelFunc
	bags    []*spill.Bag

	failOnce sync.Once
	failed   chan struct{}
	firstErr error

	closeInputs sync.Once
	waitOnce    sync.Once
	waitErr     error

	nsMu   sync.Mutex
	nsSeen map[ir.NamespaceDecl]bool
}

// runBranch feeds one branch from its channel until the channel is closed,
// then closes the branch.
func (h *parallelHandler) runBranch(ctx context.Context, bh Handler, in <-chan item) error {
	for {
		select {
		case it, ok := <-in:
			if !ok {
				if err := ctx.Err(); err != nil {
					bh.Abort()
					return err
				}
				if err := bh.Close(ctx); err != nil {
					bh.Abort()
					return h.fail(err)
				}
				return nil
			}
			var err error
			if it.ns != nil {
				err = ForwardNamespace(ctx, bh, it.ns.Prefix, it.ns.Namespace)
			} else {
				err = bh.Consume(ctx, it.quad)
			}
			if err != nil {
				bh.Abort()
				return h.fail(err)
			}
		case <-ctx.Done():
			bh.Abort()
			return ctx.Err()
		}
	}
}

// fail records the group's first error and stops the feeder.
func (h *parallelHandler) fail(err error) error {
	h.failOnce.Do(func() {
		h.firstErr = err
		close(h.failed)
	})
	return err
}

func (h *parallelHandler) isFailed() bool {
	select {
	case <-h.failed:
		return true
	default:
		return false
	}
}

func (h *parallelHandler) send(ctx context.Context, it item) error {
	for _, in := range h.inputs {
		select {
		case in <- it:
		case <-h.failed:
			return h.wait()
		case <-ctx.Done():
			h.Abort()
			return ctx.Err()
		}
	}
	return nil
}

func (h *parallelHandler) Consume(ctx context.Context, q ir.Quad) error {
	return h.send(ctx, item{quad: q})
}

func (h *parallelHandler) Namespace(ctx context.Context, prefix, namespace string) error {
	return h.send(ctx, item{ns: &ir.NamespaceDecl{Prefix: prefix, Namespace: namespace}})
}

// wait closes the branch inputs and waits for every branch goroutine.
func (h *parallelHandler) wait() error {
	h.closeInputs.Do(func() {
		for _, in := range h.inputs {
			close(in)
		}
	})
	h.waitOnce.Do(func() {
		h.waitErr = h.workers.Wait()
		if h.firstErr != nil {
			h.waitErr = h.firstErr
		}
	})
	return h.waitErr
}

func (h *parallelHandler) Close(ctx context.Context) error {
	defer h.cancel()
	if err := h.wait(); err != nil {
		h.closeBags()
		return err
	}
	if h.comb.Streaming() {
		return nil
	}
	defer h.closeBags()

	if err := h.emitNamespaces(ctx); err != nil {
		return err
	}

	var distinct, emitted int64
	err := mergeBags(ctx, h.bags, func(key string, counts []int) error {
		distinct++
		copies := h.comb.Apply(counts)
		if copies == 0 {
			return nil
		}
		q, err := ir.ParseKey(key)
		if err != nil {
			return fmt.Errorf("decode occurrence table: %w", err)
		}
		for range copies {
			if err := h.next.Consume(ctx, q); err != nil {
				return err
			}
		}
		emitted += int64(copies)
		return nil
	})
	if err != nil {
		return err
	}

	h.logger.Debug("parallel group merged",
		"combinator", h.comb.String(),
		"distinct", distinct,
		"emitted", emitted,
	)
	return nil
}

func (h *parallelHandler) Abort() {
	h.cancel()
	h.fail(context.Canceled)
	_ = h.wait()
	h.closeBags()
}

func (h *parallelHandler) closeBags() {
	for _, b := range h.bags {
		if b != nil {
			b.Close()
		}
	}
}

func (h *parallelHandler) addNamespace(decl ir.NamespaceDecl) {
	h.nsMu.Lock()
	defer h.nsMu.Unlock()
	h.nsSeen[decl] = true
}

func (h *parallelHandler) emitNamespaces(ctx context.Context) error {
	decls := make([]ir.NamespaceDecl, 0, len(h.nsSeen))
	for d := range h.nsSeen {
		decls = append(decls, d)
	}
	sort.Slice(decls, func(i, j int) bool {
		if decls[i].Prefix != decls[j].Prefix {
			return decls[i].Prefix < decls[j].Prefix
		}
		return decls[i].Namespace < decls[j].Namespace
	})
	for _, d := range decls {
		if err := ForwardNamespace(ctx, h.next, d.Prefix, d.Namespace); err != nil {
			return err
		}
	}
	return nil
}

// bagSink counts one branch's output into its occurrence table. Each sink
// is written only by its branch goroutine.
type bagSink struct {
	bag   *spill.Bag
	owner *parallelHandler
}

func (s *bagSink) Consume(ctx context.Context, q ir.Quad) error {
	return s.bag.Add(ctx, q.Key(), 1)
}

func (s *bagSink) Namespace(_ context.Context, prefix, namespace string) error {
	s.owner.addNamespace(ir.NamespaceDecl{Prefix: prefix, Namespace: namespace})
	return nil
}

func (s *bagSink) Close(context.Context) error { return nil }
func (s *bagSink) Abort()                      {}

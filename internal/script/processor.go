package script

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
)

const instanceBuffer = 64

// Options configures the script processor.
type Options struct {
	// Instances is the number of interpreters run concurrently.
	// Defaults to GOMAXPROCS.
	Instances int

	Logger *slog.Logger
}

// New returns a processor that feeds every quad to a pool of script
// instances, dispatching round-robin.
func New(s *Script, opts Options) processor.Processor {
	if opts.Instances <= 0 {
		opts.Instances = runtime.GOMAXPROCS(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return processor.ProcessorFunc(func(ctx context.Context, next processor.Handler) (processor.Handler, error) {
		return open(ctx, s, opts, next)
	})
}

type handler struct {
	script *Script
	next   processor.Handler
	out    processor.Handler
	logger *slog.Logger

	inputs  []chan ir.Quad
	turn    int
	workers *pool.ContextPool
	done    <-chan struct{}
	cancel  context.CancelFunc

	closeOnce sync.Once
	waitErr   error
}

func open(ctx context.Context, s *Script, opts Options, next processor.Handler) (*handler, error) {
	fns := make([]ProcessFunc, opts.Instances)
	for i := range fns {
		fn, err := s.Instance()
		if err != nil {
			return nil, err
		}
		fns[i] = fn
	}

	runCtx, cancel := context.WithCancel(ctx)
	h := &handler{
		script:  s,
		next:    next,
		out:     processor.Synchronized(next),
		logger:  opts.Logger,
		inputs:  make([]chan ir.Quad, len(fns)),
		workers: pool.New().WithContext(runCtx).WithCancelOnError().WithFirstError(),
		done:    runCtx.Done(),
		cancel:  cancel,
	}
	for i, fn := range fns {
		h.inputs[i] = make(chan ir.Quad, instanceBuffer)
		in := h.inputs[i]
		h.workers.Go(func(ctx context.Context) error {
			return h.work(ctx, fn, in)
		})
	}
	opts.Logger.Debug("script instances started", "script", s.Name, "instances", len(fns))
	return h, nil
}

func (h *handler) work(ctx context.Context, fn ProcessFunc, in <-chan ir.Quad) error {
	for {
		select {
		case q, ok := <-in:
			if !ok {
				return nil
			}
			rows, err := h.call(fn, q)
			if err != nil {
				return err
			}
			for _, row := range rows {
				out, err := parseRow(row)
				if err != nil {
					return &Error{Script: h.script.Name, Err: err}
				}
				if err := h.out.Consume(ctx, out); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// call runs the entry point, converting a script panic into an error.
func (h *handler) call(fn ProcessFunc, q ir.Quad) (rows [][4]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Script: h.script.Name, Err: fmt.Errorf("panic on %s: %v", q, r)}
		}
	}()
	c := ""
	if q.C != nil {
		c = ir.FormatTerm(q.C)
	}
	return fn(ir.FormatTerm(q.S), ir.FormatTerm(q.P), ir.FormatTerm(q.O), c), nil
}

func parseRow(row [4]string) (ir.Quad, error) {
	terms := make([]ir.Value, 4)
	for i, text := range row {
		if text == "" {
			if i < 3 {
				return ir.Quad{}, fmt.Errorf("output row %q: missing term %d", row, i)
			}
			continue
		}
		v, err := ir.ParseTerm(text)
		if err != nil {
			return ir.Quad{}, fmt.Errorf("output row %q: %w", row, err)
		}
		terms[i] = v
	}
	p, ok := terms[1].(ir.IRI)
	if !ok {
		return ir.Quad{}, fmt.Errorf("output row %q: predicate is not an IRI", row)
	}
	return ir.NewQuad(terms[0], p, terms[2], terms[3])
}

func (h *handler) Consume(ctx context.Context, q ir.Quad) error {
	in := h.inputs[h.turn]
	h.turn = (h.turn + 1) % len(h.inputs)
	select {
	case in <- q:
		return nil
	case <-h.done:
		return h.wait()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *handler) Namespace(ctx context.Context, prefix, namespace string) error {
	return processor.ForwardNamespace(ctx, h.out, prefix, namespace)
}

func (h *handler) wait() error {
	h.closeOnce.Do(func() {
		for _, in := range h.inputs {
			close(in)
		}
		h.waitErr = h.workers.Wait()
		h.cancel()
	})
	return h.waitErr
}

func (h *handler) Close(context.Context) error {
	return h.wait()
}

func (h *handler) Abort() {
	h.cancel()
	_ = h.wait()
}

package transform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
)

// Options configures the transform processor.
type Options struct {
	// Skip drops quads whose cast fails instead of failing the run.
	Skip bool

	Logger *slog.Logger
}

// New returns a processor applying rules to every quad.
func New(rules *Rules, opts Options) processor.Processor {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return &handler{Forward: processor.Forward{Next: next}, rules: rules, opts: opts}, nil
	})
}

type handler struct {
	processor.Forward
	rules   *Rules
	opts    Options
	skipped int64
}

func (h *handler) Consume(ctx context.Context, q ir.Quad) error {
	out, ok, err := h.rules.Apply(q)
	if err != nil {
		var castErr *CastError
		if h.opts.Skip && errors.As(err, &castErr) {
			h.skipped++
			h.opts.Logger.Debug("quad skipped", "quad", q.String(), "error", err)
			return nil
		}
		return err
	}
	if !ok {
		return nil
	}
	return h.Next.Consume(ctx, out)
}

func (h *handler) Close(context.Context) error {
	if h.skipped > 0 {
		h.opts.Logger.Info("transform skipped malformed quads", "skipped", h.skipped)
	}
	return nil
}

// Skipped returns the number of quads dropped by the skip policy.
func (h *handler) Skipped() int64 { return h.skipped }

package processor

import (
	"context"
	"errors"

	"github.com/roach88/rdfpipe/internal/ir"
)

// keep passes quads whose predicate is p.
func keep(p ir.IRI) Processor {
	return ProcessorFunc(func(_ context.Context, next Handler) (Handler, error) {
		return &filterHandler{Forward: Forward{Next: next}, pred: p}, nil
	})
}

type filterHandler struct {
	Forward
	pred ir.IRI
}

func (h *filterHandler) Consume(ctx context.Context, q ir.Quad) error {
	if q.P != h.pred {
		return nil
	}
	return h.Next.Consume(ctx, q)
}

var errBoom = errors.New("boom")

// failAfter fails on the n-th quad it receives.
func failAfter(n int) Processor {
	return ProcessorFunc(func(_ context.Context, next Handler) (Handler, error) {
		return &failingHandler{Forward: Forward{Next: next}, left: n}, nil
	})
}

type failingHandler struct {
	Forward
	left int
}

func (h *failingHandler) Consume(ctx context.Context, q ir.Quad) error {
	h.left--
	if h.left <= 0 {
		return errBoom
	}
	return h.Next.Consume(ctx, q)
}

// buffering holds its input until Close, like a stage that needs the whole
// stream. It records whether it was aborted.
type buffering struct {
	aborted *bool
}

func (b buffering) Open(_ context.Context, next Handler) (Handler, error) {
	return &bufferingHandler{next: next, aborted: b.aborted}, nil
}

type bufferingHandler struct {
	next    Handler
	held    []ir.Quad
	aborted *bool
}

func (h *bufferingHandler) Consume(_ context.Context, q ir.Quad) error {
	h.held = append(h.held, q)
	return nil
}

func (h *bufferingHandler) Close(ctx context.Context) error {
	for _, q := range h.held {
		if err := h.next.Consume(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (h *bufferingHandler) Abort() {
	h.held = nil
	if h.aborted != nil {
		*h.aborted = true
	}
}

package processor

import (
	"context"
	"errors"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Named labels the errors of p's handler with stage, so a failed run names
// the stage that caused it.
func Named(stage string, p Processor) Processor {
	return &named{stage: stage, inner: p}
}

type named struct {
	stage string
	inner Processor
}

func (n *named) Open(ctx context.Context, next Handler) (Handler, error) {
	h, err := n.inner.Open(ctx, next)
	if err != nil {
		return nil, n.wrap(err)
	}
	return &namedHandler{stage: n.stage, inner: h}, nil
}

func (n *named) wrap(err error) error {
	return wrapStage(n.stage, err)
}

func wrapStage(stage string, err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var re *RuntimeProcessingError
	if errors.As(err, &re) {
		return err
	}
	return &RuntimeProcessingError{Stage: stage, Err: err}
}

type namedHandler struct {
	stage string
	inner Handler
}

func (h *namedHandler) Consume(ctx context.Context, q ir.Quad) error {
	return wrapStage(h.stage, h.inner.Consume(ctx, q))
}

func (h *namedHandler) Namespace(ctx context.Context, prefix, namespace string) error {
	return wrapStage(h.stage, ForwardNamespace(ctx, h.inner, prefix, namespace))
}

func (h *namedHandler) Close(ctx context.Context) error {
	return wrapStage(h.stage, h.inner.Close(ctx))
}

func (h *namedHandler) Abort() { h.inner.Abort() }

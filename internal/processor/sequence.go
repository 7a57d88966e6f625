package processor

import (
	"context"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Sequence chains stages so that the output of stage i is the input of
// stage i+1. A sequence of one stage is that stage.
func Sequence(stages ...Processor) Processor {
	if len(stages) == 1 {
		return stages[0]
	}
	return &sequence{stages: stages}
}

type sequence struct {
	stages []Processor
}

// Open opens the stages back to front, so each one is bound to its
// already-open successor.
func (s *sequence) Open(ctx context.Context, next Handler) (Handler, error) {
	handlers := make([]Handler, len(s.stages))
	downstream := next
	for i := len(s.stages) - 1; i >= 0; i-- {
		h, err := s.stages[i].Open(ctx, downstream)
		if err != nil {
			for _, opened := range handlers[i+1:] {
				opened.Abort()
			}
			return nil, err
		}
		handlers[i] = h
		downstream = h
	}
	if len(handlers) == 0 {
		return Forward{Next: next}, nil
	}
	return &sequenceHandler{stages: handlers}, nil
}

type sequenceHandler struct {
	stages []Handler
}

func (h *sequenceHandler) Consume(ctx context.Context, q ir.Quad) error {
	return h.stages[0].Consume(ctx, q)
}

func (h *sequenceHandler) Namespace(ctx context.Context, prefix, namespace string) error {
	return ForwardNamespace(ctx, h.stages[0], prefix, namespace)
}

// Close closes stages in declaration order: each stage has received all of
// its upstream's output before it finalizes.
func (h *sequenceHandler) Close(ctx context.Context) error {
	for i, st := range h.stages {
		if err := st.Close(ctx); err != nil {
			for _, rest := range h.stages[i+1:] {
				rest.Abort()
			}
			return err
		}
	}
	return nil
}

func (h *sequenceHandler) Abort() {
	for _, st := range h.stages {
		st.Abort()
	}
}

// Package tbox implements the schema extraction processor.
package tbox

import (
	"context"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/vocab"
)

// New returns a processor that keeps only TBox statements.
func New() processor.Processor {
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return handler{Forward: processor.Forward{Next: next}}, nil
	})
}

type handler struct {
	processor.Forward
}

func (h handler) Consume(ctx context.Context, q ir.Quad) error {
	if !vocab.IsTBox(q) {
		return nil
	}
	return h.Next.Consume(ctx, q)
}

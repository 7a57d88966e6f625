package processor

import (
	"context"

	"github.com/roach88/rdfpipe/internal/ir"
)

// EncoderSink writes a run's output with enc. Output is flushed on Close;
// after Abort, buffered output is dropped.
func EncoderSink(enc *ir.Encoder) Handler {
	return &encoderSink{enc: enc}
}

type encoderSink struct {
	enc *ir.Encoder
}

func (s *encoderSink) Consume(_ context.Context, q ir.Quad) error {
	return s.enc.WriteQuad(q)
}

func (s *encoderSink) Namespace(_ context.Context, prefix, namespace string) error {
	return s.enc.WriteNamespace(prefix, namespace)
}

func (s *encoderSink) Close(context.Context) error { return s.enc.Flush() }
func (s *encoderSink) Abort()                      {}

// Discard accepts and drops everything.
var Discard Handler = discard{}

type discard struct{}

func (discard) Consume(context.Context, ir.Quad) error { return nil }
func (discard) Close(context.Context) error            { return nil }
func (discard) Abort()                                 {}

package processor

import (
	"context"
	"sync"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Handler receives the quads of one run.
type Handler interface {
	Consume(ctx context.Context, q ir.Quad) error
	Close(ctx context.Context) error
	Abort()
}

// NamespaceHandler is implemented by handlers that want namespace
// declarations travelling with the stream.
type NamespaceHandler interface {
	Namespace(ctx context.Context, prefix, namespace string) error
}

// Processor is the configured, reusable form of a pipeline stage.
type Processor interface {
	Open(ctx context.Context, next Handler) (Handler, error)
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(ctx context.Context, next Handler) (Handler, error)

// Open implements Processor.
func (f ProcessorFunc) Open(ctx context.Context, next Handler) (Handler, error) {
	return f(ctx, next)
}

// ForwardNamespace passes a namespace declaration to h if h accepts them.
func ForwardNamespace(ctx context.Context, h Handler, prefix, namespace string) error {
	if nh, ok := h.(NamespaceHandler); ok {
		return nh.Namespace(ctx, prefix, namespace)
	}
	return nil
}

// Forward is an embeddable pass-through Handler. Embedders override the
// methods they need.
type Forward struct {
	Next Handler
}

// Consume passes q downstream unchanged.
func (f Forward) Consume(ctx context.Context, q ir.Quad) error {
	return f.Next.Consume(ctx, q)
}

// Close does nothing.
func (f Forward) Close(context.Context) error { return nil }

// Abort does nothing.
func (f Forward) Abort() {}

// Namespace passes the declaration downstream.
func (f Forward) Namespace(ctx context.Context, prefix, namespace string) error {
	return ForwardNamespace(ctx, f.Next, prefix, namespace)
}

// Identity passes every quad through. It backs @nop.
var Identity Processor = ProcessorFunc(func(_ context.Context, next Handler) (Handler, error) {
	return Forward{Next: next}, nil
})

// Synchronized serializes calls into next so that several goroutines can
// share one downstream. Close and Abort are not forwarded.
func Synchronized(next Handler) Handler {
	return &synchronized{next: next}
}

type synchronized struct {
	mu   sync.Mutex
	next Handler
}

func (s *synchronized) Consume(ctx context.Context, q ir.Quad) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Consume(ctx, q)
}

func (s *synchronized) Namespace(ctx context.Context, prefix, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ForwardNamespace(ctx, s.next, prefix, namespace)
}

func (s *synchronized) Close(context.Context) error { return nil }
func (s *synchronized) Abort()                      {}

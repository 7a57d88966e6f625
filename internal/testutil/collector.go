package testutil

import (
	"context"
	"sync"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Collector is a terminal handler that records everything it receives.
//
// Thread-safety: all methods are safe for concurrent use.
type Collector struct {
	mu         sync.Mutex
	quads      []ir.Quad
	namespaces []ir.NamespaceDecl
	closed     int
	aborted    int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Consume(_ context.Context, q ir.Quad) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quads = append(c.quads, q)
	return nil
}

func (c *Collector) Namespace(_ context.Context, prefix, namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.namespaces = append(c.namespaces, ir.NamespaceDecl{Prefix: prefix, Namespace: namespace})
	return nil
}

func (c *Collector) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
	return nil
}

func (c *Collector) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aborted++
}

// Quads returns a copy of the received quads in arrival order.
func (c *Collector) Quads() []ir.Quad {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ir.Quad(nil), c.quads...)
}

// Keys returns the received quads as sorted N-Quads lines.
func (c *Collector) Keys() []string {
	return Keys(c.Quads())
}

// Namespaces returns the received namespace declarations in arrival order.
func (c *Collector) Namespaces() []ir.NamespaceDecl {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ir.NamespaceDecl(nil), c.namespaces...)
}

// Closed reports how many times Close was called.
func (c *Collector) Closed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Aborted reports how many times Abort was called.
func (c *Collector) Aborted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

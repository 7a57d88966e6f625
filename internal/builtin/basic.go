package builtin

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/vocab"
)

func newNop(_ context.Context, args []string, _ Env) (processor.Processor, error) {
	if len(args) > 0 {
		return nil, argError("nop", "unexpected arguments %q", args)
	}
	return processor.Identity, nil
}

// DefaultCountInterval is the number of quads between @count progress logs.
const DefaultCountInterval = 1_000_000

func newCount(_ context.Context, args []string, env Env) (processor.Processor, error) {
	fs := newFlags("count")
	label := fs.StringP("label", "l", "count", "label of the log lines")
	interval := fs.Int64P("interval", "i", DefaultCountInterval, "quads between progress lines")
	rest, err := parse("count", fs, args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, argError("count", "unexpected arguments %q", rest)
	}
	if *interval <= 0 {
		return nil, argError("count", "interval must be positive")
	}
	logger := env.Logger
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return &counter{
			Forward:  processor.Forward{Next: next},
			label:    *label,
			interval: *interval,
			logger:   logger,
			start:    time.Now(),
		}, nil
	}), nil
}

// counter is the @count handler.
type counter struct {
	processor.Forward
	label    string
	interval int64
	logger   *slog.Logger
	start    time.Time
	n        int64
}

func (c *counter) Consume(ctx context.Context, q ir.Quad) error {
	c.n++
	if c.n%c.interval == 0 {
		c.logger.Info("quads counted", "label", c.label, "quads", c.n)
	}
	return c.Next.Consume(ctx, q)
}

func (c *counter) Close(context.Context) error {
	elapsed := time.Since(c.start)
	rate := 0.0
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(c.n) / secs
	}
	c.logger.Info("quads counted",
		"label", c.label,
		"quads", c.n,
		"duration", elapsed,
		"quads_per_second", int64(rate),
	)
	return nil
}

func newPrefix(_ context.Context, args []string, env Env) (processor.Processor, error) {
	fs := newFlags("prefix")
	file := fs.StringP("file", "f", "", "YAML map of prefix to namespace")
	rest, err := parse("prefix", fs, args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, argError("prefix", "unexpected arguments %q", rest)
	}
	ns := env.Namespaces.Clone()
	if *file != "" {
		if err := loadPrefixes(*file, ns); err != nil {
			return nil, &processor.ResourceError{Resource: *file, Err: err}
		}
	}
	return processor.ProcessorFunc(func(_ context.Context, next processor.Handler) (processor.Handler, error) {
		return &prefixer{
			Forward:  processor.Forward{Next: next},
			known:    ns,
			declared: make(map[string]bool),
		}, nil
	}), nil
}

// loadPrefixes reads a YAML mapping of prefix to namespace into ns.
func loadPrefixes(path string, ns *ir.Namespaces) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var m map[string]string
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("parse prefixes: %w", err)
	}
	for prefix, namespace := range m {
		ns.Set(prefix, namespace)
	}
	return nil
}

// prefixer declares a prefix downstream the first time a quad uses a
// namespace with a known prefix.
type prefixer struct {
	processor.Forward
	known    *ir.Namespaces
	declared map[string]bool
}

func (p *prefixer) Namespace(ctx context.Context, prefix, namespace string) error {
	p.declared[namespace] = true
	return p.Forward.Namespace(ctx, prefix, namespace)
}

func (p *prefixer) declare(ctx context.Context, v ir.Value) error {
	var iri ir.IRI
	switch t := v.(type) {
	case ir.IRI:
		iri = t
	case ir.Literal:
		if t.Lang != "" || t.Datatype == vocab.XSDString {
			return nil
		}
		iri = t.Datatype
	default:
		return nil
	}
	namespace, _ := ir.SplitIRI(iri)
	if namespace == "" || p.declared[namespace] {
		return nil
	}
	prefix, ok := p.known.PrefixFor(namespace)
	if !ok {
		return nil
	}
	p.declared[namespace] = true
	return p.Forward.Namespace(ctx, prefix, namespace)
}

func (p *prefixer) Consume(ctx context.Context, q ir.Quad) error {
	for _, v := range []ir.Value{q.S, q.P, q.O, q.C} {
		if err := p.declare(ctx, v); err != nil {
			return err
		}
	}
	return p.Next.Consume(ctx, q)
}

package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Source yields the events of an input stream, returning io.EOF at the end.
// *ir.Decoder implements it.
type Source interface {
	Next() (ir.Event, error)
}

// Result summarizes a completed run.
type Result struct {
	Read     int64
	Duration time.Duration
}

// Run streams src through p into sink. On success p's handler and then sink
// are closed; on any failure both are aborted and no further output is
// produced, so a sink that commits only on Close never sees a partial run.
func Run(ctx context.Context, p Processor, src Source, sink Handler) (Result, error) {
	start := time.Now()
	var res Result

	h, err := p.Open(ctx, sink)
	if err != nil {
		sink.Abort()
		return res, err
	}

	fail := func(err error) (Result, error) {
		h.Abort()
		sink.Abort()
		res.Duration = time.Since(start)
		return res, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		ev, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}
		if ev.Namespace != nil {
			err = ForwardNamespace(ctx, h, ev.Namespace.Prefix, ev.Namespace.Namespace)
		} else {
			res.Read++
			err = h.Consume(ctx, ev.Quad)
		}
		if err != nil {
			return fail(err)
		}
	}

	if err := h.Close(ctx); err != nil {
		h.Abort()
		sink.Abort()
		res.Duration = time.Since(start)
		return res, err
	}
	if err := sink.Close(ctx); err != nil {
		res.Duration = time.Since(start)
		return res, err
	}

	res.Duration = time.Since(start)
	slog.Debug("run complete", "read", res.Read, "duration", res.Duration)
	return res, nil
}

// SliceSource replays a fixed list of quads.
type SliceSource struct {
	Quads []ir.Quad
	pos   int
}

// Next implements Source.
func (s *SliceSource) Next() (ir.Event, error) {
	if s.pos >= len(s.Quads) {
		return ir.Event{}, io.EOF
	}
	q := s.Quads[s.pos]
	s.pos++
	return ir.Event{Quad: q}, nil
}

package ir

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds a single JSONL record.
const maxLineSize = 16 << 20

// Format selects the output encoding of an Encoder.
type Format string

const (
	FormatJSONL  Format = "jsonl"
	FormatNQuads Format = "nquads"
)

// ValidFormats lists the supported output encodings.
var ValidFormats = []Format{FormatJSONL, FormatNQuads}

// record is the JSON Lines wire form. Quad records carry s/p/o (and c for
// named graphs); namespace records carry prefix/namespace.
type record struct {
	S         string `json:"s,omitempty"`
	P         string `json:"p,omitempty"`
	O         string `json:"o,omitempty"`
	C         string `json:"c,omitempty"`
	Prefix    string `json:"prefix,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// NamespaceDecl binds a prefix to a namespace IRI in a quad stream.
type NamespaceDecl struct {
	Prefix    string
	Namespace string
}

// Event is one decoded record: either a quad or a namespace declaration.
type Event struct {
	Quad      Quad
	Namespace *NamespaceDecl
}

// DecodeError reports a malformed record.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder reads JSON Lines quad records.
type Decoder struct {
	sc   *bufio.Scanner
	line int
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &Decoder{sc: sc}
}

// Next returns the next event, or io.EOF at end of input.
// Blank lines are skipped.
func (d *Decoder) Next() (Event, error) {
	for d.sc.Scan() {
		d.line++
		line := strings.TrimSpace(d.sc.Text())
		if line == "" {
			continue
		}
		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return Event{}, &DecodeError{Line: d.line, Err: err}
		}
		if rec.Prefix != "" || rec.Namespace != "" {
			return Event{Namespace: &NamespaceDecl{Prefix: rec.Prefix, Namespace: rec.Namespace}}, nil
		}
		q, err := rec.quad()
		if err != nil {
			return Event{}, &DecodeError{Line: d.line, Err: err}
		}
		return Event{Quad: q}, nil
	}
	if err := d.sc.Err(); err != nil {
		return Event{}, fmt.Errorf("read quads: %w", err)
	}
	return Event{}, io.EOF
}

func (r record) quad() (Quad, error) {
	s, err := ParseTerm(r.S)
	if err != nil {
		return Quad{}, fmt.Errorf("subject: %w", err)
	}
	p, err := ParseTerm(r.P)
	if err != nil {
		return Quad{}, fmt.Errorf("predicate: %w", err)
	}
	pi, ok := p.(IRI)
	if !ok {
		return Quad{}, fmt.Errorf("predicate must be an IRI")
	}
	o, err := ParseTerm(r.O)
	if err != nil {
		return Quad{}, fmt.Errorf("object: %w", err)
	}
	var c Value
	if r.C != "" {
		if c, err = ParseTerm(r.C); err != nil {
			return Quad{}, fmt.Errorf("context: %w", err)
		}
	}
	return NewQuad(s, pi, o, c)
}

// Encoder writes quads and namespace declarations.
// Not safe for concurrent use.
type Encoder struct {
	w      *bufio.Writer
	js     *json.Encoder
	format Format
}

// NewEncoder creates an encoder writing to w in the given format.
func NewEncoder(w io.Writer, format Format) *Encoder {
	if format == "" {
		format = FormatJSONL
	}
	bw := bufio.NewWriter(w)
	js := json.NewEncoder(bw)
	js.SetEscapeHTML(false)
	return &Encoder{w: bw, js: js, format: format}
}

// WriteQuad encodes one quad.
func (e *Encoder) WriteQuad(q Quad) error {
	if e.format == FormatNQuads {
		_, err := e.w.WriteString(q.String() + "\n")
		return err
	}
	rec := record{S: FormatTerm(q.S), P: FormatTerm(q.P), O: FormatTerm(q.O)}
	if q.C != nil {
		rec.C = FormatTerm(q.C)
	}
	return e.writeJSON(rec)
}

// WriteNamespace encodes a namespace declaration. N-Quads has no syntax
// for prefixes, so declarations become comment lines there.
func (e *Encoder) WriteNamespace(prefix, namespace string) error {
	if e.format == FormatNQuads {
		_, err := fmt.Fprintf(e.w, "# @prefix %s: <%s> .\n", prefix, escapeIRI(namespace))
		return err
	}
	return e.writeJSON(record{Prefix: prefix, Namespace: namespace})
}

func (e *Encoder) writeJSON(rec record) error {
	return e.js.Encode(rec)
}

// Flush writes any buffered output.
func (e *Encoder) Flush() error {
	return e.w.Flush()
}

// ReadQuadsFile loads every quad of a JSONL file. Namespace records are
// ignored.
func ReadQuadsFile(path string) ([]Quad, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var quads []Quad
	dec := NewDecoder(f)
	for {
		ev, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return quads, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if ev.Namespace == nil {
			quads = append(quads, ev.Quad)
		}
	}
}

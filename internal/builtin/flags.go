package builtin

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
)

func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parse parses the arguments of processor name, returning the positional
// arguments.
func parse(name string, fs *pflag.FlagSet, args []string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, &processor.ArgumentError{Processor: name, Err: err}
	}
	return fs.Args(), nil
}

func argError(name string, format string, args ...any) error {
	return &processor.ArgumentError{Processor: name, Err: fmt.Errorf(format, args...)}
}

// parseResource reads an IRI or blank node given as <iri>, prefix:local,
// _:label or a bare absolute IRI.
func parseResource(text string, ns *ir.Namespaces) (ir.Value, error) {
	if !strings.HasPrefix(text, "<") && !strings.HasPrefix(text, "_:") {
		if iri, ok := ns.Expand(text); ok {
			return iri, nil
		}
		if strings.Contains(text, ":") {
			return ir.IRI(text), nil
		}
	}
	v, err := ir.ParseTermNS(text, ns)
	if err != nil {
		return nil, err
	}
	if !ir.IsResource(v) {
		return nil, fmt.Errorf("%s is not an IRI or blank node", text)
	}
	return v, nil
}

func parseIRI(text string, ns *ir.Namespaces) (ir.IRI, error) {
	v, err := parseResource(text, ns)
	if err != nil {
		return "", err
	}
	iri, ok := v.(ir.IRI)
	if !ok {
		return "", fmt.Errorf("%s is not an IRI", text)
	}
	return iri, nil
}

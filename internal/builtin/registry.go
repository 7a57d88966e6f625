// Package builtin registers the named processors and builds processor
// trees from parsed pipeline expressions.
package builtin

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/spill"
)

// Env carries run-wide settings into processor factories.
type Env struct {
	// Spill configures the temp storage of buffering processors.
	Spill spill.Options

	// Workers is the default parallelism of the rule engine.
	Workers int

	// Namespaces resolves prefixed names in arguments. Nil means the
	// default vocabulary prefixes.
	Namespaces *ir.Namespaces

	// BranchBuffer is the channel capacity of parallel branches.
	BranchBuffer int

	Logger *slog.Logger
}

func (e Env) withDefaults() Env {
	if e.Namespaces == nil {
		e.Namespaces = ir.DefaultNamespaces()
	}
	if e.Workers < 1 {
		e.Workers = 1
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	if e.Spill.Logger == nil {
		e.Spill.Logger = e.Logger
	}
	return e
}

// Factory builds a processor from its command-line arguments.
type Factory func(ctx context.Context, args []string, env Env) (processor.Processor, error)

// Spec describes a registered processor.
type Spec struct {
	Name    string
	Aliases []string
	Usage   string
	Summary string
	Factory Factory
}

// Registry maps processor names to factories. Names are case-insensitive.
type Registry struct {
	specs map[string]*Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// Register adds spec under its name and aliases, replacing earlier entries.
func (r *Registry) Register(spec Spec) {
	s := &spec
	r.specs[strings.ToLower(spec.Name)] = s
	for _, alias := range spec.Aliases {
		r.specs[strings.ToLower(alias)] = s
	}
}

// Has implements pipeline.Registry.
func (r *Registry) Has(name string) bool {
	_, ok := r.specs[strings.ToLower(name)]
	return ok
}

// Lookup returns the spec registered under name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[strings.ToLower(name)]
	if !ok {
		return Spec{}, false
	}
	return *s, true
}

// Specs returns every registered processor once, sorted by name.
func (r *Registry) Specs() []Spec {
	seen := make(map[*Spec]bool)
	var out []Spec
	for _, s := range r.specs {
		if !seen[s] {
			seen[s] = true
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns a registry holding every built-in processor.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Spec{Name: "nop", Usage: "@nop", Summary: "pass quads through unchanged", Factory: newNop})
	r.Register(Spec{Name: "count", Usage: "@count [-l label] [-i interval]", Summary: "count quads and log throughput", Factory: newCount})
	r.Register(Spec{Name: "prefix", Usage: "@prefix [-f prefixes.yaml]", Summary: "declare prefixes for namespaces in use", Factory: newPrefix})
	r.Register(Spec{
		Name:    "rules",
		Usage:   "@rules [-r rulesets] [-B var=value] [-p none|entity|graph|rules] [-g none|global|separate|star] [-G iri] [-t] [-C iri | -c] [-u] [-w workers] [TBOX...]",
		Summary: "compute the closure of a ruleset",
		Factory: newRules,
	})
	r.Register(Spec{
		Name:    "rdfs",
		Usage:   "@rdfs [-e rule,...] [-d] [-t] [-C iri | -c] [TBOX...]",
		Summary: "compute the RDFS closure",
		Factory: newRDFS,
	})
	r.Register(Spec{Name: "smush", Usage: "@smush [NAMESPACE...]", Summary: "replace owl:sameAs aliases with one representative", Factory: newSmush})
	r.Register(Spec{Name: "unique", Usage: "@unique [-m]", Summary: "remove duplicates, optionally merging contexts", Factory: newUnique})
	r.Register(Spec{Name: "stats", Usage: "@stats [-n namespace] [-p property] [-c graph] [-t threshold] [-o]", Summary: "emit VOID statistics instead of the input", Factory: newStats})
	r.Register(Spec{Name: "tbox", Usage: "@tbox", Summary: "keep schema statements only", Factory: newTBox})
	r.Register(Spec{Name: "transform", Usage: "@transform [-s] RULES...", Summary: "filter, replace and cast quad components", Factory: newTransform})
	r.Register(Spec{
		Name:    "script",
		Aliases: []string{"groovy"},
		Usage:   "@script [-n instances] FILE",
		Summary: "run a Go script over every quad",
		Factory: newScript,
	})
	return r
}

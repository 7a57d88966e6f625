package builtin

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/pflag"

	"github.com/roach88/rdfpipe/internal/ir"
	"github.com/roach88/rdfpipe/internal/pipeline"
	"github.com/roach88/rdfpipe/internal/processor"
	"github.com/roach88/rdfpipe/internal/rules"
	"github.com/roach88/rdfpipe/internal/script"
	"github.com/roach88/rdfpipe/internal/smush"
	"github.com/roach88/rdfpipe/internal/stats"
	"github.com/roach88/rdfpipe/internal/tbox"
	"github.com/roach88/rdfpipe/internal/transform"
	"github.com/roach88/rdfpipe/internal/unique"
)

// closureFlags are the flags shared by @rules and @rdfs.
type closureFlags struct {
	dropBNodeTypes bool
	emitInto       string
	emitDefault    bool
}

func (c *closureFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.dropBNodeTypes, "drop-bnode-types", "t", false, "drop inferred rdf:type statements about blank nodes")
	fs.StringVarP(&c.emitInto, "emit-tbox", "C", "", "emit the closed background data into this graph")
	fs.BoolVarP(&c.emitDefault, "emit-tbox-default", "c", false, "emit the closed background data into the default graph")
}

// apply copies the flags into opts and loads the background files.
func (c *closureFlags) apply(name string, opts *rules.Options, files []string, env Env) error {
	opts.DropBNodeTypes = c.dropBNodeTypes
	switch {
	case c.emitInto != "" && c.emitDefault:
		return argError(name, "-C and -c are mutually exclusive")
	case c.emitInto != "":
		g, err := parseResource(c.emitInto, env.Namespaces)
		if err != nil {
			return argError(name, "-C: %v", err)
		}
		opts.EmitBackground, opts.BackgroundGraph = true, g
	case c.emitDefault:
		opts.EmitBackground = true
	}
	for _, path := range files {
		quads, err := ir.ReadQuadsFile(path)
		if err != nil {
			return &processor.ResourceError{Resource: path, Err: err}
		}
		opts.Background = append(opts.Background, quads...)
	}
	return nil
}

func newRules(ctx context.Context, args []string, env Env) (processor.Processor, error) {
	opts, err := rulesOptions(args, env)
	if err != nil {
		return nil, err
	}
	return newClosure(ctx, opts)
}

func rulesOptions(args []string, env Env) (rules.Options, error) {
	fs := newFlags("rules")
	sets := fs.StringSliceP("rulesets", "r", []string{"rdfs"}, "rulesets to apply, built-in names or .cue files")
	bindings := fs.StringArrayP("bind", "B", nil, "bind a rule variable, var=value")
	partitioning := fs.StringP("partitioning", "p", "none", "none, entity, graph or rules")
	graphMode := fs.StringP("graph-mode", "g", "none", "none, global, separate or star")
	global := fs.StringP("global-graph", "G", "", "graph of inferred quads in global mode")
	dedup := fs.BoolP("unique", "u", false, "deduplicate the input")
	workers := fs.IntP("workers", "w", env.Workers, "partitions closed concurrently")
	var shared closureFlags
	shared.register(fs)
	files, err := parse("rules", fs, args)
	if err != nil {
		return rules.Options{}, err
	}

	rs, err := rules.Load(*sets...)
	if err != nil {
		return rules.Options{}, err
	}
	if len(*bindings) > 0 {
		bound := make(map[string]ir.Value, len(*bindings))
		for _, b := range *bindings {
			name, v, err := rules.ParseBinding(b, env.Namespaces)
			if err != nil {
				return rules.Options{}, argError("rules", "%v", err)
			}
			bound[name] = v
		}
		rs = rs.Bind(bound)
	}

	opts := rules.Options{
		Rules:       rs,
		Deduplicate: *dedup,
		Workers:     *workers,
		Spill:       env.Spill,
		Logger:      env.Logger,
	}
	if opts.Partitioning, err = rules.ParsePartitioning(*partitioning); err != nil {
		return rules.Options{}, argError("rules", "%v", err)
	}
	if opts.GraphMode, err = rules.ParseGraphMode(*graphMode); err != nil {
		return rules.Options{}, argError("rules", "%v", err)
	}
	if *global != "" {
		if opts.GlobalGraph, err = parseResource(*global, env.Namespaces); err != nil {
			return rules.Options{}, argError("rules", "-G: %v", err)
		}
	}
	if err := shared.apply("rules", &opts, files, env); err != nil {
		return rules.Options{}, err
	}
	return opts, nil
}

func newClosure(ctx context.Context, opts rules.Options) (processor.Processor, error) {
	c, err := rules.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func newRDFS(ctx context.Context, args []string, env Env) (processor.Processor, error) {
	opts, err := rdfsOptions(args, env)
	if err != nil {
		return nil, err
	}
	return newClosure(ctx, opts)
}

func rdfsOptions(args []string, env Env) (rules.Options, error) {
	fs := newFlags("rdfs")
	exclude := fs.StringSliceP("exclude", "e", nil, "rule IDs to leave out")
	decompose := fs.BoolP("decompose", "d", false, "add OWL to RDFS decomposition rules")
	var shared closureFlags
	shared.register(fs)
	files, err := parse("rdfs", fs, args)
	if err != nil {
		return rules.Options{}, err
	}

	rs, err := rules.RDFS(*decompose, *exclude...)
	if err != nil {
		return rules.Options{}, err
	}
	opts := rules.Options{
		Rules:     rs,
		GraphMode: rules.GraphStar,
		Workers:   env.Workers,
		Spill:     env.Spill,
		Logger:    env.Logger,
	}
	if err := shared.apply("rdfs", &opts, files, env); err != nil {
		return rules.Options{}, err
	}
	return opts, nil
}

// RuleSet returns the ruleset a @rules or @rdfs call would apply, or nil
// for other processors.
func RuleSet(call *pipeline.Call, env Env) (*rules.RuleSet, error) {
	env = env.withDefaults()
	var opts rules.Options
	var err error
	switch call.Name {
	case "rules":
		opts, err = rulesOptions(call.Args, env)
	case "rdfs":
		opts, err = rdfsOptions(call.Args, env)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return opts.Rules, nil
}

func newSmush(_ context.Context, args []string, env Env) (processor.Processor, error) {
	namespaces := make([]string, 0, len(args))
	for _, a := range args {
		if strings.HasPrefix(a, "-") {
			return nil, argError("smush", "unknown flag %s", a)
		}
		ns := strings.TrimSuffix(strings.TrimPrefix(a, "<"), ">")
		if prefix, ok := strings.CutSuffix(ns, ":"); ok {
			if expanded, found := env.Namespaces.Lookup(prefix); found {
				ns = expanded
			}
		}
		namespaces = append(namespaces, ns)
	}
	return smush.New(smush.Options{Namespaces: namespaces, Spill: env.Spill, Logger: env.Logger}), nil
}

func newUnique(_ context.Context, args []string, env Env) (processor.Processor, error) {
	fs := newFlags("unique")
	merge := fs.BoolP("merge", "m", false, "merge copies that differ only in context")
	rest, err := parse("unique", fs, args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, argError("unique", "unexpected arguments %q", rest)
	}
	return unique.New(unique.Options{Merge: *merge, Spill: env.Spill, Logger: env.Logger}), nil
}

func newStats(_ context.Context, args []string, env Env) (processor.Processor, error) {
	fs := newFlags("stats")
	namespace := fs.StringP("namespace", "n", stats.DefaultNamespace, "namespace of minted dataset IRIs")
	property := fs.StringP("source-property", "p", "", "property linking graphs to their source")
	graph := fs.StringP("source-graph", "c", "", "graph holding the source statements")
	threshold := fs.Int64P("threshold", "t", 0, "minimum triples of a reported subset")
	partitions := fs.BoolP("partitions", "o", false, "add class and property partitions")
	rest, err := parse("stats", fs, args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, argError("stats", "unexpected arguments %q", rest)
	}

	opts := stats.Options{
		Namespace:  *namespace,
		Threshold:  *threshold,
		Partitions: *partitions,
		Spill:      env.Spill,
		Logger:     env.Logger,
	}
	if *property != "" {
		if opts.SourceProperty, err = parseIRI(*property, env.Namespaces); err != nil {
			return nil, argError("stats", "-p: %v", err)
		}
	}
	if *graph != "" {
		if opts.SourceGraph, err = parseResource(*graph, env.Namespaces); err != nil {
			return nil, argError("stats", "-c: %v", err)
		}
	}
	return stats.New(opts), nil
}

func newTBox(_ context.Context, args []string, _ Env) (processor.Processor, error) {
	if len(args) > 0 {
		return nil, argError("tbox", "unexpected arguments %q", args)
	}
	return tbox.New(), nil
}

// newTransform takes its rules verbatim: they start with - and + and would
// otherwise be read as flags.
func newTransform(_ context.Context, args []string, env Env) (processor.Processor, error) {
	skip := false
	if len(args) > 0 && args[0] == "-s" {
		skip, args = true, args[1:]
	}
	if len(args) == 0 {
		return nil, argError("transform", "no rules given")
	}
	r, err := transform.Parse(args, env.Namespaces)
	if err != nil {
		return nil, argError("transform", "%v", err)
	}
	return transform.New(r, transform.Options{Skip: skip, Logger: env.Logger}), nil
}

func newScript(_ context.Context, args []string, env Env) (processor.Processor, error) {
	fs := newFlags("script")
	instances := fs.IntP("instances", "n", 0, "interpreters run concurrently (default GOMAXPROCS)")
	rest, err := parse("script", fs, args)
	if err != nil {
		return nil, err
	}
	if len(rest) != 1 {
		return nil, argError("script", "expected one script file, got %d", len(rest))
	}
	s, err := script.Load(rest[0])
	if err != nil {
		var scriptErr *script.Error
		if errors.As(err, &scriptErr) {
			return nil, err
		}
		return nil, &processor.ResourceError{Resource: rest[0], Err: err}
	}
	return script.New(s, script.Options{Instances: *instances, Logger: env.Logger}), nil
}

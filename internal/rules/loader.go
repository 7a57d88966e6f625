package rules

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"

	"github.com/roach88/rdfpipe/internal/ir"
)

//go:embed rulesets/*.cue
var builtinFS embed.FS

// Builtins lists the names of the embedded rulesets.
func Builtins() []string {
	entries, _ := builtinFS.ReadDir("rulesets")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".cue"))
	}
	sort.Strings(names)
	return names
}

// Load resolves each name to an embedded ruleset or a .cue file path,
// compiles it, and returns the merged, safety-checked result.
func Load(names ...string) (*RuleSet, error) {
	if len(names) == 0 {
		return nil, &RuleParseError{Ruleset: "rules", Message: "no ruleset given"}
	}
	sets := make([]*RuleSet, 0, len(names))
	for _, name := range names {
		rs, err := loadOne(name)
		if err != nil {
			return nil, err
		}
		sets = append(sets, rs)
	}
	return Merge(sets...), nil
}

func loadOne(name string) (*RuleSet, error) {
	if data, err := builtinFS.ReadFile("rulesets/" + name + ".cue"); err == nil {
		return Compile(name, data)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read ruleset %q: %w", name, err)
	}
	return Compile(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), data)
}

// Compile parses a CUE ruleset document and checks its safety.
func Compile(name string, src []byte) (*RuleSet, error) {
	v := cuecontext.New().CompileBytes(src, cue.Filename(name+".cue"))
	rs, err := CompileValue(name, v)
	if err != nil {
		return nil, err
	}
	if err := rs.CheckSafety(); err != nil {
		return nil, err
	}
	return rs, nil
}

// CompileValue parses an already-built CUE value into a RuleSet. Rules are
// ordered by ID. No safety check is done.
func CompileValue(name string, v cue.Value) (*RuleSet, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(name, err)
	}

	ns := ir.DefaultNamespaces()
	if pv := v.LookupPath(cue.ParsePath("prefixes")); pv.Exists() {
		iter, err := pv.Fields()
		if err != nil {
			return nil, formatCUEError(name, err)
		}
		for iter.Next() {
			uri, err := iter.Value().String()
			if err != nil {
				return nil, &RuleParseError{
					Ruleset: name,
					Message: fmt.Sprintf("prefix %q must map to a namespace string", iter.Label()),
					Pos:     iter.Value().Pos(),
				}
			}
			ns.Set(iter.Label(), uri)
		}
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if !rulesVal.Exists() {
		return nil, &RuleParseError{Ruleset: name, Message: "rules is required", Pos: v.Pos()}
	}
	iter, err := rulesVal.Fields()
	if err != nil {
		return nil, formatCUEError(name, err)
	}

	rs := &RuleSet{Name: name}
	for iter.Next() {
		r, err := compileRule(name, iter.Label(), iter.Value(), ns)
		if err != nil {
			return nil, err
		}
		rs.Rules = append(rs.Rules, r)
	}
	sort.Slice(rs.Rules, func(i, j int) bool { return rs.Rules[i].ID < rs.Rules[j].ID })
	return rs, nil
}

func compileRule(ruleset, id string, v cue.Value, ns *ir.Namespaces) (Rule, error) {
	r := Rule{ID: id}
	var err error
	if r.Body, err = compilePatterns(ruleset, id, "body", v, ns, false); err != nil {
		return r, err
	}
	if r.Head, err = compilePatterns(ruleset, id, "head", v, ns, true); err != nil {
		return r, err
	}
	return r, nil
}

func compilePatterns(ruleset, id, field string, v cue.Value, ns *ir.Namespaces, required bool) ([]Pattern, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		if required {
			return nil, &RuleParseError{Ruleset: ruleset, Rule: id, Message: field + " is required", Pos: v.Pos()}
		}
		return nil, nil
	}
	list, err := fv.List()
	if err != nil {
		return nil, &RuleParseError{Ruleset: ruleset, Rule: id, Message: field + " must be a list of patterns", Pos: fv.Pos()}
	}
	var out []Pattern
	for list.Next() {
		text, err := list.Value().String()
		if err != nil {
			return nil, &RuleParseError{Ruleset: ruleset, Rule: id, Message: field + " patterns must be strings", Pos: list.Value().Pos()}
		}
		p, err := ParsePattern(text, ns)
		if err != nil {
			return nil, &RuleParseError{Ruleset: ruleset, Rule: id, Message: err.Error(), Pos: list.Value().Pos()}
		}
		out = append(out, p)
	}
	if required && len(out) == 0 {
		return nil, &RuleParseError{Ruleset: ruleset, Rule: id, Message: field + " must not be empty", Pos: fv.Pos()}
	}
	return out, nil
}

// ParsePattern parses "S P O" where each position is a ?variable or a term
// in the syntax accepted by ir.ParseTermNS.
func ParsePattern(text string, ns *ir.Namespaces) (Pattern, error) {
	fields, err := splitTerms(text)
	if err != nil {
		return Pattern{}, err
	}
	if len(fields) != 3 {
		return Pattern{}, fmt.Errorf("pattern %q: expected 3 terms, found %d", text, len(fields))
	}
	var terms [3]Term
	for i, f := range fields {
		if strings.HasPrefix(f, "?") {
			if len(f) == 1 {
				return Pattern{}, fmt.Errorf("pattern %q: empty variable name", text)
			}
			terms[i] = Term{Var: f[1:]}
			continue
		}
		c, err := ir.ParseTermNS(f, ns)
		if err != nil {
			return Pattern{}, fmt.Errorf("pattern %q: %w", text, err)
		}
		terms[i] = Term{Const: c}
	}
	if !terms[1].IsVar() && !ir.IsIRI(terms[1].Const) {
		return Pattern{}, fmt.Errorf("pattern %q: predicate must be an IRI or a variable", text)
	}
	if !terms[0].IsVar() && !ir.IsResource(terms[0].Const) {
		return Pattern{}, fmt.Errorf("pattern %q: subject must be a resource or a variable", text)
	}
	return Pattern{S: terms[0], P: terms[1], O: terms[2]}, nil
}

// splitTerms splits on whitespace outside quotes and angle brackets.
func splitTerms(text string) ([]string, error) {
	var (
		fields []string
		cur    strings.Builder
		quote  byte
		angle  bool
	)
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			cur.WriteByte(c)
			if c == '\\' && i+1 < len(text) {
				i++
				cur.WriteByte(text[i])
			} else if c == quote {
				quote = 0
			}
		case angle:
			cur.WriteByte(c)
			if c == '>' {
				angle = false
			}
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == '<':
			angle = true
			cur.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	if quote != 0 || angle {
		return nil, fmt.Errorf("pattern %q: unterminated term", text)
	}
	flush()
	return fields, nil
}

// ParseBinding parses "var=term" as given to -B.
func ParseBinding(s string, ns *ir.Namespaces) (string, ir.Value, error) {
	name, text, ok := strings.Cut(s, "=")
	name = strings.TrimPrefix(strings.TrimSpace(name), "?")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("binding %q: expected var=value", s)
	}
	v, err := ir.ParseTermNS(strings.TrimSpace(text), ns)
	if err != nil {
		return "", nil, fmt.Errorf("binding %q: %w", s, err)
	}
	return name, v, nil
}

func formatCUEError(ruleset string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &RuleParseError{Ruleset: ruleset, Message: err.Error()}
	}
	first := errs[0]
	pe := &RuleParseError{Ruleset: ruleset, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		pe.Pos = positions[0]
	}
	return pe
}

// RDFS returns the RDFS entailment ruleset, plus the OWL decomposition
// rules when decompose is set, minus the excluded rule IDs.
func RDFS(decompose bool, exclude ...string) (*RuleSet, error) {
	names := []string{"rdfs"}
	if decompose {
		names = append(names, "owl2rdfs")
	}
	rs, err := Load(names...)
	if err != nil {
		return nil, err
	}
	for _, id := range exclude {
		if !rs.has(id) {
			return nil, &RuleParseError{Ruleset: rs.Name, Rule: id, Message: "no such rule to exclude"}
		}
	}
	return rs.Without(exclude...), nil
}

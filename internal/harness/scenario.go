package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rdfpipe/internal/ir"
)

// Scenario defines a pipeline test scenario: a pipeline expression, the
// quads fed to it, and assertions over what comes out.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pipeline is the expression under test. "${dir}" expands to the
	// directory of the scenario file, for background data paths.
	Pipeline string `yaml:"pipeline"`

	// Prefixes are added to the default prefix table for the terms of
	// this file and for the pipeline's arguments.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`

	// Input lists the quads fed to the pipeline, each as three or four
	// terms: subject, predicate, object and an optional graph.
	Input []QuadSpec `yaml:"input"`

	// SpillThreshold bounds in-memory tables; small values force spilling.
	SpillThreshold int `yaml:"spill_threshold,omitempty"`

	// ExpectError names the error kind the run must fail with, e.g.
	// "unknown_processor" or "runtime". Empty means the run must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`

	// Golden compares the sorted output against testdata/golden/{name}.golden.
	Golden bool `yaml:"golden,omitempty"`

	// Assertions validate the output stream.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Dir is the directory the scenario was loaded from.
	Dir string `yaml:"-"`
}

// QuadSpec is a quad written as a list of terms.
type QuadSpec []string

// Assertion validates the output stream.
type Assertion struct {
	// Type is one of contains, excludes, count, multiplicity, namespace.
	Type string `yaml:"type"`

	// Quad is the quad looked for (contains, excludes, multiplicity).
	Quad QuadSpec `yaml:"quad,omitempty"`

	// Count is the expected number of output quads (count) or copies of
	// Quad (multiplicity).
	Count int `yaml:"count,omitempty"`

	// Prefix and Namespace name an expected declaration (namespace).
	Prefix    string `yaml:"prefix,omitempty"`
	Namespace string `yaml:"namespace,omitempty"`
}

// Assertion type constants.
const (
	AssertContains     = "contains"
	AssertExcludes     = "excludes"
	AssertCount        = "count"
	AssertMultiplicity = "multiplicity"
	AssertNamespace    = "namespace"
)

// Error kinds accepted by expect_error.
var errorKinds = []string{
	KindSyntax, KindUnknownProcessor, KindUnknownCombinator, KindArguments,
	KindRuleParse, KindUnsafeRule, KindResource, KindScript, KindRuntime,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.Dir = filepath.Dir(path)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// Namespaces returns the prefix table of the scenario.
func (s *Scenario) Namespaces() *ir.Namespaces {
	ns := ir.DefaultNamespaces()
	for prefix, iri := range s.Prefixes {
		ns.Set(prefix, iri)
	}
	return ns
}

// Expression returns the pipeline with ${dir} expanded.
func (s *Scenario) Expression() string {
	return os.Expand(s.Pipeline, func(key string) string {
		if key == "dir" {
			return s.Dir
		}
		return "${" + key + "}"
	})
}

// Quad parses q against ns.
func (q QuadSpec) Quad(ns *ir.Namespaces) (ir.Quad, error) {
	if len(q) != 3 && len(q) != 4 {
		return ir.Quad{}, fmt.Errorf("quad needs 3 or 4 terms, got %d", len(q))
	}
	terms := make([]ir.Value, 4)
	for i, text := range q {
		v, err := ir.ParseTermNS(text, ns)
		if err != nil {
			return ir.Quad{}, err
		}
		terms[i] = v
	}
	p, ok := terms[1].(ir.IRI)
	if !ok {
		return ir.Quad{}, fmt.Errorf("predicate %s is not an IRI", q[1])
	}
	return ir.NewQuad(terms[0], p, terms[2], terms[3])
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Pipeline == "" {
		return fmt.Errorf("pipeline is required")
	}

	if s.ExpectError != "" {
		if !slices.Contains(errorKinds, s.ExpectError) {
			return fmt.Errorf("expect_error: unknown error kind %q", s.ExpectError)
		}
		if s.Golden || len(s.Assertions) > 0 {
			return fmt.Errorf("expect_error cannot be combined with golden or assertions")
		}
	} else if !s.Golden && len(s.Assertions) == 0 {
		return fmt.Errorf("a scenario needs assertions, golden: true or expect_error")
	}

	ns := s.Namespaces()
	for i, q := range s.Input {
		if _, err := q.Quad(ns); err != nil {
			return fmt.Errorf("input[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, ns); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, ns *ir.Namespaces) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertExcludes, AssertMultiplicity:
		if a.Quad == nil {
			return fmt.Errorf("assertions[%d]: quad is required for %s", index, a.Type)
		}
		if _, err := a.Quad.Quad(ns); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for count", index)
		}
	case AssertNamespace:
		if a.Prefix == "" || a.Namespace == "" {
			return fmt.Errorf("assertions[%d]: prefix and namespace are required for namespace", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

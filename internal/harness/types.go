package harness

import "github.com/roach88/rdfpipe/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Output holds the quads the pipeline emitted, in emission order.
	Output []ir.Quad `json:"-"`

	// Namespaces holds the declarations the pipeline emitted.
	Namespaces []ir.NamespaceDecl `json:"namespaces,omitempty"`

	// Read is the number of input quads consumed.
	Read int64 `json:"read"`

	// Err is the pipeline failure, if any. A failure matching the
	// scenario's expect_error still passes.
	Err error `json:"-"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Multiplicity counts the copies of q in the output.
func (r *Result) Multiplicity(q ir.Quad) int {
	n := 0
	for _, o := range r.Output {
		if o == q {
			n++
		}
	}
	return n
}

package harness

import (
	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/recommend"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions match.
	Pass bool `json:"pass"`

	// Intent is the parsed scenario intent.
	Intent ir.Intent `json:"intent"`

	// Visualizations is the build output in build mode, or the current
	// visualization in recommend mode.
	Visualizations ir.Collection `json:"visualizations"`

	// Actions holds the recommendation results in recommend mode.
	Actions []recommend.ActionResult `json:"actions,omitempty"`

	// Warnings are the compiler or engine warnings.
	Warnings []string `json:"warnings,omitempty"`

	// RunError is the message of the error the run failed with, if any.
	// A run error fails the scenario unless an error assertion expects it.
	RunError string `json:"run_error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:           true,
		Visualizations: ir.Collection{},
		Errors:         []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Collection returns the visualizations of the named action, or the main
// visualizations when action is empty.
func (r *Result) Collection(action string) (ir.Collection, bool) {
	if action == "" {
		return r.Visualizations, true
	}
	for _, a := range r.Actions {
		if a.Action == action {
			return a.Collection, true
		}
	}
	return nil, false
}

// ActionNames returns the recommendation action names in order.
func (r *Result) ActionNames() []string {
	out := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		out[i] = a.Action
	}
	return out
}

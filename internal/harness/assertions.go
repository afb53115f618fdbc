package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/vislens/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string        // Assertion type for categorization
	Expected string        // Human-readable expected outcome
	Actual   string        // Human-readable actual outcome
	Vis      ir.Collection // Collection the assertion ran against
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Vis) > 0 {
		fmt.Fprintf(&buf, "\nVisualizations:\n")
		for i, vis := range e.Vis {
			fmt.Fprintf(&buf, "  [%d] %s %s\n", i+1, vis.Mark, ir.Intent(vis.Intent))
		}
	}

	return buf.String()
}

// collectionFor resolves the collection an assertion runs against.
func collectionFor(result *Result, a Assertion) (ir.Collection, error) {
	coll, ok := result.Collection(a.Action)
	if !ok {
		return nil, &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("results for action %s", a.Action),
			Actual:   fmt.Sprintf("actions %v", result.ActionNames()),
		}
	}
	return coll, nil
}

// assertCount checks the number of visualizations.
func assertCount(coll ir.Collection, a Assertion) error {
	if len(coll) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertCount,
		Expected: fmt.Sprintf("%d visualizations%s", a.Count, actionSuffix(a)),
		Actual:   fmt.Sprintf("%d visualizations", len(coll)),
		Vis:      coll,
	}
}

// assertMarks checks the ordered marks.
func assertMarks(coll ir.Collection, a Assertion) error {
	got := make([]string, len(coll))
	for i, vis := range coll {
		got[i] = string(vis.Mark)
	}
	if slices.Equal(got, a.Marks) {
		return nil
	}
	return &AssertionError{
		Type:     AssertMarks,
		Expected: fmt.Sprintf("marks %v%s", a.Marks, actionSuffix(a)),
		Actual:   fmt.Sprintf("marks %v", got),
		Vis:      coll,
	}
}

// assertTitles checks the ordered titles.
func assertTitles(coll ir.Collection, a Assertion) error {
	got := coll.Titles()
	if slices.Equal(got, a.Titles) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTitles,
		Expected: fmt.Sprintf("titles %q%s", a.Titles, actionSuffix(a)),
		Actual:   fmt.Sprintf("titles %q", got),
		Vis:      coll,
	}
}

// assertChannel checks that every visualization encodes Attribute on
// Channel. An empty collection fails.
func assertChannel(coll ir.Collection, a Assertion) error {
	if len(coll) == 0 {
		return &AssertionError{
			Type:     AssertChannel,
			Expected: fmt.Sprintf("%s on %s%s", a.Attribute, a.Channel, actionSuffix(a)),
			Actual:   "no visualizations",
		}
	}
	for i, vis := range coll {
		var got []string
		for _, cl := range vis.AttrsByChannel(ir.Channel(a.Channel)) {
			got = append(got, cl.AttributeName())
		}
		if !slices.Contains(got, a.Attribute) {
			return &AssertionError{
				Type:     AssertChannel,
				Expected: fmt.Sprintf("%s on %s%s", a.Attribute, a.Channel, actionSuffix(a)),
				Actual:   fmt.Sprintf("visualization %d has %v on %s", i+1, got, a.Channel),
				Vis:      coll,
			}
		}
	}
	return nil
}

// assertContains checks that some visualization shows exactly the given
// attributes (Record excluded, order ignored), and the given mark if set.
func assertContains(coll ir.Collection, a Assertion) error {
	want := slices.Sorted(slices.Values(a.Attributes))
	for _, vis := range coll {
		got := slices.Sorted(slices.Values(vis.AttributeNames()))
		if !slices.Equal(got, want) {
			continue
		}
		if a.Mark != "" && string(vis.Mark) != a.Mark {
			continue
		}
		return nil
	}

	expected := fmt.Sprintf("visualization of %v", a.Attributes)
	if a.Mark != "" {
		expected += " as " + a.Mark
	}
	return &AssertionError{
		Type:     AssertContains,
		Expected: expected + actionSuffix(a),
		Actual:   "not found",
		Vis:      coll,
	}
}

// assertWarning checks that some warning contains the substring.
func assertWarning(warnings []string, a Assertion) error {
	for _, w := range warnings {
		if strings.Contains(w, a.Contains) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertWarning,
		Expected: fmt.Sprintf("warning containing %q", a.Contains),
		Actual:   fmt.Sprintf("warnings %q", warnings),
	}
}

// assertError checks that the run failed with a matching error.
func assertError(runErr string, a Assertion) error {
	if runErr != "" && strings.Contains(runErr, a.Contains) {
		return nil
	}
	actual := "run succeeded"
	if runErr != "" {
		actual = fmt.Sprintf("error %q", runErr)
	}
	return &AssertionError{
		Type:     AssertError,
		Expected: fmt.Sprintf("error containing %q", a.Contains),
		Actual:   actual,
	}
}

// assertActions checks the recommendation action order.
func assertActions(result *Result, a Assertion) error {
	got := result.ActionNames()
	if slices.Equal(got, a.Actions) {
		return nil
	}
	return &AssertionError{
		Type:     AssertActions,
		Expected: fmt.Sprintf("actions %v", a.Actions),
		Actual:   fmt.Sprintf("actions %v", got),
	}
}

func actionSuffix(a Assertion) string {
	if a.Action == "" {
		return ""
	}
	return " in " + a.Action
}

// expectsError reports whether any assertion is of type error.
func expectsError(assertions []Assertion) bool {
	for _, a := range assertions {
		if a.Type == AssertError {
			return true
		}
	}
	return false
}

// EvaluateAssertions runs all assertions against a test result.
// Returns a list of error messages for failed assertions.
// Empty list means all assertions passed.
//
// A run error that no error assertion expects is reported first.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	if result.RunError != "" && !expectsError(assertions) {
		errors = append(errors, fmt.Sprintf("run failed: %s", result.RunError))
	}

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertCount, AssertMarks, AssertTitles, AssertChannel, AssertContains:
			var coll ir.Collection
			coll, err = collectionFor(result, assertion)
			if err != nil {
				break
			}
			switch assertion.Type {
			case AssertCount:
				err = assertCount(coll, assertion)
			case AssertMarks:
				err = assertMarks(coll, assertion)
			case AssertTitles:
				err = assertTitles(coll, assertion)
			case AssertChannel:
				err = assertChannel(coll, assertion)
			case AssertContains:
				err = assertContains(coll, assertion)
			}
		case AssertWarning:
			err = assertWarning(result.Warnings, assertion)
		case AssertError:
			err = assertError(result.RunError, assertion)
		case AssertActions:
			err = assertActions(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/recommend"
)

// Snapshot captures the observable output of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
// Visualization IDs are left out; clause strings identify them.
type Snapshot struct {
	ScenarioName   string
	Intent         ir.Intent
	Visualizations ir.Collection
	Actions        []recommend.ActionResult
	Warnings       []string
	Error          string
}

// newSnapshot builds a snapshot from a scenario result.
func newSnapshot(name string, result *Result) Snapshot {
	return Snapshot{
		ScenarioName:   name,
		Intent:         result.Intent,
		Visualizations: result.Visualizations,
		Actions:        result.Actions,
		Warnings:       result.Warnings,
		Error:          result.RunError,
	}
}

// describeClause renders a resolved clause with its derived properties,
// e.g. "Record@y agg=count" or "brand@x sort=ascending".
func describeClause(cl ir.Clause) string {
	s := cl.String()
	if cl.Aggregation != ir.AggNone {
		s += " agg=" + string(cl.Aggregation)
	}
	if cl.Sort != ir.SortNone {
		s += " sort=" + string(cl.Sort)
	}
	return s
}

func collectionList(coll ir.Collection) []any {
	out := make([]any, len(coll))
	for i, vis := range coll {
		clauses := make([]any, len(vis.Intent))
		for j, cl := range vis.Intent {
			clauses[j] = describeClause(cl)
		}
		m := map[string]any{
			"mark":    string(vis.Mark),
			"clauses": clauses,
		}
		if vis.Title != "" {
			m["title"] = vis.Title
		}
		out[i] = m
	}
	return out
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON serialization.
// This is required because ir.MarshalCanonical only handles primitives, slices and maps.
func (s *Snapshot) toCanonicalMap() map[string]any {
	intent := make([]any, len(s.Intent))
	for i, cl := range s.Intent {
		intent[i] = cl.String()
	}

	result := map[string]any{
		"scenario_name":  s.ScenarioName,
		"intent":         intent,
		"visualizations": collectionList(s.Visualizations),
	}

	if len(s.Actions) > 0 {
		actions := make([]any, len(s.Actions))
		for i, a := range s.Actions {
			m := map[string]any{
				"action":         a.Action,
				"visualizations": collectionList(a.Collection),
			}
			if a.Truncated > 0 {
				m["truncated"] = a.Truncated
			}
			actions[i] = m
		}
		result["actions"] = actions
	}
	if len(s.Warnings) > 0 {
		result["warnings"] = s.Warnings
	}
	if s.Error != "" {
		result["error"] = s.Error
	}
	return result
}

// MarshalSnapshot returns the canonical JSON of a scenario result.
func MarshalSnapshot(name string, result *Result) ([]byte, error) {
	snapshot := newSnapshot(name, result)
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its output against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if output doesn't match golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares the given result against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}

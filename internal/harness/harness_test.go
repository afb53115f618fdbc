package harness

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/config"
	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/testutil"
)

func carsScenario(intent []any, assertions ...Assertion) *Scenario {
	return &Scenario{
		Name:        "inline",
		Description: "inline scenario",
		Source:      SourceSpec{Fixture: FixtureCars},
		Intent:      intent,
		Assertions:  assertions,
	}
}

func TestRun_Scatter(t *testing.T) {
	result, err := Run(carsScenario([]any{"milespergal", "weight"},
		Assertion{Type: AssertCount, Count: 1},
		Assertion{Type: AssertMarks, Marks: []string{"scatter"}},
	))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "[milespergal, weight]", result.Intent.String())
	require.Len(t, result.Visualizations, 1)
	assert.Equal(t, ir.MarkScatter, result.Visualizations[0].Mark)
	assert.NotEmpty(t, result.Visualizations[0].ID)
}

func TestRun_Enumerated(t *testing.T) {
	result, err := Run(carsScenario([]any{"origin=?", "milespergal"},
		Assertion{Type: AssertTitles, Titles: []string{"origin = Europe", "origin = Japan", "origin = USA"}},
		Assertion{Type: AssertChannel, Attribute: "milespergal", Channel: "x"},
	))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_AssertionFailure(t *testing.T) {
	result, err := Run(carsScenario([]any{"milespergal", "weight"},
		Assertion{Type: AssertMarks, Marks: []string{"bar"}},
	))
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Assertion failed: marks")
	assert.Contains(t, result.Errors[0], "[scatter]")
}

func TestRun_RunErrorFailsUnlessExpected(t *testing.T) {
	unexpected, err := Run(carsScenario([]any{"country", "weight"},
		Assertion{Type: AssertCount, Count: 0},
	))
	require.NoError(t, err)
	assert.False(t, unexpected.Pass)
	require.NotEmpty(t, unexpected.Errors)
	assert.Contains(t, unexpected.Errors[0], "run failed")
	assert.Contains(t, unexpected.RunError, `attribute "country" not found`)

	expected, err := Run(carsScenario([]any{"country", "weight"},
		Assertion{Type: AssertError, Contains: "country"},
	))
	require.NoError(t, err)
	assert.True(t, expected.Pass, "errors: %v", expected.Errors)
}

func TestRun_ParseError(t *testing.T) {
	result, err := Run(carsScenario([]any{map[string]any{"colour": "x"}},
		Assertion{Type: AssertError, Contains: "parse intent"},
	))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Contains(t, result.RunError, `unknown clause field "colour"`)
}

func TestRun_RedundantIntentWarns(t *testing.T) {
	result, err := Run(carsScenario([]any{"origin=USA", "origin"},
		Assertion{Type: AssertCount, Count: 0},
		Assertion{Type: AssertWarning, Contains: "more than one clause"},
	))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.RunError)
}

func TestRun_CompilerOverrides(t *testing.T) {
	// With a threshold above every column's cardinality nothing is a
	// measure, so two numeric columns are two dimensions.
	scenario := carsScenario([]any{"milespergal", "weight"},
		Assertion{Type: AssertMarks, Marks: []string{"unknown"}},
	)
	scenario.Compiler = &config.Compiler{NominalCardinality: 100}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_SQLDrivers(t *testing.T) {
	for _, driver := range []string{"sqlite3", "duckdb"} {
		t.Run(driver, func(t *testing.T) {
			scenario := carsScenario([]any{"origin=?", "milespergal"},
				Assertion{Type: AssertCount, Count: 3},
				Assertion{Type: AssertMarks, Marks: []string{"histogram", "histogram", "histogram"}},
			)
			scenario.Source.Driver = driver

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestRun_ExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	testutil.LoadCars(t, db)
	require.NoError(t, db.Close())

	scenario := carsScenario([]any{"brand", "weight"},
		Assertion{Type: AssertContains, Attributes: []string{"weight", "brand"}, Mark: "bar"},
	)
	scenario.Source = SourceSpec{Driver: "sqlite3", DB: path, Table: testutil.CarsTable}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_OpenSourceError(t *testing.T) {
	scenario := carsScenario([]any{"weight"}, Assertion{Type: AssertCount, Count: 1})
	scenario.Source = SourceSpec{Driver: "sqlite3", DB: filepath.Join(t.TempDir(), "x.db")}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table is required")
}

func TestRun_Recommend(t *testing.T) {
	scenario := carsScenario(nil,
		Assertion{Type: AssertActions, Actions: []string{"Correlation", "Distribution", "Occurrence", "Temporal"}},
		Assertion{Type: AssertCount, Action: "Correlation", Count: 10},
		Assertion{Type: AssertCount, Count: 0},
	)
	scenario.Mode = ModeRecommend

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{"Correlation", "Distribution", "Occurrence", "Temporal"}, result.ActionNames())
}

func TestRun_RecommendUnknownAction(t *testing.T) {
	scenario := carsScenario(nil, Assertion{Type: AssertCount, Action: "Enhance", Count: 1})
	scenario.Mode = ModeRecommend

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "results for action Enhance")
}

func TestRun_Deterministic(t *testing.T) {
	scenario := carsScenario([]any{"?", "weight"}, Assertion{Type: AssertCount, Count: 8})

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Visualizations, second.Visualizations)
}

func TestResult_AddError(t *testing.T) {
	r := NewResult()
	assert.True(t, r.Pass)

	r.AddError("boom")
	assert.False(t, r.Pass)
	assert.Equal(t, []string{"boom"}, r.Errors)
}

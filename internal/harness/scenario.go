package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/vislens/internal/config"
	"github.com/roach88/vislens/internal/datasource"
)

// Scenario defines a conformance test scenario.
// A scenario compiles one intent against one source and asserts on the
// resulting visualizations.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Source selects the data the intent runs against.
	Source SourceSpec `yaml:"source"`

	// Mode is "build" (default) to compile the intent, or "recommend" to
	// run the recommendation actions around it.
	Mode string `yaml:"mode,omitempty"`

	// Intent lists clauses as shorthand strings ("origin=?") or maps with
	// attribute / value / filter_op / channel / data_model / data_type.
	// May be empty in recommend mode.
	Intent []any `yaml:"intent"`

	// Compiler overrides classification thresholds. Nil uses defaults.
	Compiler *config.Compiler `yaml:"compiler,omitempty"`

	// Assertions validate the result.
	// Supported types: count, marks, titles, channel, contains, warning,
	// error, actions
	Assertions []Assertion `yaml:"assertions"`

	// RunID is an optional fixed run ID for recommend mode.
	// If empty, defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`
}

// SourceSpec selects a data source. Fixture "cars" loads the built-in
// cars sample, into memory or, when Driver is set, into a temporary
// database of that driver. Without a fixture, Driver/DB/Table open an
// existing database; DB is relative to the scenario file.
type SourceSpec struct {
	Fixture string `yaml:"fixture,omitempty"`
	Driver  string `yaml:"driver,omitempty"`
	DB      string `yaml:"db,omitempty"`
	Table   string `yaml:"table,omitempty"`
}

// Assertion validates part of a scenario result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "count": Number of visualizations (of Action's collection if set)
	// - "marks": Exact ordered marks (of Action's collection if set)
	// - "titles": Exact ordered titles (of Action's collection if set)
	// - "channel": Every visualization puts Attribute on Channel
	// - "contains": Some visualization shows exactly Attributes (and Mark)
	// - "warning": Some warning contains Contains
	// - "error": The run failed with an error containing Contains
	// - "actions": Recommendation action names, in order
	Type string `yaml:"type"`

	// Count is the expected number of visualizations (used by count).
	Count int `yaml:"count,omitempty"`

	// Marks are the expected marks (used by marks).
	Marks []string `yaml:"marks,omitempty"`

	// Titles are the expected titles (used by titles).
	Titles []string `yaml:"titles,omitempty"`

	// Attribute and Channel are used by channel.
	Attribute string `yaml:"attribute,omitempty"`
	Channel   string `yaml:"channel,omitempty"`

	// Attributes and Mark are used by contains. Order does not matter.
	Attributes []string `yaml:"attributes,omitempty"`
	Mark       string   `yaml:"mark,omitempty"`

	// Contains is the expected substring (used by warning and error).
	Contains string `yaml:"contains,omitempty"`

	// Action restricts count / marks / titles / channel / contains to one
	// recommendation action.
	Action string `yaml:"action,omitempty"`

	// Actions is the expected action order (used by actions).
	Actions []string `yaml:"actions,omitempty"`
}

// Assertion type constants.
const (
	AssertCount    = "count"
	AssertMarks    = "marks"
	AssertTitles   = "titles"
	AssertChannel  = "channel"
	AssertContains = "contains"
	AssertWarning  = "warning"
	AssertError    = "error"
	AssertActions  = "actions"
)

// Scenario modes.
const (
	ModeBuild     = "build"
	ModeRecommend = "recommend"
)

// FixtureCars is the built-in cars sample.
const FixtureCars = "cars"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative source DB path is resolved against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if db := scenario.Source.DB; db != "" && !filepath.IsAbs(db) {
		scenario.Source.DB = filepath.Join(filepath.Dir(path), db)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Mode {
	case "", ModeBuild:
		if len(s.Intent) == 0 {
			return fmt.Errorf("intent list is required and must be non-empty")
		}
	case ModeRecommend:
	default:
		return fmt.Errorf("unknown mode %q (want %s or %s)", s.Mode, ModeBuild, ModeRecommend)
	}

	if err := validateSource(s.Source); err != nil {
		return err
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateSource(src SourceSpec) error {
	switch src.Fixture {
	case FixtureCars:
		switch src.Driver {
		case "", datasource.DriverSQLite, datasource.DriverDuckDB:
			return nil
		default:
			return fmt.Errorf("source: fixture %q cannot be loaded with driver %q", src.Fixture, src.Driver)
		}
	case "":
		if src.Driver == "" || src.DB == "" {
			return fmt.Errorf("source: fixture or driver and db are required")
		}
		if _, err := os.Stat(src.DB); os.IsNotExist(err) {
			return fmt.Errorf("source: database not found: %s", src.DB)
		}
		return nil
	default:
		return fmt.Errorf("source: unknown fixture %q", src.Fixture)
	}
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertMarks:
		if len(a.Marks) == 0 {
			return fmt.Errorf("assertions[%d]: marks list is required for marks", index)
		}
	case AssertTitles:
		if len(a.Titles) == 0 {
			return fmt.Errorf("assertions[%d]: titles list is required for titles", index)
		}
	case AssertChannel:
		if a.Attribute == "" || a.Channel == "" {
			return fmt.Errorf("assertions[%d]: attribute and channel are required for channel", index)
		}
	case AssertContains:
		if len(a.Attributes) == 0 {
			return fmt.Errorf("assertions[%d]: attributes list is required for contains", index)
		}
	case AssertWarning, AssertError:
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: contains is required for %s", index, a.Type)
		}
	case AssertActions:
		if a.Actions == nil {
			return fmt.Errorf("assertions[%d]: actions list is required for actions", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

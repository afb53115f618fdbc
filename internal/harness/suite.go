package harness

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SuiteResult summarizes a run over many scenario files.
type SuiteResult struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
	Total     int               `json:"total"`
}

// ScenarioOutcome is the result of one scenario file.
type ScenarioOutcome struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Pass          bool     `json:"pass"`
	GoldenUpdated bool     `json:"golden_updated,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// SuiteOptions configures RunSuite.
type SuiteOptions struct {
	// Update rewrites golden files instead of comparing against them.
	Update bool
}

// FindScenarios returns the YAML files under dir, sorted by path.
// A non-empty filter is a glob matched against the file name without
// its extension.
func FindScenarios(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, "x"); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			if matched, _ := filepath.Match(filter, name); !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(files)
	return files, nil
}

// GoldenPath returns the golden file for a scenario file:
// <dir>/golden/<base>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

// WriteGolden writes the snapshot of result to goldenPath.
func WriteGolden(goldenPath, name string, result *Result) error {
	data, err := MarshalSnapshot(name, result)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether result matches the golden file byte for
// byte. Surrounding whitespace in the file is ignored.
func CompareGolden(goldenPath, name string, result *Result) (bool, error) {
	want, err := os.ReadFile(goldenPath)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	got, err := MarshalSnapshot(name, result)
	if err != nil {
		return false, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return bytes.Equal(bytes.TrimSpace(want), got), nil
}

// RunSuite loads and runs every scenario file.
//
// For each file:
// 1. Load the scenario
// 2. Run it and evaluate assertions
// 3. Update or compare the golden file, when one exists
// 4. Record pass/fail
//
// A missing golden file is not a failure; the assertions decide.
func RunSuite(ctx context.Context, paths []string, opts SuiteOptions) *SuiteResult {
	result := &SuiteResult{
		Scenarios: make([]ScenarioOutcome, 0, len(paths)),
		Total:     len(paths),
	}

	for _, path := range paths {
		outcome := runFile(ctx, path, opts)
		if outcome.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, outcome)
	}

	return result
}

func runFile(ctx context.Context, path string, opts SuiteOptions) ScenarioOutcome {
	outcome := ScenarioOutcome{Name: filepath.Base(path), Path: path}
	fail := func(format string, args ...any) ScenarioOutcome {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf(format, args...))
		return outcome
	}

	scenario, err := LoadScenario(path)
	if err != nil {
		return fail("failed to load scenario: %v", err)
	}
	outcome.Name = scenario.Name

	result, err := RunContext(ctx, scenario)
	if err != nil {
		return fail("execution failed: %v", err)
	}

	goldenPath := GoldenPath(path)
	if opts.Update {
		if err := WriteGolden(goldenPath, scenario.Name, result); err != nil {
			return fail("failed to update golden file: %v", err)
		}
		outcome.GoldenUpdated = true
	} else if _, err := os.Stat(goldenPath); err == nil {
		match, err := CompareGolden(goldenPath, scenario.Name, result)
		if err != nil {
			return fail("golden comparison failed: %v", err)
		}
		if !match {
			outcome.Errors = append(outcome.Errors, "output does not match golden file (run with --update to regenerate)")
		}
	}

	outcome.Errors = append(outcome.Errors, result.Errors...)
	outcome.Pass = len(outcome.Errors) == 0
	return outcome
}

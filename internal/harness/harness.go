package harness

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/config"
	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/recommend"
	"github.com/roach88/vislens/internal/testutil"
)

// Harness is the test execution engine.
// It runs one scenario against a freshly loaded source with a fixed run ID.
type Harness struct {
	compiler *compiler.Compiler
	logger   *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh copy of its source for isolation.
// Fixture databases live in a temporary directory removed on return.
//
// Execution flow:
// 1. Open the source (in-memory fixture, temporary database, or file)
// 2. Parse the intent
// 3. Build the intent, or run the recommendation engine around it
// 4. Evaluate assertions against the result
//
// Errors from the compiler or engine are recorded on the result, not
// returned; the returned error means the scenario could not be set up.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests

	src, cleanup, err := openSource(ctx, scenario.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	defer cleanup()

	opts := compiler.Options{Logger: logger}
	if scenario.Compiler != nil {
		opts = config.Config{Compiler: *scenario.Compiler}.CompilerOptions(logger)
	}

	h := &Harness{
		compiler: compiler.New(src, opts),
		logger:   logger,
	}

	result := NewResult()
	intent, err := ir.IntentFromAny(scenario.Intent)
	if err != nil {
		result.RunError = fmt.Sprintf("parse intent: %v", err)
	} else {
		result.Intent = intent
		h.execute(ctx, scenario, intent, result)
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// execute runs the intent in the scenario's mode, filling result.
// The intent is not validated first: the compiler's own handling of
// redundant or unresolvable intents is part of what scenarios check.
func (h *Harness) execute(ctx context.Context, scenario *Scenario, intent ir.Intent, result *Result) {
	switch scenario.Mode {
	case ModeRecommend:
		h.recommend(ctx, scenario, intent, result)
	default:
		h.build(ctx, intent, result)
	}
}

func (h *Harness) build(ctx context.Context, intent ir.Intent, result *Result) {
	res, err := h.compiler.Build(ctx, intent)
	if err != nil {
		result.RunError = err.Error()
		return
	}
	result.Visualizations = res.Visualizations()
	result.Warnings = res.Warnings

	h.logger.Info("scenario built",
		"intent", intent.String(),
		"visualizations", len(result.Visualizations),
		"dropped", res.Dropped,
	)
}

func (h *Harness) recommend(ctx context.Context, scenario *Scenario, intent ir.Intent, result *Result) {
	eng, err := recommend.New(h.compiler,
		recommend.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
		recommend.WithLogger(h.logger),
	)
	if err != nil {
		result.RunError = err.Error()
		return
	}

	report, err := eng.Recommend(ctx, intent)
	if err != nil {
		result.RunError = err.Error()
		return
	}
	result.Visualizations = report.Current
	result.Actions = report.Results
	result.Warnings = report.Warnings
}

// openSource opens the scenario source and returns a cleanup function.
func openSource(ctx context.Context, spec SourceSpec) (datasource.Source, func(), error) {
	noop := func() {}

	if spec.Fixture == "" {
		src, closeFn, err := datasource.Open(ctx, spec.Driver, spec.DB, spec.Table)
		if err != nil {
			return nil, noop, err
		}
		return src, func() { _ = closeFn() }, nil
	}

	if spec.Driver == "" {
		tbl, err := carsMemTable()
		return tbl, noop, err
	}

	dir, err := os.MkdirTemp("", "vislens-scenario-*")
	if err != nil {
		return nil, noop, fmt.Errorf("create temp dir: %w", err)
	}
	removeDir := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, "cars.db")
	if err := seedCars(spec.Driver, path); err != nil {
		removeDir()
		return nil, noop, err
	}

	src, closeFn, err := datasource.Open(ctx, spec.Driver, path, testutil.CarsTable)
	if err != nil {
		removeDir()
		return nil, noop, err
	}
	return src, func() {
		_ = closeFn()
		removeDir()
	}, nil
}

// carsMemTable loads the cars fixture into memory.
func carsMemTable() (*datasource.MemTable, error) {
	cols := make([]datasource.Column, len(testutil.CarsColumns))
	for i, name := range testutil.CarsColumns {
		cols[i] = datasource.Column{Name: name}
	}
	return datasource.NewMemTable(testutil.CarsTable, cols, testutil.CarsRows())
}

// seedCars writes the cars fixture into a new database at path.
func seedCars(driver, path string) error {
	db, err := sql.Open(driver, path)
	if err != nil {
		return fmt.Errorf("open %s: %w", driver, err)
	}
	defer db.Close()

	if err := testutil.InsertCars(db); err != nil {
		return fmt.Errorf("seed %s: %w", driver, err)
	}
	return nil
}

package recommend

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/ir"
)

// DefaultMaxVisualizations is the default per-action quota.
const DefaultMaxVisualizations = 50

// Engine runs actions over one compiler.
//
// INVARIANTS:
//   - actions order NEVER changes after construction
//   - action names are unique
//   - results are returned in action order
type Engine struct {
	compiler *compiler.Compiler
	actions  []Action
	ranker   Ranker
	runIDs   RunIDGenerator
	maxVis   int
	logger   *slog.Logger
}

// Option allows configuration of engine parameters.
type Option func(*Engine)

// WithActions replaces the default actions. Order is preserved.
func WithActions(actions ...Action) Option {
	return func(e *Engine) {
		e.actions = append([]Action(nil), actions...)
	}
}

// WithRanker sets the collection ranker. Default: KeepOrder.
func WithRanker(r Ranker) Option {
	return func(e *Engine) {
		e.ranker = r
	}
}

// WithRunIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithMaxVisualizations sets the per-action quota.
// Default: 50 (DefaultMaxVisualizations). Zero or less disables the quota.
func WithMaxVisualizations(n int) Option {
	return func(e *Engine) {
		e.maxVis = n
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine over c.
//
// Returns a RecommendError with ErrCodeDuplicateAction if two actions
// share a name.
func New(c *compiler.Compiler, opts ...Option) (*Engine, error) {
	e := &Engine{
		compiler: c,
		actions:  DefaultActions(),
		ranker:   KeepOrder{},
		runIDs:   UUIDv7Generator{},
		maxVis:   DefaultMaxVisualizations,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	seen := make(map[string]bool, len(e.actions))
	for _, a := range e.actions {
		if seen[a.Name()] {
			return nil, &RecommendError{
				Code:    ErrCodeDuplicateAction,
				Message: fmt.Sprintf("action %q registered twice", a.Name()),
				Action:  a.Name(),
			}
		}
		seen[a.Name()] = true
	}
	return e, nil
}

// Actions returns the registered action names in order.
func (e *Engine) Actions() []string {
	out := make([]string, len(e.actions))
	for i, a := range e.actions {
		out[i] = a.Name()
	}
	return out
}

// ActionResult is one action's ranked collection.
type ActionResult struct {
	Action      string        `json:"action"`
	Description string        `json:"description"`
	Collection  ir.Collection `json:"collection"`
	Truncated   int           `json:"truncated,omitempty"`
}

// Report is the outcome of one recommendation run.
type Report struct {
	RunID string `json:"run_id"`

	// IntentHash identifies the normalized intent, so runs over the same
	// intent can be grouped across reports.
	IntentHash string         `json:"intent_hash"`
	Intent     ir.Intent      `json:"intent"`
	Current    ir.Collection  `json:"current"`
	Results    []ActionResult `json:"results"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// Names returns the action names with results, in order.
func (r *Report) Names() []string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Action
	}
	return out
}

// Result returns the result of the named action.
func (r *Report) Result(action string) (ActionResult, bool) {
	for _, res := range r.Results {
		if res.Action == action {
			return res, true
		}
	}
	return ActionResult{}, false
}

// Recommend compiles intent and runs every applicable action.
//
// An intent naming the same column twice yields a report with no results
// and a warning. Classification or channel errors on the current intent
// are returned as ErrCodeInvalidIntent; data source failures are returned
// as they are.
func (e *Engine) Recommend(ctx context.Context, intent ir.Intent) (*Report, error) {
	runID := e.runIDs.Generate()
	intentHash, err := ir.IntentHash(intent)
	if err != nil {
		return nil, fmt.Errorf("hash intent: %w", err)
	}
	logger := e.logger.With("run_id", runID, "intent_hash", intentHash)

	report := &Report{
		RunID:      runID,
		IntentHash: intentHash,
		Intent:     intent,
		Current:    ir.Collection{},
		Results:    []ActionResult{},
	}

	if err := compiler.CheckRedundant(intent); err != nil {
		logger.Warn("redundant intent, no recommendations", "intent", intent.String(), "reason", err)
		report.Warnings = append(report.Warnings, err.Error())
		return report, nil
	}

	if len(intent) > 0 {
		res, err := e.compiler.Build(ctx, intent)
		if err != nil {
			if compiler.IsAttributeNotFound(err) || compiler.IsDuplicateChannel(err) {
				return nil, &RecommendError{
					Code:    ErrCodeInvalidIntent,
					Message: fmt.Sprintf("cannot compile %s", intent),
					RunID:   runID,
					Err:     err,
				}
			}
			return nil, fmt.Errorf("compile intent: %w", err)
		}
		report.Current = res.Visualizations().Actionable()
		report.Warnings = append(report.Warnings, res.Warnings...)
	}

	schema, err := LoadSchema(ctx, e.compiler)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	for _, a := range e.actions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !a.Applies(intent) {
			continue
		}

		res, err := e.run(ctx, a, schema, intent, logger)
		if err != nil {
			return nil, newActionError(runID, a.Name(), err)
		}
		if len(res.Collection) == 0 {
			logger.Debug("action produced nothing", "action", a.Name())
			continue
		}
		report.Results = append(report.Results, res)
	}

	logger.Info("recommendation complete",
		"intent", intent.String(),
		"current", len(report.Current),
		"actions", len(report.Results))
	return report, nil
}

// run compiles one action's intents into a ranked, capped collection.
func (e *Engine) run(ctx context.Context, a Action, s *Schema, intent ir.Intent, logger *slog.Logger) (ActionResult, error) {
	intents, err := a.Generate(ctx, s, intent)
	if err != nil {
		return ActionResult{}, err
	}

	coll := ir.Collection{}
	seen := make(map[string]bool)
	for _, in := range intents {
		res, err := e.compiler.Build(ctx, in)
		if err != nil {
			if compiler.IsAttributeNotFound(err) || compiler.IsDuplicateChannel(err) {
				logger.Debug("intent dropped", "action", a.Name(), "intent", in.String(), "reason", err)
				continue
			}
			return ActionResult{}, err
		}
		for _, vis := range res.Visualizations() {
			if !vis.Actionable() || seen[vis.ID] {
				continue
			}
			seen[vis.ID] = true
			coll = append(coll, vis)
		}
	}

	ranked := e.ranker.Rank(a.Name(), coll)

	quota := NewQuota(e.maxVis)
	out := ActionResult{Action: a.Name(), Description: a.Description(), Collection: ir.Collection{}}
	for _, vis := range ranked {
		if err := quota.Admit(a.Name()); err != nil {
			out.Truncated = len(ranked) - len(out.Collection)
			logger.Debug("quota reached", "action", a.Name(), "reason", err)
			break
		}
		out.Collection = append(out.Collection, vis)
	}

	logger.Debug("action complete",
		"action", a.Name(),
		"intents", len(intents),
		"visualizations", len(out.Collection),
		"truncated", out.Truncated)
	return out, nil
}

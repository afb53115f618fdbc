package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
)

// Compiler builds visualizations for intents over one data source.
type Compiler struct {
	src        datasource.Source
	classifier *Classifier
	opts       Options
	logger     *slog.Logger
}

// New creates a compiler for src. Zero option fields take their defaults.
func New(src datasource.Source, opts Options) *Compiler {
	opts = opts.withDefaults()
	return &Compiler{
		src:        src,
		classifier: NewClassifier(src, opts),
		opts:       opts,
		logger:     opts.Logger,
	}
}

// Source returns the compiler's data source.
func (c *Compiler) Source() datasource.Source { return c.src }

// Classifier returns the compiler's classifier.
func (c *Compiler) Classifier() *Classifier { return c.classifier }

// Result is the output of Build. Exactly one of Vis and Collection is
// meaningful: Vis when the intent was fully resolved, Collection when it
// was enumerated.
type Result struct {
	Vis        *ir.Visualization `json:"vis,omitempty"`
	Collection ir.Collection     `json:"collection,omitempty"`
	Enumerated bool              `json:"enumerated"`
	Dropped    int               `json:"dropped,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

// Visualizations returns the result as a collection (possibly of one).
func (r *Result) Visualizations() ir.Collection {
	if r.Enumerated {
		return r.Collection
	}
	if r.Vis == nil {
		return ir.Collection{}
	}
	return ir.Collection{r.Vis}
}

// Build compiles an intent. A fully resolved intent yields one
// visualization and its classification or channel errors are returned.
// An intent with wildcards or lists yields a collection.
//
// An empty intent, or one using the same column in two clauses, yields an
// empty result with a warning.
func (c *Compiler) Build(ctx context.Context, intent ir.Intent) (*Result, error) {
	if len(intent) == 0 {
		return &Result{Warnings: []string{"empty intent"}}, nil
	}
	intent = intent.Normalize()

	if err := CheckRedundant(intent); err != nil {
		c.logger.Warn("redundant intent", "intent", intent.String(), "reason", err)
		return &Result{
			Enumerated: intent.IsEnumerable(),
			Collection: ir.Collection{},
			Warnings:   []string{err.Error()},
		}, nil
	}

	if !intent.IsEnumerable() {
		vis, err := c.BuildVis(ctx, intent)
		if err != nil {
			return nil, err
		}
		return &Result{Vis: vis}, nil
	}

	coll, dropped, err := c.buildCollection(ctx, intent)
	if err != nil {
		return nil, err
	}
	return &Result{Collection: coll, Enumerated: true, Dropped: dropped}, nil
}

// BuildVis compiles a fully resolved intent into one visualization.
// Filter values are not checked against the data.
func (c *Compiler) BuildVis(ctx context.Context, intent ir.Intent) (*ir.Visualization, error) {
	clauses := intent.Normalize()
	if clauses.IsEnumerable() {
		return nil, fmt.Errorf("intent %s has wildcards or lists; use BuildCollection", intent)
	}
	return c.resolve(ctx, clauses)
}

// BuildCollection enumerates every candidate of the intent and returns
// the valid ones, deduplicated, in enumeration order.
func (c *Compiler) BuildCollection(ctx context.Context, intent ir.Intent) (ir.Collection, error) {
	coll, _, err := c.buildCollection(ctx, intent)
	return coll, err
}

func (c *Compiler) buildCollection(ctx context.Context, intent ir.Intent) (ir.Collection, int, error) {
	exp, err := c.Expand(ctx, intent)
	if err != nil {
		return nil, 0, err
	}

	domains := newDomainChecker(c.src)
	coll := ir.Collection{}
	seen := make(map[string]bool)
	dropped := 0

	for cand := range exp.Candidates() {
		vis, err := c.resolveCandidate(ctx, cand, domains)
		if err != nil {
			if isCandidateError(err) {
				dropped++
				c.logger.Debug("candidate dropped", "candidate", ir.Intent(cand).String(), "reason", err)
				continue
			}
			return nil, dropped, err
		}
		if seen[vis.ID] {
			dropped++
			continue
		}
		seen[vis.ID] = true
		coll = append(coll, vis)
	}

	c.logger.Debug("collection built",
		"intent", intent.String(),
		"candidates", exp.Size(),
		"visualizations", len(coll),
		"dropped", dropped)
	return coll, dropped, nil
}

func (c *Compiler) resolveCandidate(ctx context.Context, cand []ir.Clause, domains *domainChecker) (*ir.Visualization, error) {
	if err := CheckRedundant(cand); err != nil {
		return nil, err
	}
	for _, cl := range cand {
		if err := domains.check(ctx, cl); err != nil {
			return nil, err
		}
	}
	return c.resolve(ctx, cand)
}

// resolve runs classification, channel resolution and mark selection on
// concrete clauses.
func (c *Compiler) resolve(ctx context.Context, clauses []ir.Clause) (*ir.Visualization, error) {
	if err := c.classifier.Annotate(ctx, clauses); err != nil {
		return nil, err
	}
	if err := ResolveChannels(clauses); err != nil {
		return nil, err
	}

	mark, resolved := SelectMark(clauses, MarkOptions{
		SortCardinality: c.opts.SortCardinality,
		Lookup:          c.src.Cache().Get,
	})
	return ir.NewVisualization(resolved, mark)
}

// CheckRedundant returns *RedundantAttributeError when one column appears
// in more than one clause.
func CheckRedundant(clauses []ir.Clause) error {
	seen := make(map[string]bool)
	for _, cl := range clauses {
		name, ok := cl.Name()
		if !ok {
			continue
		}
		if seen[name] {
			return &RedundantAttributeError{Attribute: name}
		}
		seen[name] = true
	}
	return nil
}

// domainChecker verifies filters match at least one row. Distinct values
// are memoized for the duration of one build.
type domainChecker struct {
	src    datasource.Source
	values map[string]map[string]bool
}

func newDomainChecker(src datasource.Source) *domainChecker {
	return &domainChecker{src: src, values: make(map[string]map[string]bool)}
}

// check returns *EmptyDomainError when the filter clause cl matches no
// rows. Equality uses the column's distinct values; other operators count
// rows.
func (d *domainChecker) check(ctx context.Context, cl ir.Clause) error {
	v, ok := cl.FilterValue()
	if !ok {
		return nil
	}
	name := cl.AttributeName()

	if cl.Op() == ir.OpEq {
		domain, err := d.domain(ctx, name)
		if err != nil {
			return err
		}
		if !domain[domainKey(v)] {
			return &EmptyDomainError{Attribute: name, Op: cl.Op(), Value: v}
		}
		return nil
	}

	n, err := d.src.RowCount(ctx, []datasource.Filter{{Attribute: name, Op: cl.Op(), Value: v}})
	if err != nil {
		return wrapNotFound(d.src, name, err)
	}
	if n == 0 {
		return &EmptyDomainError{Attribute: name, Op: cl.Op(), Value: v}
	}
	return nil
}

func (d *domainChecker) domain(ctx context.Context, name string) (map[string]bool, error) {
	if dom, ok := d.values[name]; ok {
		return dom, nil
	}
	values, err := d.src.DistinctValues(ctx, name)
	if err != nil {
		return nil, wrapNotFound(d.src, name, err)
	}
	dom := make(map[string]bool, len(values))
	for _, v := range values {
		dom[domainKey(v)] = true
	}
	d.values[name] = dom
	return dom, nil
}

// domainKey identifies a value across numeric kinds, so Int(3) and
// Float(3) collide.
func domainKey(v ir.Value) string {
	switch n := v.(type) {
	case ir.Int:
		return "n:" + ir.Float(n).String()
	case ir.Float:
		return "n:" + n.String()
	default:
		return fmt.Sprintf("%T:%s", v, v)
	}
}

package recommend

import (
	"context"
	"fmt"

	"github.com/roach88/vislens/internal/ir"
)

// Action proposes intents to explore from the current one.
//
// Generate must be deterministic: the same schema and intent yield the
// same intents in the same order.
type Action interface {
	// Name identifies the action in results, e.g. "Correlation".
	Name() string

	// Description is a one-line summary shown with the results.
	Description() string

	// Applies reports whether the action runs for intent.
	Applies(intent ir.Intent) bool

	// Generate returns the intents to compile. Enumerable intents are
	// expanded by the compiler.
	Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error)
}

// DefaultFilterCardinality is the largest dimension Filter enumerates.
const DefaultFilterCardinality = 20

// DefaultActions returns the built-in actions in display order.
func DefaultActions() []Action {
	return []Action{
		Correlation{},
		Distribution{},
		Occurrence{},
		Temporal{},
		Enhance{},
		Filter{MaxCardinality: DefaultFilterCardinality},
		Generalize{},
	}
}

func hasVisualAttribute(intent ir.Intent) bool {
	return len(intent.Attributes()) > 0
}

// extend returns a copy of base with extra appended.
func extend(base ir.Intent, extra ...ir.Clause) ir.Intent {
	out := make(ir.Intent, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// single returns one intent per column: filters plus the column.
func single(filters ir.Intent, cols []string) []ir.Intent {
	out := make([]ir.Intent, 0, len(cols))
	for _, c := range cols {
		out = append(out, extend(filters, ir.Attr(c)))
	}
	return out
}

// Correlation pairs every two measures in a scatter plot.
type Correlation struct{}

func (Correlation) Name() string { return "Correlation" }

func (Correlation) Description() string {
	return "Show relationships between two quantitative attributes."
}

func (Correlation) Applies(intent ir.Intent) bool { return !hasVisualAttribute(intent) }

// Generate emits each unordered pair once, in column order.
func (Correlation) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	measures := s.Select(isMeasure, intent.BoundNames())
	filters := ir.Intent(intent.Filters())

	var out []ir.Intent
	for i := range measures {
		for j := i + 1; j < len(measures); j++ {
			out = append(out, extend(filters, ir.Attr(measures[i]), ir.Attr(measures[j])))
		}
	}
	return out, nil
}

// Distribution shows a histogram of every measure.
type Distribution struct{}

func (Distribution) Name() string { return "Distribution" }

func (Distribution) Description() string {
	return "Show univariate histograms of quantitative attributes."
}

func (Distribution) Applies(intent ir.Intent) bool { return !hasVisualAttribute(intent) }

func (Distribution) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	return single(intent.Filters(), s.Select(isMeasure, intent.BoundNames())), nil
}

// Occurrence shows value counts of every nominal dimension.
type Occurrence struct{}

func (Occurrence) Name() string { return "Occurrence" }

func (Occurrence) Description() string {
	return "Show frequency of occurrence for categorical attributes."
}

func (Occurrence) Applies(intent ir.Intent) bool { return !hasVisualAttribute(intent) }

func (Occurrence) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	return single(intent.Filters(), s.Select(isNominal, intent.BoundNames())), nil
}

// Temporal shows every temporal dimension.
type Temporal struct{}

func (Temporal) Name() string { return "Temporal" }

func (Temporal) Description() string {
	return "Show trends over time-related attributes."
}

func (Temporal) Applies(intent ir.Intent) bool { return !hasVisualAttribute(intent) }

func (Temporal) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	return single(intent.Filters(), s.Select(isTemporal, intent.BoundNames())), nil
}

// Enhance adds one more attribute to the intent.
type Enhance struct{}

func (Enhance) Name() string { return "Enhance" }

func (Enhance) Description() string {
	return "Augmenting current view with an additional attribute."
}

// Applies while a channel is still free.
func (Enhance) Applies(intent ir.Intent) bool {
	n := len(intent.Attributes())
	return n > 0 && n < 3
}

func (Enhance) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	return []ir.Intent{extend(intent, ir.AnyAttr())}, nil
}

// Filter slices the intent by the values of a dimension.
//
// When the intent has equality filters, each is swapped for every other
// value of its column. Otherwise each nominal dimension with at most
// MaxCardinality values, not already in the intent, is enumerated.
type Filter struct {
	MaxCardinality int
}

func (Filter) Name() string { return "Filter" }

func (Filter) Description() string {
	return "Applying filters to the current view."
}

func (Filter) Applies(intent ir.Intent) bool { return hasVisualAttribute(intent) }

func (f Filter) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	var out []ir.Intent
	swapped := false

	for i, cl := range intent {
		v, ok := cl.FilterValue()
		if !ok || cl.Op() != ir.OpEq {
			continue
		}
		name, ok := cl.Name()
		if !ok {
			continue
		}
		swapped = true

		values, err := s.Values(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("values of %s: %w", name, err)
		}
		for _, other := range values {
			if ir.Compare(other, v) == 0 {
				continue
			}
			next := intent.Clone()
			next[i] = ir.Filter(name, ir.OpEq, other)
			out = append(out, next)
		}
	}
	if swapped {
		return out, nil
	}

	low := func(c ColumnInfo) bool {
		return isNominal(c) && (f.MaxCardinality <= 0 || c.Cardinality <= f.MaxCardinality)
	}
	for _, dim := range s.Select(low, intent.BoundNames()) {
		out = append(out, extend(intent, ir.Clause{
			Attribute: ir.AttrName(dim),
			Value:     ir.ValueWildcard{},
			FilterOp:  ir.OpEq,
		}))
	}
	return out, nil
}

// Generalize removes one clause at a time.
type Generalize struct{}

func (Generalize) Name() string { return "Generalize" }

func (Generalize) Description() string {
	return "Removing an attribute or filter to see a more general picture."
}

func (Generalize) Applies(intent ir.Intent) bool { return hasVisualAttribute(intent) }

// Generate keeps only intents that still have a visual attribute.
func (Generalize) Generate(ctx context.Context, s *Schema, intent ir.Intent) ([]ir.Intent, error) {
	var out []ir.Intent
	for i := range intent {
		next := make(ir.Intent, 0, len(intent)-1)
		next = append(next, intent[:i]...)
		next = append(next, intent[i+1:]...)
		if hasVisualAttribute(next) {
			out = append(out, next)
		}
	}
	return out, nil
}

package compiler

import (
	"context"
	"fmt"
	"iter"
	"math"

	"github.com/roach88/vislens/internal/ir"
)

// Slot holds the concrete options for one clause position.
type Slot struct {
	Position int
	Clause   ir.Clause   // the clause as written
	Options  []ir.Clause // resolved alternatives, in enumeration order
}

// Expansion is the result of expanding an intent. Candidates are produced
// lazily from the slots.
type Expansion struct {
	Intent ir.Intent
	Slots  []Slot
}

// Expand builds one slot per clause:
//   - a single column yields itself
//   - an attribute list yields one option per name
//   - an attribute wildcard yields every column not named elsewhere in the
//     intent, in source order, restricted by its model and type
//   - a value list yields one option per listed value
//   - a value wildcard yields one option per distinct value of the column
//
// A slot can end up empty (no matching column, unknown column behind a
// value wildcard); the expansion then has no candidates. Data source I/O
// errors are returned.
func (c *Compiler) Expand(ctx context.Context, intent ir.Intent) (*Expansion, error) {
	bound := make(map[string]bool)
	for _, n := range intent.BoundNames() {
		bound[n] = true
	}

	exp := &Expansion{Intent: intent, Slots: make([]Slot, len(intent))}
	for i, cl := range intent {
		cl = cl.Normalize()
		opts, err := c.expandClause(ctx, cl, bound)
		if err != nil {
			return nil, fmt.Errorf("expand clause[%d] %s: %w", i, cl, err)
		}
		if len(opts) == 0 {
			c.logger.Debug("clause has no options", "position", i, "clause", cl.String())
		}
		exp.Slots[i] = Slot{Position: i, Clause: cl, Options: opts}
	}
	return exp, nil
}

func (c *Compiler) expandClause(ctx context.Context, cl ir.Clause, bound map[string]bool) ([]ir.Clause, error) {
	names, err := c.attributeOptions(ctx, cl, bound)
	if err != nil {
		return nil, err
	}

	var out []ir.Clause
	for _, name := range names {
		values, err := c.valueOptions(ctx, name, cl.Value)
		if err != nil {
			if IsAttributeNotFound(err) {
				c.logger.Debug("option dropped", "attribute", name, "reason", err)
				continue
			}
			return nil, err
		}
		for _, v := range values {
			opt := cl
			opt.Attribute = ir.AttrName(name)
			opt.Value = v
			out = append(out, opt)
		}
	}
	return out, nil
}

func (c *Compiler) attributeOptions(ctx context.Context, cl ir.Clause, bound map[string]bool) ([]string, error) {
	switch a := cl.Attribute.(type) {
	case ir.AttrName:
		return []string{string(a)}, nil
	case ir.AttrList:
		return []string(a), nil
	case ir.AttrWildcard:
		cols, err := c.src.Columns(ctx)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, col := range cols {
			if bound[col.Name] {
				continue
			}
			if a.Model != ir.ModelUnknown || a.Type != ir.TypeUnknown {
				cls, err := c.classifier.Classify(ctx, col.Name)
				if err != nil {
					return nil, err
				}
				if !matches(a, cls) {
					continue
				}
			}
			names = append(names, col.Name)
		}
		return names, nil
	default:
		return nil, fmt.Errorf("unsupported attribute spec: %T", cl.Attribute)
	}
}

func (c *Compiler) valueOptions(ctx context.Context, name string, spec ir.ValueSpec) ([]ir.ValueSpec, error) {
	switch v := spec.(type) {
	case nil, ir.NoValue:
		return []ir.ValueSpec{ir.NoValue{}}, nil
	case ir.Scalar:
		return []ir.ValueSpec{v}, nil
	case ir.ValueList:
		out := make([]ir.ValueSpec, len(v))
		for i, val := range v {
			out[i] = ir.Scalar{V: val}
		}
		return out, nil
	case ir.ValueWildcard:
		values, err := c.src.DistinctValues(ctx, name)
		if err != nil {
			return nil, wrapNotFound(c.src, name, err)
		}
		out := make([]ir.ValueSpec, len(values))
		for i, val := range values {
			out[i] = ir.Scalar{V: val}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value spec: %T", spec)
	}
}

// Size returns the number of candidates: the product of the slot sizes,
// or 0 when any slot is empty or there are no slots. The product
// saturates at math.MaxInt.
func (e *Expansion) Size() int {
	if e.empty() {
		return 0
	}
	n := 1
	for _, s := range e.Slots {
		k := len(s.Options)
		if n > math.MaxInt/k {
			return math.MaxInt
		}
		n *= k
	}
	return n
}

// empty reports whether the product has no candidates.
func (e *Expansion) empty() bool {
	if len(e.Slots) == 0 {
		return true
	}
	for _, s := range e.Slots {
		if len(s.Options) == 0 {
			return true
		}
	}
	return false
}

// Wildcards maps each wildcard clause position to its options.
func (e *Expansion) Wildcards() map[int][]ir.Clause {
	out := make(map[int][]ir.Clause)
	for _, s := range e.Slots {
		if s.Clause.HasWildcard() {
			out[s.Position] = s.Options
		}
	}
	return out
}

// Candidates iterates over the Cartesian product of the slot options, last
// slot varying fastest. Each yielded slice is freshly allocated.
func (e *Expansion) Candidates() iter.Seq[[]ir.Clause] {
	return func(yield func([]ir.Clause) bool) {
		if e.empty() {
			return
		}

		idx := make([]int, len(e.Slots))
		for {
			cand := make([]ir.Clause, len(e.Slots))
			for i, s := range e.Slots {
				cand[i] = s.Options[idx[i]]
			}
			if !yield(cand) {
				return
			}

			// odometer increment
			i := len(idx) - 1
			for ; i >= 0; i-- {
				idx[i]++
				if idx[i] < len(e.Slots[i].Options) {
					break
				}
				idx[i] = 0
			}
			if i < 0 {
				return
			}
		}
	}
}

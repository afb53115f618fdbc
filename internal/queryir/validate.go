package queryir

import (
	"fmt"

	"github.com/roach88/vislens/internal/ir"
)

// ValidationResult lists every problem found in a query.
type ValidationResult struct {
	// IsValid is true when Problems is empty.
	IsValid bool

	// Problems describes each rule the query breaks.
	Problems []string
}

// Validate checks a query against the rules every backend relies on:
//  1. From is set
//  2. Select names its fields explicitly (no SELECT *)
//  3. every field and sort key is a non-empty name
//  4. operators are known ir filter operators
//  5. NULL is only compared with = or !=
//
// All problems are collected; Validate is a pure function.
func Validate(query Query) ValidationResult {
	v := &validator{
		problems: []string{},
	}
	v.validateQuery(query)

	return ValidationResult{
		IsValid:  len(v.problems) == 0,
		Problems: v.problems,
	}
}

// validator accumulates problems during traversal.
type validator struct {
	problems []string
}

func (v *validator) addProblem(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) validateQuery(q Query) {
	switch query := q.(type) {
	case nil:
		v.addProblem("nil query")
	case Select:
		v.validateSelect(query)
	case *Select:
		v.validateSelect(*query)
	case Count:
		v.validateFrom(query.From)
		v.validatePredicate(query.Filter)
	case *Count:
		v.validateFrom(query.From)
		v.validatePredicate(query.Filter)
	default:
		v.addProblem("unknown query type: %T", q)
	}
}

func (v *validator) validateFrom(from string) {
	if from == "" {
		v.addProblem("missing table name")
	}
}

func (v *validator) validateSelect(sel Select) {
	v.validateFrom(sel.From)

	if len(sel.Fields) == 0 {
		v.addProblem("empty field list (SELECT *) - fields must be explicit")
	}
	for i, f := range sel.Fields {
		if f == "" {
			v.addProblem("fields[%d]: empty field name", i)
		}
	}
	for i, f := range sel.OrderBy {
		if f == "" {
			v.addProblem("order_by[%d]: empty field name", i)
		}
	}

	v.validatePredicate(sel.Filter)
}

func (v *validator) validatePredicate(p Predicate) {
	switch pred := p.(type) {
	case nil:
		// no filter
	case Compare:
		v.validateCompare(pred)
	case *Compare:
		v.validateCompare(*pred)
	case And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	case *And:
		for _, sub := range pred.Predicates {
			v.validatePredicate(sub)
		}
	default:
		v.addProblem("unknown predicate type: %T", p)
	}
}

func (v *validator) validateCompare(c Compare) {
	if c.Field == "" {
		v.addProblem("comparison with empty field name")
	}
	if !ir.ValidFilterOps[c.Op] {
		v.addProblem("field '%s': unknown operator %q", c.Field, c.Op)
	}
	if c.Value == nil {
		v.addProblem("field '%s': missing comparison value", c.Field)
		return
	}
	if _, isNull := c.Value.(ir.Null); isNull && c.Op != ir.OpEq && c.Op != ir.OpNe {
		v.addProblem("field '%s': NULL compared with %q", c.Field, c.Op)
	}
}

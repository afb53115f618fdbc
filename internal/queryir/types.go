package queryir

import "github.com/roach88/vislens/internal/ir"

// Query represents an abstract query in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Predicate represents a filter condition in the QueryIR.
//
// This is a sealed interface - only types in this package implement it.
// OR predicates are not supported; value lists are expanded into separate
// candidates by the compiler before any query is built.
type Predicate interface {
	predicateNode() // Marker method - seals interface to this package
}

// Select reads columns from a table.
//
// Semantics:
//
//	SELECT [DISTINCT] <fields> FROM <from> WHERE <filter> ORDER BY <order_by>
//
// Example:
//
//	Select{
//	  From:     "cars",
//	  Fields:   []string{"origin"},
//	  Distinct: true,
//	}
//
// Translates to SQL:
//
//	SELECT DISTINCT "origin" FROM "cars" ORDER BY "origin" ASC
//
// OrderBy defaults to Fields when empty.
type Select struct {
	From     string    // Table name
	Fields   []string  // Explicit column list (no SELECT *)
	Distinct bool      // Collapse duplicate rows
	Filter   Predicate // WHERE conditions (nil = no filter)
	OrderBy  []string  // Sort keys, ascending
}

func (Select) queryNode() {}

// Count counts the rows of a table matching an optional filter.
//
// Semantics:
//
//	SELECT COUNT(*) FROM <from> WHERE <filter>
type Count struct {
	From   string    // Table name
	Filter Predicate // WHERE conditions (nil = all rows)
}

func (Count) queryNode() {}

// Compare represents a field-op-literal predicate.
//
// Semantics:
//
//	<field> <op> <value>
//
// Op is one of the ir filter operators (=, !=, <, >, <=, >=). Comparing to
// ir.Null is only meaningful with = and != and compiles to IS [NOT] NULL.
type Compare struct {
	Field string   // Column name
	Op    string   // Filter operator
	Value ir.Value // Literal value, always parameterized
}

func (Compare) predicateNode() {}

// And represents a conjunction of predicates (all must be true).
// Empty Predicates means "always true".
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Eq is shorthand for an equality Compare.
func Eq(field string, v ir.Value) Compare {
	return Compare{Field: field, Op: ir.OpEq, Value: v}
}

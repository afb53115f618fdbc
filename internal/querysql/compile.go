package querysql

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/queryir"
)

// Dialect selects the small syntax differences between backends.
type Dialect string

const (
	DialectSQLite Dialect = "sqlite3"
	DialectDuckDB Dialect = "duckdb"
)

// SQLCompiler compiles QueryIR to parameterized SQL.
//
// CRITICAL: every Select includes ORDER BY for deterministic results.
// CRITICAL: all values are parameterized (never interpolated).
// Identifiers are double-quoted so column names like "Record" or "year"
// never collide with keywords.
type SQLCompiler struct {
	Dialect Dialect
}

// NewSQLCompiler creates a new SQLCompiler for the given dialect.
func NewSQLCompiler(d Dialect) *SQLCompiler {
	return &SQLCompiler{Dialect: d}
}

// Compile converts a QueryIR query to parameterized SQL.
// Returns (sql, params, error) tuple.
func (c *SQLCompiler) Compile(q queryir.Query) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil query")
	}

	switch query := q.(type) {
	case queryir.Select:
		return c.compileSelect(query)
	case *queryir.Select:
		return c.compileSelect(*query)
	case queryir.Count:
		return c.compileCount(query)
	case *queryir.Count:
		return c.compileCount(*query)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func (c *SQLCompiler) compileSelect(q queryir.Select) (string, []any, error) {
	if len(q.Fields) == 0 {
		return "", nil, fmt.Errorf("select from %q: no fields", q.From)
	}

	fields := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		fields[i] = QuoteIdent(f)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(" FROM ")
	b.WriteString(QuoteIdent(q.From))

	params, err := c.writeWhere(&b, q.Filter)
	if err != nil {
		return "", nil, err
	}

	// MANDATORY: always add ORDER BY
	b.WriteString(" ORDER BY ")
	b.WriteString(c.stableOrderKey(q))

	return b.String(), params, nil
}

// compileCount emits a single-row aggregate; no ORDER BY is needed.
func (c *SQLCompiler) compileCount(q queryir.Count) (string, []any, error) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM ")
	b.WriteString(QuoteIdent(q.From))

	params, err := c.writeWhere(&b, q.Filter)
	if err != nil {
		return "", nil, err
	}
	return b.String(), params, nil
}

func (c *SQLCompiler) writeWhere(b *strings.Builder, p queryir.Predicate) ([]any, error) {
	if p == nil {
		return nil, nil
	}
	sql, params, err := c.compilePredicate(p)
	if err != nil {
		return nil, fmt.Errorf("compile filter: %w", err)
	}
	b.WriteString(" WHERE ")
	b.WriteString(sql)
	return params, nil
}

// stableOrderKey returns the ORDER BY list for a select.
// Falls back to the selected fields when no explicit order is given.
func (c *SQLCompiler) stableOrderKey(q queryir.Select) string {
	keys := q.OrderBy
	if len(keys) == 0 {
		keys = q.Fields
	}

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = QuoteIdent(k) + c.collate() + " ASC"
	}
	return strings.Join(parts, ", ")
}

// collate pins byte-wise text ordering on SQLite; DuckDB already
// compares strings byte-wise by default.
func (c *SQLCompiler) collate() string {
	if c.Dialect == DialectSQLite {
		return " COLLATE BINARY"
	}
	return ""
}

// compilePredicate compiles a queryir.Predicate to a WHERE fragment.
// CRITICAL: values are never interpolated - always ? placeholders.
func (c *SQLCompiler) compilePredicate(p queryir.Predicate) (string, []any, error) {
	if p == nil {
		return "1 = 1", nil, nil // Always true
	}

	switch pred := p.(type) {
	case queryir.Compare:
		return c.compileCompare(pred)
	case *queryir.Compare:
		return c.compileCompare(*pred)
	case queryir.And:
		return c.compileAnd(pred)
	case *queryir.And:
		return c.compileAnd(*pred)
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

func (c *SQLCompiler) compileCompare(cmp queryir.Compare) (string, []any, error) {
	if !ir.ValidFilterOps[cmp.Op] {
		return "", nil, fmt.Errorf("field %q: unsupported operator %q", cmp.Field, cmp.Op)
	}
	field := QuoteIdent(cmp.Field)

	if _, isNull := cmp.Value.(ir.Null); isNull || cmp.Value == nil {
		switch cmp.Op {
		case ir.OpEq:
			return field + " IS NULL", nil, nil
		case ir.OpNe:
			return field + " IS NOT NULL", nil, nil
		default:
			return "", nil, fmt.Errorf("field %q: NULL cannot be compared with %q", cmp.Field, cmp.Op)
		}
	}

	param, err := valueToParam(cmp.Value)
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", cmp.Field, err)
	}

	op := cmp.Op
	if op == ir.OpNe {
		op = "<>"
	}
	return fmt.Sprintf("%s %s ?", field, op), []any{param}, nil
}

// compileAnd compiles an And predicate to a conjunction.
func (c *SQLCompiler) compileAnd(and queryir.And) (string, []any, error) {
	if len(and.Predicates) == 0 {
		return "1 = 1", nil, nil // Always true (vacuous truth)
	}

	var sqlParts []string
	var allParams []any

	for _, pred := range and.Predicates {
		sql, params, err := c.compilePredicate(pred)
		if err != nil {
			return "", nil, err
		}
		sqlParts = append(sqlParts, sql)
		allParams = append(allParams, params...)
	}

	if len(sqlParts) == 1 {
		return sqlParts[0], allParams, nil
	}
	return "(" + strings.Join(sqlParts, " AND ") + ")", allParams, nil
}

// QuoteIdent quotes an identifier with double quotes, doubling any
// embedded quote.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// valueToParam converts an ir.Value to a Go native type for a SQL parameter.
func valueToParam(v ir.Value) (any, error) {
	switch val := v.(type) {
	case ir.String:
		return string(val), nil
	case ir.Int:
		return int64(val), nil
	case ir.Float:
		return float64(val), nil
	case ir.Bool:
		return bool(val), nil
	case ir.Time:
		return time.Time(val), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}

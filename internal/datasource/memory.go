package datasource

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/vislens/internal/ir"
)

// MemTable is an immutable in-memory table.
type MemTable struct {
	name    string
	columns []Column
	index   map[string]int
	rows    [][]ir.Value
	cache   *ClassificationCache
}

var _ Source = (*MemTable)(nil)

// NewMemTable builds a table from Go values (anything ir.FromAny accepts).
// Columns with KindUnknown take the kind of their first non-null cell.
// Every row must have one cell per column, and every non-null cell must
// match its column's kind (ints are accepted in float columns).
func NewMemTable(name string, columns []Column, rows [][]any) (*MemTable, error) {
	if name == "" {
		return nil, fmt.Errorf("table name is required")
	}

	t := &MemTable{
		name:    name,
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]ir.Value, 0, len(rows)),
		cache:   NewClassificationCache(),
	}
	for i, c := range t.columns {
		if c.Name == "" {
			return nil, fmt.Errorf("column[%d]: empty name", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("column %q declared twice", c.Name)
		}
		t.index[c.Name] = i
	}

	for r, raw := range rows {
		if len(raw) != len(t.columns) {
			return nil, fmt.Errorf("row %d: expected %d cells, got %d", r, len(t.columns), len(raw))
		}
		row := make([]ir.Value, len(raw))
		for i, cell := range raw {
			v, err := ir.FromAny(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", r, t.columns[i].Name, err)
			}
			if err := t.checkKind(i, v); err != nil {
				return nil, fmt.Errorf("row %d: %w", r, err)
			}
			row[i] = v
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

// checkKind infers or enforces the kind of column i.
func (t *MemTable) checkKind(i int, v ir.Value) error {
	k := kindOf(v)
	if k == KindUnknown {
		return nil
	}
	col := &t.columns[i]
	switch {
	case col.Kind == KindUnknown:
		col.Kind = k
	case col.Kind == k:
	case col.Kind == KindFloat && k == KindInt:
	default:
		return fmt.Errorf("column %q: %s value %s in %s column", col.Name, k, v, col.Kind)
	}
	return nil
}

func kindOf(v ir.Value) Kind {
	switch v.(type) {
	case ir.Int:
		return KindInt
	case ir.Float:
		return KindFloat
	case ir.String:
		return KindString
	case ir.Bool:
		return KindBool
	case ir.Time:
		return KindTime
	default:
		return KindUnknown
	}
}

// Name returns the table name.
func (t *MemTable) Name() string { return t.name }

// Cache returns the table's classification cache.
func (t *MemTable) Cache() *ClassificationCache { return t.cache }

// Len returns the number of rows.
func (t *MemTable) Len() int { return len(t.rows) }

// Columns returns the columns in declared order.
func (t *MemTable) Columns(ctx context.Context) ([]Column, error) {
	return slices.Clone(t.columns), nil
}

// DistinctValues returns the sorted non-null values of a column.
func (t *MemTable) DistinctValues(ctx context.Context, column string) ([]ir.Value, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, columnNotFound(t.name, column)
	}

	var out []ir.Value
	for _, row := range t.rows {
		v := row[i]
		if _, isNull := v.(ir.Null); isNull {
			continue
		}
		out = append(out, v)
	}
	slices.SortFunc(out, ir.Compare)
	return slices.CompactFunc(out, ir.Equal), nil
}

// RowCount counts rows satisfying every filter, with SQL NULL semantics:
// a NULL cell matches only "= null", a non-null cell only "!= null".
func (t *MemTable) RowCount(ctx context.Context, filters []Filter) (int64, error) {
	idx := make([]int, len(filters))
	for f, flt := range filters {
		i, ok := t.index[flt.Attribute]
		if !ok {
			return 0, columnNotFound(t.name, flt.Attribute)
		}
		if !ir.ValidFilterOps[flt.Op] {
			return 0, fmt.Errorf("filter on %q: unsupported operator %q", flt.Attribute, flt.Op)
		}
		idx[f] = i
	}

	var n int64
	for _, row := range t.rows {
		if matchAll(row, filters, idx) {
			n++
		}
	}
	return n, nil
}

func matchAll(row []ir.Value, filters []Filter, idx []int) bool {
	for f, flt := range filters {
		if !Match(row[idx[f]], flt.Op, flt.Value) {
			return false
		}
	}
	return true
}

// Match evaluates cell op value with SQL NULL semantics.
func Match(cell ir.Value, op string, value ir.Value) bool {
	_, cellNull := cell.(ir.Null)
	_, valueNull := value.(ir.Null)
	if value == nil {
		valueNull = true
	}

	if valueNull {
		switch op {
		case ir.OpEq:
			return cellNull
		case ir.OpNe:
			return !cellNull
		default:
			return false
		}
	}
	if cellNull || !orderable(cell, value) {
		return op == ir.OpNe && !cellNull
	}

	c := ir.Compare(cell, value)
	switch op {
	case ir.OpEq:
		return c == 0
	case ir.OpNe:
		return c != 0
	case ir.OpLt:
		return c < 0
	case ir.OpGt:
		return c > 0
	case ir.OpLe:
		return c <= 0
	case ir.OpGe:
		return c >= 0
	}
	return false
}

// orderable reports whether ordering a against b is meaningful.
func orderable(a, b ir.Value) bool {
	ka, kb := kindOf(a), kindOf(b)
	return ka == kb || (ka.IsNumeric() && kb.IsNumeric())
}

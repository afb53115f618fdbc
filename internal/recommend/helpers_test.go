package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/testutil"
)

// newCars creates the cars fixture as a MemTable.
func newCars(t *testing.T) *datasource.MemTable {
	t.Helper()
	cols := make([]datasource.Column, len(testutil.CarsColumns))
	for i, name := range testutil.CarsColumns {
		cols[i] = datasource.Column{Name: name}
	}
	tbl, err := datasource.NewMemTable(testutil.CarsTable, cols, testutil.CarsRows())
	require.NoError(t, err)
	return tbl
}

// newEngine returns an engine over the cars fixture with a fixed run ID.
func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-1"))}, opts...)
	e, err := New(compiler.New(newCars(t), compiler.Options{}), opts...)
	require.NoError(t, err)
	return e
}

// carsSchema loads the classified cars schema.
func carsSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := LoadSchema(context.Background(), compiler.New(newCars(t), compiler.Options{}))
	require.NoError(t, err)
	return s
}

func intentStrings(intents []ir.Intent) []string {
	out := make([]string, len(intents))
	for i, in := range intents {
		out[i] = in.String()
	}
	return out
}

var errBackend = errors.New("backend unavailable")

// brokenSource fails DistinctValues and RowCount for every column.
type brokenSource struct {
	datasource.Source
}

func (b brokenSource) DistinctValues(ctx context.Context, column string) ([]ir.Value, error) {
	return nil, errBackend
}

func (b brokenSource) RowCount(ctx context.Context, filters []datasource.Filter) (int64, error) {
	return 0, errBackend
}

package compiler

import (
	"context"
	"errors"
	"testing"

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
	if err != nil {
		t.Fatalf("NewMemTable() failed: %v", err)
	}
	return tbl
}

// newCarsCompiler returns a compiler with default options over the cars fixture.
func newCarsCompiler(t *testing.T) *Compiler {
	t.Helper()
	return New(newCars(t), Options{})
}

var errBackend = errors.New("backend unavailable")

// brokenSource fails DistinctValues and RowCount for every column, as a
// database that dropped its connection would.
type brokenSource struct {
	datasource.Source
}

func (b brokenSource) DistinctValues(ctx context.Context, column string) ([]ir.Value, error) {
	return nil, errBackend
}

func (b brokenSource) RowCount(ctx context.Context, filters []datasource.Filter) (int64, error) {
	return 0, errBackend
}

// names returns the attribute names of clauses.
func names(clauses []ir.Clause) []string {
	out := make([]string, len(clauses))
	for i, c := range clauses {
		out[i] = c.AttributeName()
	}
	return out
}

// channelOf returns the channel of the first clause naming attr.
func channelOf(clauses []ir.Clause, attr string) ir.Channel {
	for _, c := range clauses {
		if c.AttributeName() == attr {
			return c.Channel
		}
	}
	return ir.ChannelNone
}

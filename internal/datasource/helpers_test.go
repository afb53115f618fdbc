package datasource

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/vislens/internal/testutil"
)

// newCarsTable creates the cars fixture as a MemTable.
func newCarsTable(t *testing.T) *MemTable {
	t.Helper()
	cols := make([]Column, len(testutil.CarsColumns))
	for i, name := range testutil.CarsColumns {
		cols[i] = Column{Name: name}
	}
	tbl, err := NewMemTable(testutil.CarsTable, cols, testutil.CarsRows())
	if err != nil {
		t.Fatalf("NewMemTable() failed: %v", err)
	}
	return tbl
}

// openCarsSQL loads the cars fixture into a fresh database file and opens
// it through OpenSQL.
func openCarsSQL(t *testing.T, driver string) *SQLTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars."+driver)

	db, err := sql.Open(driver, path)
	if err != nil {
		t.Fatalf("sql.Open(%s) failed: %v", driver, err)
	}
	testutil.LoadCars(t, db)
	if err := db.Close(); err != nil {
		t.Fatalf("close loader: %v", err)
	}

	tbl, err := OpenSQL(context.Background(), driver, path, testutil.CarsTable)
	if err != nil {
		t.Fatalf("OpenSQL(%s) failed: %v", driver, err)
	}
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

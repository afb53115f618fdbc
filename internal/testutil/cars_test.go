package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func TestCarsRowsShape(t *testing.T) {
	rows := CarsRows()
	require.Len(t, rows, 32)
	for i, r := range rows {
		assert.Len(t, r, len(CarsColumns), "row %d", i)
	}

	rows[0][0] = "mutated"
	assert.NotEqual(t, "mutated", CarsRows()[0][0], "CarsRows returns a copy")
}

func TestCarsCount(t *testing.T) {
	usa := CarsCount(func(r map[string]any) bool { return r["origin"] == "USA" })
	japan := CarsCount(func(r map[string]any) bool { return r["origin"] == "Japan" })
	europe := CarsCount(func(r map[string]any) bool { return r["origin"] == "Europe" })

	assert.Equal(t, 14, usa)
	assert.Equal(t, 9, japan)
	assert.Equal(t, 9, europe)
}

func TestLoadCarsSQLite(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "cars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	LoadCars(t, db)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM cars`).Scan(&n))
	assert.Equal(t, 32, n)
}

func TestInsertCarsTwiceFails(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "cars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InsertCars(db))
	err = InsertCars(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create cars")
}

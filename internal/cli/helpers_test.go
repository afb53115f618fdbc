package cli

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/testutil"
)

// carsDB writes the cars fixture to a temporary SQLite database and
// returns the data source flags for it.
func carsDB(t *testing.T) []string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cars.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	testutil.LoadCars(t, db)
	require.NoError(t, db.Close())
	return []string{"--driver", "sqlite3", "--db", path, "--table", testutil.CarsTable}
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

// writeFile writes content to name under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

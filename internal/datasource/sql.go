package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/vislens/internal/ir"
	"github.com/roach88/vislens/internal/queryir"
	"github.com/roach88/vislens/internal/querysql"
)

// Supported database/sql driver names.
const (
	DriverSQLite = "sqlite3"
	DriverDuckDB = "duckdb"
)

// SQLTable is one table behind a database/sql connection.
type SQLTable struct {
	db       *sql.DB
	ownsDB   bool
	driver   string
	table    string
	compiler *querysql.SQLCompiler
	logger   *slog.Logger
	columns  []Column
	cache    *ClassificationCache
}

var _ Source = (*SQLTable)(nil)

// SQLOption configures an SQLTable.
type SQLOption func(*SQLTable)

// WithLogger logs every compiled query at debug level.
func WithLogger(l *slog.Logger) SQLOption {
	return func(t *SQLTable) { t.logger = l }
}

// OpenSQL opens dsn with the given driver and binds to table.
//
// SQLite connections are configured with:
//   - WAL mode for concurrent reads
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - a single pooled connection
//
// The returned table owns the connection; Close releases it.
func OpenSQL(ctx context.Context, driver, dsn, table string, opts ...SQLOption) (*SQLTable, error) {
	if driver != DriverSQLite && driver != DriverDuckDB {
		return nil, fmt.Errorf("unsupported driver %q (want %s or %s)", driver, DriverSQLite, DriverDuckDB)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)

		if err := applyPragmas(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	t, err := NewSQLTable(ctx, db, driver, table, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	t.ownsDB = true
	return t, nil
}

// NewSQLTable binds to table on an existing connection. The caller keeps
// ownership of db.
func NewSQLTable(ctx context.Context, db *sql.DB, driver, table string, opts ...SQLOption) (*SQLTable, error) {
	t := &SQLTable{
		db:       db,
		driver:   driver,
		table:    table,
		compiler: querysql.NewSQLCompiler(querysql.Dialect(driver)),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:    NewClassificationCache(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Close releases the connection if the table opened it.
func (t *SQLTable) Close() error {
	if !t.ownsDB || t.db == nil {
		return nil
	}
	return t.db.Close()
}

// Name returns the table name.
func (t *SQLTable) Name() string { return t.table }

// Cache returns the table's classification cache.
func (t *SQLTable) Cache() *ClassificationCache { return t.cache }

// Columns returns the columns in declared order, as read by the last Refresh.
func (t *SQLTable) Columns(ctx context.Context) ([]Column, error) {
	return slices.Clone(t.columns), nil
}

// Refresh re-reads the table schema and invalidates the classification
// cache.
func (t *SQLTable) Refresh(ctx context.Context) error {
	var query string
	switch t.driver {
	case DriverSQLite:
		query = "SELECT name, type FROM pragma_table_info(?) ORDER BY cid ASC"
	case DriverDuckDB:
		query = "SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position ASC"
	default:
		return fmt.Errorf("unsupported driver %q", t.driver)
	}

	rows, err := t.db.QueryContext(ctx, query, t.table)
	if err != nil {
		return fmt.Errorf("read schema of %q: %w", t.table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var name, declType string
		if err := rows.Scan(&name, &declType); err != nil {
			return fmt.Errorf("scan schema of %q: %w", t.table, err)
		}
		cols = append(cols, Column{Name: name, Kind: KindFromDeclType(declType)})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read schema of %q: %w", t.table, err)
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q not found or has no columns", t.table)
	}

	t.columns = cols
	t.cache.Invalidate()
	t.logger.Debug("schema loaded", "table", t.table, "driver", t.driver, "columns", len(cols))
	return nil
}

// KindFromDeclType maps a declared SQL column type to a Kind, following
// SQLite's affinity rules and DuckDB's type names.
func KindFromDeclType(decl string) Kind {
	d := strings.ToUpper(decl)
	switch {
	case strings.Contains(d, "INTERVAL"):
		return KindUnknown
	case strings.Contains(d, "BOOL"):
		return KindBool
	case strings.Contains(d, "TIMESTAMP"), strings.Contains(d, "DATE"), strings.Contains(d, "TIME"):
		return KindTime
	case strings.Contains(d, "INT"):
		return KindInt
	case strings.Contains(d, "CHAR"), strings.Contains(d, "CLOB"), strings.Contains(d, "TEXT"),
		strings.Contains(d, "STRING"):
		return KindString
	case strings.Contains(d, "REAL"), strings.Contains(d, "FLOA"), strings.Contains(d, "DOUB"),
		strings.Contains(d, "DECIMAL"), strings.Contains(d, "NUMERIC"):
		return KindFloat
	default:
		return KindUnknown
	}
}

func (t *SQLTable) column(name string) (Column, error) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, columnNotFound(t.table, name)
}

// compile validates and compiles a query.
func (t *SQLTable) compile(q queryir.Query) (string, []any, error) {
	if res := queryir.Validate(q); !res.IsValid {
		return "", nil, fmt.Errorf("invalid query: %s", strings.Join(res.Problems, "; "))
	}
	query, params, err := t.compiler.Compile(q)
	if err != nil {
		return "", nil, err
	}
	t.logger.Debug("query", "sql", query, "params", len(params))
	return query, params, nil
}

// DistinctValues returns the sorted non-null values of a column.
func (t *SQLTable) DistinctValues(ctx context.Context, column string) ([]ir.Value, error) {
	col, err := t.column(column)
	if err != nil {
		return nil, err
	}

	query, params, err := t.compile(queryir.Select{
		From:     t.table,
		Fields:   []string{column},
		Distinct: true,
		Filter:   queryir.Compare{Field: column, Op: ir.OpNe, Value: ir.Null{}},
	})
	if err != nil {
		return nil, err
	}

	rows, err := t.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("distinct values of %s.%s: %w", t.table, column, err)
	}
	defer rows.Close()

	var out []ir.Value
	for rows.Next() {
		var raw any
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", t.table, column, err)
		}
		v, err := scannedValue(raw, col.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.table, column, err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct values of %s.%s: %w", t.table, column, err)
	}

	slices.SortFunc(out, ir.Compare)
	return slices.CompactFunc(out, ir.Equal), nil
}

// RowCount counts rows satisfying every filter.
func (t *SQLTable) RowCount(ctx context.Context, filters []Filter) (int64, error) {
	preds := make([]queryir.Predicate, len(filters))
	for i, f := range filters {
		if _, err := t.column(f.Attribute); err != nil {
			return 0, err
		}
		preds[i] = queryir.Compare{Field: f.Attribute, Op: f.Op, Value: f.Value}
	}

	q := queryir.Count{From: t.table}
	if len(preds) > 0 {
		q.Filter = queryir.And{Predicates: preds}
	}
	query, params, err := t.compile(q)
	if err != nil {
		return 0, err
	}

	var n int64
	if err := t.db.QueryRowContext(ctx, query, params...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.table, err)
	}
	return n, nil
}

// scannedValue converts a driver value to an ir.Value using the column
// kind to resolve driver-specific representations.
func scannedValue(raw any, kind Kind) (ir.Value, error) {
	switch v := raw.(type) {
	case int64:
		switch kind {
		case KindBool:
			return ir.Bool(v != 0), nil
		case KindFloat:
			return ir.Float(v), nil
		}
	case []byte:
		raw = string(v)
	case interface{ Float64() float64 }:
		// DECIMAL values from duckdb
		return ir.Float(v.Float64()), nil
	}

	if s, ok := raw.(string); ok && kind == KindTime {
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if ts, err := time.Parse(layout, s); err == nil {
				return ir.NewTime(ts), nil
			}
		}
	}
	return ir.FromAny(raw)
}

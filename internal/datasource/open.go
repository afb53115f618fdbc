package datasource

import (
	"context"
	"fmt"
)

// DriverArrow reads an Arrow IPC stream file into memory.
const DriverArrow = "arrow"

// Drivers lists the driver names accepted by Open.
var Drivers = []string{DriverSQLite, DriverDuckDB, DriverArrow}

// Open binds to table through driver. For the SQL drivers dsn is the
// database; for DriverArrow it is the file path and table may be empty.
//
// The returned close function releases the connection; it is a no-op for
// in-memory sources.
func Open(ctx context.Context, driver, dsn, table string, opts ...SQLOption) (Source, func() error, error) {
	if dsn == "" {
		return nil, nil, fmt.Errorf("%s: database path is required", driver)
	}

	switch driver {
	case DriverArrow:
		tbl, err := OpenArrowFile(dsn, table)
		if err != nil {
			return nil, nil, err
		}
		return tbl, func() error { return nil }, nil
	case DriverSQLite, DriverDuckDB:
		if table == "" {
			return nil, nil, fmt.Errorf("%s: table is required", driver)
		}
		tbl, err := OpenSQL(ctx, driver, dsn, table, opts...)
		if err != nil {
			return nil, nil, err
		}
		return tbl, tbl.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported driver %q (want one of %v)", driver, Drivers)
	}
}

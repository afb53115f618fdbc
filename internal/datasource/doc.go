// Package datasource provides the tabular data sources the intent compiler
// reads from.
//
// A Source exposes only what classification and expansion need:
//   - Columns: ordered column metadata (name and storage kind)
//   - DistinctValues: the sorted, non-null domain of one column
//   - RowCount: rows matching a conjunction of filters
//   - Cache: the per-source ClassificationCache
//
// # Implementations
//
//   - MemTable: in-memory rows, built directly or from an Arrow record
//     (FromArrow)
//   - SQLTable: one table behind database/sql, using the sqlite3 or duckdb
//     driver; queries are built as queryir values and compiled by querysql
//
// # Determinism
//
// Column order is the table's declared order. DistinctValues is always
// sorted with ir.Compare, whatever order the backend returned, so two
// backends holding the same data expand wildcards identically.
//
// # Cache ownership
//
// Each source owns one ClassificationCache. The compiler fills it; the
// source empties it when its schema may have changed (SQLTable.Refresh).
package datasource

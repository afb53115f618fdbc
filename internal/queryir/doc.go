// Package queryir provides the abstract queries issued by SQL-backed data
// sources.
//
// The compiler only ever asks a data source three things: which columns
// exist, which distinct values a column holds, and how many rows match a
// conjunction of filters. QueryIR captures the last two as backend-neutral
// values so the SQL text lives in one place (querysql) and can be tested
// without a database:
//
//	[datasource.SQLTable] → [Query IR] → [querysql] → sqlite3 / duckdb
//
// QUERY SHAPES:
//   - Select(from, fields, distinct, filter, order_by)
//   - Count(from, filter)
//   - Predicates: Compare (field op literal), And
//
// Query and Predicate are sealed interfaces using the marker method pattern,
// so backends can switch exhaustively over them.
//
// DETERMINISM:
// Every Select compiles with an ORDER BY. Callers that need a total order
// across backends (NULL placement differs between SQLite and DuckDB) still
// sort results with ir.Compare after scanning.
package queryir

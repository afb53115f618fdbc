// Package compiler turns intents into visualizations.
//
// An intent is an ordered list of clauses. Some clauses are fully resolved
// (one column, at most one value); others hold wildcards ("?") or lists of
// alternatives. The compiler runs five stages:
//
//	Expand          one Slot of options per clause; lazy Cartesian product
//	Classify        data model and data type per column, cached on the source
//	ResolveChannels x, y and color, explicit channels first
//	SelectMark      scatter, bar, line, histogram or unknown; derived sort,
//	                aggregation and the synthetic Record attribute
//	Build           single visualization or deduplicated collection
//
// # Error policy
//
// A fully resolved intent surfaces AttributeNotFoundError and
// DuplicateChannelError to the caller. While building a collection the
// same errors, plus EmptyDomainError and RedundantAttributeError, only drop
// the offending candidate. Data source I/O errors always propagate.
//
// # Determinism
//
// Options are generated in data source column order and distinct values in
// ir.Compare order. Collections keep enumeration order and are never
// re-sorted here.
package compiler

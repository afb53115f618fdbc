package recommend

import "github.com/roach88/vislens/internal/ir"

// Ranker orders an action's collection before the quota is applied.
// Implementations must not add visualizations.
type Ranker interface {
	Rank(action string, coll ir.Collection) ir.Collection
}

// RankerFunc adapts a function to the Ranker interface.
type RankerFunc func(action string, coll ir.Collection) ir.Collection

// Rank calls f.
func (f RankerFunc) Rank(action string, coll ir.Collection) ir.Collection {
	return f(action, coll)
}

// KeepOrder is the default ranker: enumeration order is the ranking.
type KeepOrder struct{}

// Rank returns coll unchanged.
func (KeepOrder) Rank(_ string, coll ir.Collection) ir.Collection {
	return coll
}

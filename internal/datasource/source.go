package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/vislens/internal/ir"
)

// ErrColumnNotFound is returned (wrapped) when a column does not exist.
var ErrColumnNotFound = errors.New("column not found")

// Kind is the storage kind of a column.
type Kind string

const (
	KindUnknown Kind = ""
	KindInt     Kind = "int"
	KindFloat   Kind = "float"
	KindString  Kind = "string"
	KindBool    Kind = "bool"
	KindTime    Kind = "time"
)

// IsNumeric reports whether values of this kind are numbers.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// Column describes one column of a source.
type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Filter restricts rows to those where Attribute Op Value holds.
type Filter struct {
	Attribute string
	Op        string
	Value     ir.Value
}

// Classification is the inferred role of a column.
type Classification struct {
	Model       ir.DataModel `json:"data_model"`
	Type        ir.DataType  `json:"data_type"`
	Kind        Kind         `json:"kind"`
	Cardinality int          `json:"cardinality"`
}

// Source is a table the compiler can classify, expand and filter.
// Implementations must return columns in a stable order and distinct
// values sorted with ir.Compare.
type Source interface {
	Name() string
	Columns(ctx context.Context) ([]Column, error)
	DistinctValues(ctx context.Context, column string) ([]ir.Value, error)
	RowCount(ctx context.Context, filters []Filter) (int64, error)
	Cache() *ClassificationCache
}

// LookupColumn finds a column by name.
// Returns an error wrapping ErrColumnNotFound when absent.
func LookupColumn(ctx context.Context, src Source, name string) (Column, error) {
	cols, err := src.Columns(ctx)
	if err != nil {
		return Column{}, err
	}
	for _, c := range cols {
		if c.Name == name {
			return c, nil
		}
	}
	return Column{}, columnNotFound(src.Name(), name)
}

func columnNotFound(table, column string) error {
	return fmt.Errorf("%s.%s: %w", table, column, ErrColumnNotFound)
}

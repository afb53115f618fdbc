package recommend

import (
	"context"
	"fmt"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
)

// ColumnInfo is a column with its inferred classification.
type ColumnInfo struct {
	Name string `json:"name"`
	datasource.Classification
}

// Schema is the classified column list of a source, loaded once per run.
type Schema struct {
	Columns []ColumnInfo
	src     datasource.Source
}

// LoadSchema classifies every column of the compiler's source, in source
// column order.
func LoadSchema(ctx context.Context, c *compiler.Compiler) (*Schema, error) {
	src := c.Source()
	cols, err := src.Columns(ctx)
	if err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", src.Name(), err)
	}

	s := &Schema{Columns: make([]ColumnInfo, 0, len(cols)), src: src}
	for _, col := range cols {
		cl, err := c.Classifier().Classify(ctx, col.Name)
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", col.Name, err)
		}
		s.Columns = append(s.Columns, ColumnInfo{Name: col.Name, Classification: cl})
	}
	return s, nil
}

// Select returns the names of columns accepted by keep, skipping those in
// exclude.
func (s *Schema) Select(keep func(ColumnInfo) bool, exclude []string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, n := range exclude {
		skip[n] = true
	}
	var out []string
	for _, col := range s.Columns {
		if !skip[col.Name] && keep(col) {
			out = append(out, col.Name)
		}
	}
	return out
}

// Lookup returns the classification of name.
func (s *Schema) Lookup(name string) (ColumnInfo, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnInfo{}, false
}

// Values returns the sorted distinct values of name.
func (s *Schema) Values(ctx context.Context, name string) ([]ir.Value, error) {
	return s.src.DistinctValues(ctx, name)
}

func isMeasure(c ColumnInfo) bool {
	return c.Model == ir.ModelMeasure
}

func isNominal(c ColumnInfo) bool {
	return c.Model == ir.ModelDimension && c.Type == ir.TypeNominal
}

func isTemporal(c ColumnInfo) bool {
	return c.Type == ir.TypeTemporal
}

package compiler

import (
	"context"
	"errors"
	"strings"

	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
)

// Classifier infers the data model and data type of columns.
// Results are stored in the source's ClassificationCache.
type Classifier struct {
	src  datasource.Source
	opts Options
}

// NewClassifier creates a classifier over src.
func NewClassifier(src datasource.Source, opts Options) *Classifier {
	return &Classifier{src: src, opts: opts.withDefaults()}
}

// Classify returns the classification of a column:
//   - time columns are temporal dimensions
//   - integer columns named like a date part (year, month, ...) are
//     temporal dimensions
//   - numeric columns with at least NominalCardinality distinct values
//     are quantitative measures
//   - everything else is a nominal dimension
//
// Returns *AttributeNotFoundError for unknown columns.
func (c *Classifier) Classify(ctx context.Context, name string) (datasource.Classification, error) {
	cache := c.src.Cache()
	if cl, ok := cache.Get(name); ok {
		return cl, nil
	}

	col, err := datasource.LookupColumn(ctx, c.src, name)
	if err != nil {
		return datasource.Classification{}, wrapNotFound(c.src, name, err)
	}

	values, err := c.src.DistinctValues(ctx, name)
	if err != nil {
		return datasource.Classification{}, wrapNotFound(c.src, name, err)
	}

	cl := datasource.Classification{Kind: col.Kind, Cardinality: len(values)}
	switch {
	case col.Kind == datasource.KindTime:
		cl.Model, cl.Type = ir.ModelDimension, ir.TypeTemporal
	case col.Kind == datasource.KindInt && c.isTemporalName(name):
		cl.Model, cl.Type = ir.ModelDimension, ir.TypeTemporal
	case col.Kind.IsNumeric() && cl.Cardinality >= c.opts.NominalCardinality:
		cl.Model, cl.Type = ir.ModelMeasure, ir.TypeQuantitative
	default:
		cl.Model, cl.Type = ir.ModelDimension, ir.TypeNominal
	}

	cache.Put(name, cl)
	return cl, nil
}

// wrapNotFound turns a missing-column error from src into an
// *AttributeNotFoundError.
func wrapNotFound(src datasource.Source, name string, err error) error {
	if errors.Is(err, datasource.ErrColumnNotFound) {
		return &AttributeNotFoundError{Attribute: name, Source: src.Name(), Err: err}
	}
	return err
}

// isTemporalName reports whether any segment of name is a temporal hint.
func (c *Classifier) isTemporalName(name string) bool {
	segments := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
	for _, seg := range segments {
		for _, hint := range c.opts.TemporalNames {
			if seg == strings.ToLower(hint) {
				return true
			}
		}
	}
	return false
}

// Annotate fills DataModel and DataType on every clause naming a single
// column. Explicit values on the clause win:
//   - model and type both set: kept
//   - model only: measure implies quantitative; dimension keeps the
//     inferred type unless that is quantitative, then nominal
//   - type only: quantitative implies measure, anything else dimension
//
// The synthetic Record attribute is left untouched.
func (c *Classifier) Annotate(ctx context.Context, clauses []ir.Clause) error {
	for i := range clauses {
		cl := &clauses[i]
		name, ok := cl.Name()
		if !ok || name == ir.RecordAttribute {
			continue
		}

		inferred, err := c.Classify(ctx, name)
		if err != nil {
			return err
		}
		cl.DataModel, cl.DataType = resolveOverrides(cl.DataModel, cl.DataType, inferred)
	}
	return nil
}

func resolveOverrides(model ir.DataModel, typ ir.DataType, inferred datasource.Classification) (ir.DataModel, ir.DataType) {
	switch {
	case model != ir.ModelUnknown && typ != ir.TypeUnknown:
		return model, typ
	case model == ir.ModelMeasure:
		return model, ir.TypeQuantitative
	case model == ir.ModelDimension:
		if inferred.Type == ir.TypeQuantitative {
			return model, ir.TypeNominal
		}
		return model, inferred.Type
	case typ == ir.TypeQuantitative:
		return ir.ModelMeasure, typ
	case typ != ir.TypeUnknown:
		return ir.ModelDimension, typ
	default:
		return inferred.Model, inferred.Type
	}
}

// matches reports whether a classification satisfies a wildcard's
// model and type constraints.
func matches(w ir.AttrWildcard, cl datasource.Classification) bool {
	if w.Model != ir.ModelUnknown && w.Model != cl.Model {
		return false
	}
	if w.Type != ir.TypeUnknown && w.Type != cl.Type {
		return false
	}
	return true
}

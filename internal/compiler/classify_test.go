package compiler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
)

func TestClassify_CarsColumns(t *testing.T) {
	c := NewClassifier(newCars(t), Options{})
	ctx := context.Background()

	tests := []struct {
		column string
		model  ir.DataModel
		typ    ir.DataType
	}{
		{"name", ir.ModelDimension, ir.TypeNominal},
		{"milespergal", ir.ModelMeasure, ir.TypeQuantitative},
		{"displacement", ir.ModelMeasure, ir.TypeQuantitative},
		{"horsepower", ir.ModelMeasure, ir.TypeQuantitative},
		{"weight", ir.ModelMeasure, ir.TypeQuantitative},
		{"acceleration", ir.ModelMeasure, ir.TypeQuantitative},
		{"year", ir.ModelDimension, ir.TypeTemporal},
		{"origin", ir.ModelDimension, ir.TypeNominal},
		{"brand", ir.ModelDimension, ir.TypeNominal},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			cl, err := c.Classify(ctx, tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.model, cl.Model)
			assert.Equal(t, tt.typ, cl.Type)
		})
	}
}

func TestClassify_RecordsCardinalityAndKind(t *testing.T) {
	c := NewClassifier(newCars(t), Options{})

	cl, err := c.Classify(context.Background(), "origin")
	require.NoError(t, err)
	assert.Equal(t, 3, cl.Cardinality)
	assert.Equal(t, datasource.KindString, cl.Kind)
}

func TestClassify_UnknownAttribute(t *testing.T) {
	c := NewClassifier(newCars(t), Options{})

	_, err := c.Classify(context.Background(), "mpg")
	require.Error(t, err)
	assert.True(t, IsAttributeNotFound(err))
	assert.True(t, errors.Is(err, datasource.ErrColumnNotFound))

	var notFound *AttributeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "mpg", notFound.Attribute)
	assert.Equal(t, "cars", notFound.Source)
}

func TestClassify_CachesOnSource(t *testing.T) {
	src := newCars(t)
	c := NewClassifier(src, Options{})
	ctx := context.Background()

	_, err := c.Classify(ctx, "weight")
	require.NoError(t, err)
	_, err = c.Classify(ctx, "weight")
	require.NoError(t, err)
	assert.Equal(t, 1, src.Cache().Len())

	// A second classifier over the same source reuses the entries.
	other := NewClassifier(src, Options{NominalCardinality: 1000})
	cl, err := other.Classify(ctx, "weight")
	require.NoError(t, err)
	assert.Equal(t, ir.ModelMeasure, cl.Model, "cached entry wins until invalidated")

	src.Cache().Invalidate()
	cl, err = other.Classify(ctx, "weight")
	require.NoError(t, err)
	assert.Equal(t, ir.ModelDimension, cl.Model)
}

func TestClassify_NominalCardinalityThreshold(t *testing.T) {
	c := NewClassifier(newCars(t), Options{NominalCardinality: 40})

	cl, err := c.Classify(context.Background(), "milespergal")
	require.NoError(t, err)
	assert.Equal(t, ir.ModelDimension, cl.Model)
	assert.Equal(t, ir.TypeNominal, cl.Type)
}

func TestClassify_TimeAndTemporalNames(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := [][]any{
		{base, 1, 10, "a"},
		{base.AddDate(0, 1, 0), 2, 20, "b"},
		{base.AddDate(0, 2, 0), 3, 30, "c"},
	}
	src, err := datasource.NewMemTable("events", []datasource.Column{
		{Name: "created_at"}, {Name: "order_month"}, {Name: "amount"}, {Name: "label"},
	}, rows)
	require.NoError(t, err)

	c := NewClassifier(src, Options{})
	ctx := context.Background()

	cl, err := c.Classify(ctx, "created_at")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeTemporal, cl.Type, "time kind")

	cl, err = c.Classify(ctx, "order_month")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeTemporal, cl.Type, "name segment hint")

	cl, err = c.Classify(ctx, "amount")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeNominal, cl.Type, "low-cardinality numeric")

	// Custom hints replace the defaults.
	custom := NewClassifier(src, Options{TemporalNames: []string{"amount"}})
	src.Cache().Invalidate()
	cl, err = custom.Classify(ctx, "amount")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeTemporal, cl.Type)
	cl, err = custom.Classify(ctx, "order_month")
	require.NoError(t, err)
	assert.Equal(t, ir.TypeNominal, cl.Type)
}

func TestResolveOverrides(t *testing.T) {
	quant := datasource.Classification{Model: ir.ModelMeasure, Type: ir.TypeQuantitative}
	nominal := datasource.Classification{Model: ir.ModelDimension, Type: ir.TypeNominal}
	temporal := datasource.Classification{Model: ir.ModelDimension, Type: ir.TypeTemporal}

	tests := []struct {
		name      string
		model     ir.DataModel
		typ       ir.DataType
		inferred  datasource.Classification
		wantModel ir.DataModel
		wantType  ir.DataType
	}{
		{"inferred", "", "", quant, ir.ModelMeasure, ir.TypeQuantitative},
		{"both explicit", ir.ModelDimension, ir.TypeOrdinal, quant, ir.ModelDimension, ir.TypeOrdinal},
		{"measure only", ir.ModelMeasure, "", nominal, ir.ModelMeasure, ir.TypeQuantitative},
		{"dimension over measure", ir.ModelDimension, "", quant, ir.ModelDimension, ir.TypeNominal},
		{"dimension keeps temporal", ir.ModelDimension, "", temporal, ir.ModelDimension, ir.TypeTemporal},
		{"quantitative only", "", ir.TypeQuantitative, nominal, ir.ModelMeasure, ir.TypeQuantitative},
		{"ordinal only", "", ir.TypeOrdinal, quant, ir.ModelDimension, ir.TypeOrdinal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ty := resolveOverrides(tt.model, tt.typ, tt.inferred)
			assert.Equal(t, tt.wantModel, m)
			assert.Equal(t, tt.wantType, ty)
		})
	}
}

func TestAnnotate_SkipsRecordAndWildcards(t *testing.T) {
	c := NewClassifier(newCars(t), Options{})
	clauses := []ir.Clause{
		ir.Attr("horsepower"),
		ir.Attr(ir.RecordAttribute),
		ir.AnyAttr(),
	}

	require.NoError(t, c.Annotate(context.Background(), clauses))
	assert.Equal(t, ir.ModelMeasure, clauses[0].DataModel)
	assert.Equal(t, ir.ModelUnknown, clauses[1].DataModel)
	assert.Equal(t, ir.ModelUnknown, clauses[2].DataModel)
}

func TestAnnotate_PropagatesNotFound(t *testing.T) {
	c := NewClassifier(newCars(t), Options{})
	err := c.Annotate(context.Background(), []ir.Clause{ir.Attr("weight"), ir.Attr("nope")})
	assert.True(t, IsAttributeNotFound(err))
}

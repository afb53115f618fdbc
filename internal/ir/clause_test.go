package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecsSealed(t *testing.T) {
	var _ AttributeSpec = AttrName("weight")
	var _ AttributeSpec = AttrList{"horsepower", "weight"}
	var _ AttributeSpec = AttrWildcard{}

	var _ ValueSpec = NoValue{}
	var _ ValueSpec = Scalar{V: String("USA")}
	var _ ValueSpec = ValueList{String("USA"), String("Japan")}
	var _ ValueSpec = ValueWildcard{}
}

func TestClauseClassification(t *testing.T) {
	tests := []struct {
		name       string
		clause     Clause
		filter     bool
		wildcard   bool
		multiValue bool
		resolved   bool
	}{
		{"attribute", Attr("weight"), false, false, false, true},
		{"filter", Filter("origin", OpEq, String("USA")), true, false, false, true},
		{"attribute wildcard", AnyAttr(), false, true, false, false},
		{
			"value wildcard",
			Clause{Attribute: AttrName("origin"), Value: ValueWildcard{}},
			true, true, false, false,
		},
		{
			"attribute list",
			Clause{Attribute: AttrList{"horsepower", "weight"}, Value: NoValue{}},
			false, false, true, false,
		},
		{
			"value list",
			Clause{Attribute: AttrName("origin"), Value: ValueList{String("Japan"), String("USA")}},
			true, false, true, false,
		},
		{"nil value is attribute", Clause{Attribute: AttrName("year")}, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.filter, tt.clause.IsFilter(), "IsFilter")
			assert.Equal(t, tt.wildcard, tt.clause.HasWildcard(), "HasWildcard")
			assert.Equal(t, tt.multiValue, tt.clause.IsMultiValue(), "IsMultiValue")
			assert.Equal(t, tt.resolved, tt.clause.IsResolved(), "IsResolved")
		})
	}
}

func TestClauseWithModelOnWildcard(t *testing.T) {
	c := AnyAttr().WithModel(ModelMeasure)

	assert.Equal(t, ModelMeasure, c.DataModel)
	assert.Equal(t, AttrWildcard{Model: ModelMeasure}, c.Attribute)

	named := Attr("weight").WithType(TypeQuantitative)
	assert.Equal(t, AttrName("weight"), named.Attribute)
	assert.Equal(t, TypeQuantitative, named.DataType)
}

func TestClauseOpDefault(t *testing.T) {
	assert.Equal(t, "=", Clause{}.Op())
	assert.Equal(t, ">", Clause{FilterOp: ">"}.Op())
}

func TestClauseNormalize(t *testing.T) {
	c := Clause{
		Attribute: AttrList{"origin"},
		Value:     ValueList{String("USA")},
	}.Normalize()

	assert.Equal(t, AttrName("origin"), c.Attribute)
	assert.Equal(t, Scalar{V: String("USA")}, c.Value)
	assert.Equal(t, OpEq, c.FilterOp)

	empty := Clause{DataModel: ModelMeasure}.Normalize()
	assert.Equal(t, AttrWildcard{Model: ModelMeasure}, empty.Attribute)
	assert.Equal(t, NoValue{}, empty.Value)
}

func TestClauseString(t *testing.T) {
	tests := []struct {
		clause   Clause
		expected string
	}{
		{Attr("weight"), "weight"},
		{Attr("milespergal").OnChannel(ChannelX), "milespergal@x"},
		{AnyAttr(), "?"},
		{Filter("origin", OpEq, String("USA")), "origin=USA"},
		{Filter("year", OpGe, Int(75)), "year>=75"},
		{Clause{Attribute: AttrName("origin"), Value: ValueWildcard{}}, "origin=?"},
		{Clause{Attribute: AttrList{"horsepower", "weight"}}, "horsepower|weight"},
		{Clause{Attribute: AttrName("origin"), Value: ValueList{String("Japan"), String("USA")}}, "origin=Japan|USA"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.clause.String())
		})
	}
}

func TestIntentIsEnumerable(t *testing.T) {
	assert.False(t, Intent{Attr("milespergal"), Attr("weight")}.IsEnumerable())
	assert.False(t, Intent{Attr("milespergal"), Filter("origin", OpEq, String("USA"))}.IsEnumerable())
	assert.True(t, Intent{AnyAttr(), Attr("milespergal")}.IsEnumerable())
	assert.True(t, Intent{
		Attr("horsepower"),
		{Attribute: AttrName("origin"), Value: ValueList{String("Japan"), String("USA")}},
	}.IsEnumerable())
	assert.False(t, Intent{{Attribute: AttrList{"weight"}}}.IsEnumerable(),
		"single element list is not a multi-value")
	assert.True(t, Intent{{Channel: ChannelX}}.IsEnumerable(),
		"missing attribute is a wildcard")
}

func TestIntentNormalize(t *testing.T) {
	in := Intent{{Channel: ChannelX}, {Attribute: AttrList{"weight"}}}

	out := in.Normalize()
	require.Len(t, out, 2)
	assert.Equal(t, AttrWildcard{}, out[0].Attribute)
	assert.Equal(t, AttrName("weight"), out[1].Attribute)
	assert.Nil(t, in[0].Attribute, "input is not modified")
	assert.Equal(t, in.IsEnumerable(), out.IsEnumerable())
}

func TestIntentPartitions(t *testing.T) {
	in := Intent{
		Attr("horsepower"),
		Filter("origin", OpEq, String("USA")),
		{Attribute: AttrList{"weight", "horsepower"}},
		AnyAttr(),
	}

	assert.Len(t, in.Attributes(), 3)
	assert.Len(t, in.Filters(), 1)
	assert.Equal(t, []string{"horsepower", "origin", "weight"}, in.BoundNames())
	assert.Equal(t, "[horsepower, origin=USA, weight|horsepower, ?]", in.String())
}

func TestIntentCloneIsIndependent(t *testing.T) {
	in := Intent{Attr("weight")}
	out := in.Clone()
	out[0] = Attr("horsepower")

	assert.Equal(t, "weight", in[0].AttributeName())
}

package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestRawClauseFromYAML(t *testing.T) {
	src := `
- attribute: "?"
  data_model: measure
- attribute: [horsepower, weight]
- attribute: origin
  value: [USA, Japan]
- attribute: year
  filter_op: ">="
  value: 75
- attribute: origin
  value: "?"
- attribute: milespergal
  channel: x
`
	var raw []RawClause
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))

	in, err := IntentFromRaw(raw)
	require.NoError(t, err)
	require.Len(t, in, 6)

	assert.Equal(t, AttrWildcard{Model: ModelMeasure}, in[0].Attribute)
	assert.Equal(t, ModelMeasure, in[0].DataModel)
	assert.Equal(t, AttrList{"horsepower", "weight"}, in[1].Attribute)
	assert.Equal(t, ValueList{String("USA"), String("Japan")}, in[2].Value)
	assert.Equal(t, Filter("year", OpGe, Int(75)), in[3])
	assert.Equal(t, ValueWildcard{}, in[4].Value)
	assert.Equal(t, ChannelX, in[5].Channel)
	assert.Equal(t, NoValue{}, in[5].Value)
}

func TestRawClauseRejectsBadAttribute(t *testing.T) {
	_, err := RawClause{Attribute: 12}.ToClause()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected string or list")

	_, err = RawClause{Attribute: []any{"weight", 3}}.ToClause()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attribute[1]")
}

func TestClauseJSONRoundTrip(t *testing.T) {
	clauses := []Clause{
		Attr("weight").OnChannel(ChannelY),
		Filter("year", OpGe, Int(75)),
		Filter("acceleration", OpLt, Float(12.5)),
		{Attribute: AttrList{"horsepower", "weight"}, Value: NoValue{}, FilterOp: OpEq},
		{Attribute: AttrName("origin"), Value: ValueWildcard{}, FilterOp: OpEq},
		AnyAttr().WithModel(ModelMeasure),
	}

	for _, c := range clauses {
		t.Run(c.String(), func(t *testing.T) {
			data, err := json.Marshal(c)
			require.NoError(t, err)

			var back Clause
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, c, back)
		})
	}
}

func TestClauseJSONShape(t *testing.T) {
	c := Filter("origin", OpEq, String("USA"))
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"attribute":"origin","value":"USA","filter_op":"="}`, string(data))

	rec := Attr(RecordAttribute).OnChannel(ChannelY)
	rec.DataModel = ModelMeasure
	rec.DataType = TypeQuantitative
	rec.Aggregation = AggCount
	data, err = json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"attribute":"Record","channel":"y","data_model":"measure","data_type":"quantitative","aggregation":"count"}`, string(data))
}

func TestIntentFromAny_MixedShorthandAndMaps(t *testing.T) {
	src := `
- "origin=?"
- attribute: milespergal
  channel: y
- horsepower|weight
`
	var items []any
	require.NoError(t, yaml.Unmarshal([]byte(src), &items))

	in, err := IntentFromAny(items)
	require.NoError(t, err)
	require.Len(t, in, 3)

	assert.Equal(t, ValueWildcard{}, in[0].Value)
	assert.Equal(t, AttrName("milespergal"), in[1].Attribute)
	assert.Equal(t, ChannelY, in[1].Channel)
	assert.Equal(t, AttrList{"horsepower", "weight"}, in[2].Attribute)
}

func TestIntentFromAny_RejectsUnknownField(t *testing.T) {
	_, err := IntentFromAny([]any{map[string]any{"atribute": "origin"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "atribute")

	_, err = IntentFromAny([]any{42})
	require.Error(t, err)
}

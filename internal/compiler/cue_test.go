package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/ir"
)

func compileCUE(t *testing.T, src string) (ir.Intent, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename("intent.cue"))
	require.NoError(t, v.Err())
	return CompileIntent(v.LookupPath(cue.ParsePath("intent")))
}

func TestCompileIntent_Structs(t *testing.T) {
	intent, err := compileCUE(t, `
intent: [
	{attribute: "?", data_model: "measure"},
	{attribute: "milespergal", channel: "x"},
	{attribute: "origin", value: ["Japan", "USA"]},
	{attribute: "year", filter_op: ">=", value: 75},
	{attribute: ["horsepower", "weight"]},
]
`)
	require.NoError(t, err)
	require.Len(t, intent, 5)

	assert.Equal(t, ir.AttrWildcard{Model: ir.ModelMeasure}, intent[0].Attribute)
	assert.Equal(t, ir.ModelMeasure, intent[0].DataModel)

	assert.Equal(t, ir.AttrName("milespergal"), intent[1].Attribute)
	assert.Equal(t, ir.ChannelX, intent[1].Channel)

	assert.Equal(t, ir.ValueList{ir.String("Japan"), ir.String("USA")}, intent[2].Value)

	v, ok := intent[3].FilterValue()
	require.True(t, ok)
	assert.Equal(t, ir.Int(75), v)
	assert.Equal(t, ir.OpGe, intent[3].Op())

	assert.Equal(t, ir.AttrList{"horsepower", "weight"}, intent[4].Attribute)
	assert.Empty(t, Validate(intent))
}

func TestCompileIntent_Shorthand(t *testing.T) {
	intent, err := compileCUE(t, `
intent: ["?", "milespergal@x", "origin=?"]
`)
	require.NoError(t, err)
	require.Len(t, intent, 3)
	assert.Equal(t, ir.MustParseIntent("?", "milespergal@x", "origin=?"), intent)
}

func TestCompileIntent_ScalarKinds(t *testing.T) {
	intent, err := compileCUE(t, `
intent: [
	{attribute: "weight", filter_op: "<", value: 2500.5},
	{attribute: "imported", value: true},
	{attribute: "origin", value: "?"},
]
`)
	require.NoError(t, err)

	v, _ := intent[0].FilterValue()
	assert.Equal(t, ir.Float(2500.5), v)
	v, _ = intent[1].FilterValue()
	assert.Equal(t, ir.Bool(true), v)
	assert.Equal(t, ir.ValueWildcard{}, intent[2].Value)
}

func TestCompileIntent_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"not a list", `intent: {attribute: "weight"}`, "intent"},
		{"empty list", `intent: []`, "intent"},
		{"unknown field", `intent: [{attribute: "weight", colour: "x"}]`, "colour"},
		{"bad element kind", `intent: [42]`, "clause"},
		{"non-string channel", `intent: [{attribute: "weight", channel: 1}]`, "channel"},
		{"non-string attribute list", `intent: [{attribute: ["weight", 2]}]`, "attribute"},
		{"bad shorthand", `intent: ["weight@size"]`, "clause"},
		{"incomplete value", `intent: [{attribute: "year", value: int}]`, "value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileCUE(t, tt.src)
			require.Error(t, err)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestCompileIntent_ErrorPosition(t *testing.T) {
	_, err := compileCUE(t, `intent: [
	"weight",
	{attribute: "origin", bogus: 1},
]`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	require.True(t, ce.Pos.IsValid())
	assert.Equal(t, 3, ce.Pos.Line())
	assert.Contains(t, err.Error(), "intent[1]")
	assert.Contains(t, err.Error(), "intent.cue:3:")
}

package compiler

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/ir"
)

func TestExpand_AttributeWildcardExcludesBound(t *testing.T) {
	c := newCarsCompiler(t)
	intent := ir.MustParseIntent("?", "milespergal@x")

	exp, err := c.Expand(context.Background(), intent)
	require.NoError(t, err)
	require.Len(t, exp.Slots, 2)

	assert.Equal(t, []string{
		"name", "displacement", "horsepower", "weight",
		"acceleration", "year", "origin", "brand",
	}, names(exp.Slots[0].Options), "source column order, milespergal excluded")
	assert.Len(t, exp.Slots[1].Options, 1)
	assert.Equal(t, 8, exp.Size())

	wild := exp.Wildcards()
	require.Len(t, wild, 1)
	assert.Len(t, wild[0], 8)
}

func TestExpand_WildcardModelFilter(t *testing.T) {
	c := newCarsCompiler(t)
	intent := ir.Intent{
		ir.AnyAttr().WithModel(ir.ModelMeasure),
		ir.Attr("milespergal"),
	}

	exp, err := c.Expand(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, []string{"displacement", "horsepower", "weight", "acceleration"},
		names(exp.Slots[0].Options))
}

func TestExpand_WildcardTypeFilter(t *testing.T) {
	c := newCarsCompiler(t)

	exp, err := c.Expand(context.Background(), ir.Intent{ir.AnyAttr().WithType(ir.TypeTemporal)})
	require.NoError(t, err)
	assert.Equal(t, []string{"year"}, names(exp.Slots[0].Options))

	// The only temporal column is already bound: no candidates at all.
	exp, err = c.Expand(context.Background(), ir.Intent{
		ir.AnyAttr().WithType(ir.TypeTemporal),
		ir.Attr("year"),
	})
	require.NoError(t, err)
	assert.Empty(t, exp.Slots[0].Options)
	assert.Equal(t, 0, exp.Size())

	n := 0
	for range exp.Candidates() {
		n++
	}
	assert.Equal(t, 0, n)
}

func TestExpand_ValueWildcard(t *testing.T) {
	c := newCarsCompiler(t)

	exp, err := c.Expand(context.Background(), ir.MustParseIntent("origin=?", "milespergal"))
	require.NoError(t, err)

	opts := exp.Slots[0].Options
	require.Len(t, opts, 3)
	for i, want := range []string{"Europe", "Japan", "USA"} {
		v, ok := opts[i].FilterValue()
		require.True(t, ok)
		assert.Equal(t, ir.String(want), v)
		assert.Equal(t, ir.OpEq, opts[i].Op())
	}
}

func TestExpand_ValueListIsNotWidened(t *testing.T) {
	c := newCarsCompiler(t)

	exp, err := c.Expand(context.Background(), ir.MustParseIntent("origin=Japan|USA", "horsepower"))
	require.NoError(t, err)
	assert.Len(t, exp.Slots[0].Options, 2, "unlisted Europe is never added")
	assert.Empty(t, exp.Wildcards(), "lists are not wildcards")
}

func TestExpand_UnknownColumnBehindValueWildcard(t *testing.T) {
	c := newCarsCompiler(t)

	exp, err := c.Expand(context.Background(), ir.MustParseIntent("country=?", "weight"))
	require.NoError(t, err)
	assert.Empty(t, exp.Slots[0].Options)
	assert.Equal(t, 0, exp.Size())
}

func TestExpand_PropagatesBackendErrors(t *testing.T) {
	c := New(brokenSource{Source: newCars(t)}, Options{})

	_, err := c.Expand(context.Background(), ir.MustParseIntent("origin=?"))
	require.ErrorIs(t, err, errBackend)
}

func TestCandidates_CartesianOrder(t *testing.T) {
	c := newCarsCompiler(t)
	intent := ir.MustParseIntent("horsepower|weight", "brand", "origin=Japan|USA")

	exp, err := c.Expand(context.Background(), intent)
	require.NoError(t, err)
	assert.Equal(t, 4, exp.Size())

	var got []string
	for cand := range exp.Candidates() {
		require.Len(t, cand, 3)
		got = append(got, ir.Intent(cand).String())
	}
	assert.Equal(t, []string{
		"[horsepower, brand, origin=Japan]",
		"[horsepower, brand, origin=USA]",
		"[weight, brand, origin=Japan]",
		"[weight, brand, origin=USA]",
	}, got, "last slot varies fastest")
}

func TestCandidates_StopsEarly(t *testing.T) {
	c := newCarsCompiler(t)
	exp, err := c.Expand(context.Background(), ir.MustParseIntent("?", "?"))
	require.NoError(t, err)
	assert.Equal(t, 81, exp.Size())

	n := 0
	for range exp.Candidates() {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestCandidates_FreshSlices(t *testing.T) {
	c := newCarsCompiler(t)
	exp, err := c.Expand(context.Background(), ir.MustParseIntent("origin=?"))
	require.NoError(t, err)

	var all [][]ir.Clause
	for cand := range exp.Candidates() {
		all = append(all, cand)
	}
	require.Len(t, all, 3)
	all[0][0].Channel = ir.ChannelX
	assert.Equal(t, ir.ChannelNone, all[1][0].Channel)
	assert.Equal(t, ir.ChannelNone, exp.Slots[0].Options[0].Channel)
}

func TestExpansion_SizeSaturates(t *testing.T) {
	two := []ir.Clause{ir.Attr("weight"), ir.Attr("horsepower")}
	exp := &Expansion{Slots: make([]Slot, 64)}
	for i := range exp.Slots {
		exp.Slots[i] = Slot{Position: i, Options: two}
	}
	assert.Equal(t, math.MaxInt, exp.Size())

	n := 0
	for cand := range exp.Candidates() {
		require.Len(t, cand, 64)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n, "an overflowing product still yields candidates")
}

func TestExpansion_EmptySlotYieldsNothing(t *testing.T) {
	exp := &Expansion{Slots: []Slot{
		{Position: 0, Options: []ir.Clause{ir.Attr("weight")}},
		{Position: 1},
	}}
	assert.Equal(t, 0, exp.Size())
	for range exp.Candidates() {
		t.Fatal("no candidates expected")
	}
}

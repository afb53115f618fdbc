package recommend

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vislens/internal/compiler"
	"github.com/roach88/vislens/internal/ir"
)

func collectionSizes(r *Report) map[string]int {
	out := make(map[string]int, len(r.Results))
	for _, res := range r.Results {
		out[res.Action] = len(res.Collection)
	}
	return out
}

func TestRecommend_NoIntent(t *testing.T) {
	e := newEngine(t)

	report, err := e.Recommend(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, "run-1", report.RunID)
	assert.Empty(t, report.Current)
	assert.Equal(t, []string{"Correlation", "Distribution", "Occurrence", "Temporal"}, report.Names())
	assert.Equal(t, map[string]int{
		"Correlation":  10,
		"Distribution": 5,
		"Occurrence":   3,
		"Temporal":     1,
	}, collectionSizes(report))

	corr, ok := report.Result("Correlation")
	require.True(t, ok)
	for _, vis := range corr.Collection {
		assert.Equal(t, ir.MarkScatter, vis.Mark)
	}
	dist, _ := report.Result("Distribution")
	for _, vis := range dist.Collection {
		assert.Equal(t, ir.MarkHistogram, vis.Mark)
	}
}

func TestRecommend_FilterOnlyIntent(t *testing.T) {
	e := newEngine(t)

	report, err := e.Recommend(context.Background(), ir.MustParseIntent("origin=USA"))
	require.NoError(t, err)

	assert.Empty(t, report.Current, "a filter alone is not a chart")
	assert.Equal(t, []string{"Correlation", "Distribution", "Occurrence", "Temporal"}, report.Names())

	occ, _ := report.Result("Occurrence")
	require.Len(t, occ.Collection, 2, "origin is already bound")
	for _, res := range report.Results {
		for _, vis := range res.Collection {
			assert.Equal(t, "origin = USA", vis.Title, res.Action)
		}
	}
}

func TestRecommend_SingleVis(t *testing.T) {
	e := newEngine(t)

	report, err := e.Recommend(context.Background(), ir.MustParseIntent("milespergal", "weight"))
	require.NoError(t, err)

	require.Len(t, report.Current, 1)
	cur := report.Current[0]
	assert.Equal(t, ir.MarkScatter, cur.Mark)
	for _, cl := range cur.Intent {
		assert.Equal(t, ir.ModelMeasure, cl.DataModel)
		assert.Equal(t, ir.TypeQuantitative, cl.DataType)
	}

	assert.Equal(t, []string{"Enhance", "Filter", "Generalize"}, report.Names())

	enhance, _ := report.Result("Enhance")
	assert.NotEmpty(t, enhance.Collection)
	assert.LessOrEqual(t, len(enhance.Collection), 7)
	for _, vis := range enhance.Collection {
		assert.Len(t, vis.AttributeNames(), 3)
	}

	filter, _ := report.Result("Filter")
	assert.Len(t, filter.Collection, 17, "3 origins + 14 brands")

	gen, _ := report.Result("Generalize")
	require.Len(t, gen.Collection, 2)
	for _, vis := range gen.Collection {
		assert.Equal(t, ir.MarkHistogram, vis.Mark)
	}
}

func TestRecommend_FilterSwapsValue(t *testing.T) {
	e := newEngine(t)

	report, err := e.Recommend(context.Background(), ir.MustParseIntent("origin=USA", "weight"))
	require.NoError(t, err)

	filter, ok := report.Result("Filter")
	require.True(t, ok)
	assert.Equal(t, []string{"origin = Europe", "origin = Japan"}, filter.Collection.Titles())
	assert.NotContains(t, filter.Collection.Titles(), "origin = USA")
}

func TestRecommend_RedundantIntent(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := newEngine(t, WithLogger(logger))

	report, err := e.Recommend(context.Background(), ir.Intent{
		ir.Filter("origin", ir.OpEq, ir.String("USA")),
		ir.Attr("origin"),
	})
	require.NoError(t, err)

	assert.Empty(t, report.Current)
	assert.Empty(t, report.Results)
	require.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "origin")
	assert.Contains(t, buf.String(), "run_id=run-1")
}

func TestRecommend_InvalidIntent(t *testing.T) {
	e := newEngine(t)

	_, err := e.Recommend(context.Background(), ir.MustParseIntent("country", "weight"))
	require.Error(t, err)
	assert.True(t, IsInvalidIntent(err))
	assert.True(t, compiler.IsAttributeNotFound(err))
}

func TestRecommend_BackendError(t *testing.T) {
	c := compiler.New(brokenSource{Source: newCars(t)}, compiler.Options{})
	e, err := New(c, WithRunIDGenerator(NewFixedGenerator("run-1")))
	require.NoError(t, err)

	_, err = e.Recommend(context.Background(), nil)
	require.ErrorIs(t, err, errBackend)
	assert.False(t, IsInvalidIntent(err))
}

func TestRecommend_Quota(t *testing.T) {
	e := newEngine(t, WithMaxVisualizations(3))

	report, err := e.Recommend(context.Background(), nil)
	require.NoError(t, err)

	corr, _ := report.Result("Correlation")
	assert.Len(t, corr.Collection, 3)
	assert.Equal(t, 7, corr.Truncated)

	dist, _ := report.Result("Distribution")
	assert.Len(t, dist.Collection, 3)
	assert.Equal(t, 2, dist.Truncated)

	temp, _ := report.Result("Temporal")
	assert.Len(t, temp.Collection, 1)
	assert.Zero(t, temp.Truncated)
}

func TestRecommend_Ranker(t *testing.T) {
	reverse := RankerFunc(func(action string, coll ir.Collection) ir.Collection {
		out := slices.Clone(coll)
		slices.Reverse(out)
		return out
	})
	e := newEngine(t, WithRanker(reverse), WithMaxVisualizations(1))

	report, err := e.Recommend(context.Background(), nil)
	require.NoError(t, err)

	dist, _ := report.Result("Distribution")
	require.Len(t, dist.Collection, 1)
	assert.Equal(t, []string{"acceleration"}, dist.Collection[0].AttributeNames(),
		"quota applies after ranking")
}

func TestRecommend_CustomActions(t *testing.T) {
	e := newEngine(t, WithActions(Generalize{}, Enhance{}))
	assert.Equal(t, []string{"Generalize", "Enhance"}, e.Actions())

	report, err := e.Recommend(context.Background(), ir.MustParseIntent("milespergal", "weight"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Generalize", "Enhance"}, report.Names(), "registration order")
}

func TestNew_DuplicateAction(t *testing.T) {
	_, err := New(compiler.New(newCars(t), compiler.Options{}), WithActions(Filter{}, Filter{MaxCardinality: 3}))
	require.Error(t, err)
	assert.True(t, IsDuplicateAction(err))
}

func TestRecommend_Deterministic(t *testing.T) {
	e := newEngine(t, WithRunIDGenerator(NewFixedGenerator("a", "b")))
	intent := ir.MustParseIntent("milespergal", "weight")

	first, err := e.Recommend(context.Background(), intent)
	require.NoError(t, err)
	second, err := e.Recommend(context.Background(), intent)
	require.NoError(t, err)

	assert.Equal(t, "a", first.RunID)
	assert.Equal(t, "b", second.RunID)
	second.RunID = first.RunID
	assert.Equal(t, first, second)
}

func TestRecommend_IntentHash(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	listed, err := e.Recommend(ctx, ir.Intent{{Attribute: ir.AttrList{"weight"}}})
	require.NoError(t, err)
	named, err := e.Recommend(ctx, ir.MustParseIntent("weight"))
	require.NoError(t, err)
	other, err := e.Recommend(ctx, ir.MustParseIntent("horsepower"))
	require.NoError(t, err)

	want, err := ir.IntentHash(ir.MustParseIntent("weight"))
	require.NoError(t, err)
	assert.Equal(t, want, named.IntentHash)
	assert.Equal(t, named.IntentHash, listed.IntentHash, "single-element list normalizes to a name")
	assert.NotEqual(t, named.IntentHash, other.IntentHash)
}

func TestRecommend_Canceled(t *testing.T) {
	e := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Recommend(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}

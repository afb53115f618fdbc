package compiler

import (
	"github.com/roach88/vislens/internal/datasource"
	"github.com/roach88/vislens/internal/ir"
)

// MarkOptions supplies what SelectMark needs beyond the clauses.
type MarkOptions struct {
	// SortCardinality is the distinct-value count above which a text
	// dimension on a bar chart is sorted ascending.
	SortCardinality int

	// Lookup returns the classification of a column. Nil disables
	// default sorting.
	Lookup func(column string) (datasource.Classification, bool)
}

// SelectMark picks the mark for channel-resolved clauses and derives
// display properties. It returns the mark and the clauses, extended with
// a Record attribute for histograms. Input clauses are not modified.
//
//   - no visual attribute, or one alone on color: unknown
//   - one attribute on x or y: histogram, Record (count) on the other
//   - two quantitative measures: scatter
//   - temporal or ordinal dimension + measure: line, measure averaged
//   - nominal dimension + measure: bar, measure averaged, dimension
//     sorted ascending when it is a text column with many values
//   - any unassigned attribute, or another combination: unknown
//
// A color attribute never changes the mark.
func SelectMark(clauses []ir.Clause, opts MarkOptions) (ir.Mark, []ir.Clause) {
	out := make([]ir.Clause, len(clauses))
	copy(out, clauses)

	var visual int
	x, y := -1, -1
	for i, cl := range out {
		if cl.IsFilter() {
			continue
		}
		visual++
		switch cl.Channel {
		case ir.ChannelNone:
			return ir.MarkUnknown, out
		case ir.ChannelX:
			x = i
		case ir.ChannelY:
			y = i
		}
	}
	if visual == 0 {
		return ir.MarkUnknown, out
	}

	switch {
	case x < 0 && y < 0:
		return ir.MarkUnknown, out
	case x >= 0 && y < 0:
		return ir.MarkHistogram, append(out, recordClause(ir.ChannelY))
	case y >= 0 && x < 0:
		return ir.MarkHistogram, append(out, recordClause(ir.ChannelX))
	}

	xm, ym := out[x].DataModel == ir.ModelMeasure, out[y].DataModel == ir.ModelMeasure
	switch {
	case xm && ym:
		return ir.MarkScatter, out
	case xm == ym:
		// two dimensions
		return ir.MarkUnknown, out
	}

	measure, dim := x, y
	if ym {
		measure, dim = y, x
	}
	mark := ir.MarkBar
	switch {
	case isOrdered(out[dim].DataType):
		mark = ir.MarkLine
	case out[dim].DataType != ir.TypeNominal:
		return ir.MarkUnknown, out
	case out[dim].Sort == ir.SortNone:
		out[dim].Sort = defaultSort(out[dim], opts)
	}

	if out[measure].Aggregation == ir.AggNone {
		out[measure].Aggregation = ir.AggMean
	}
	return mark, out
}

func defaultSort(dim ir.Clause, opts MarkOptions) ir.Sort {
	if opts.Lookup == nil {
		return ir.SortNone
	}
	cl, ok := opts.Lookup(dim.AttributeName())
	if ok && cl.Kind == datasource.KindString && cl.Cardinality > opts.SortCardinality {
		return ir.SortAscending
	}
	return ir.SortNone
}

func recordClause(ch ir.Channel) ir.Clause {
	c := ir.Attr(ir.RecordAttribute).OnChannel(ch)
	c.DataModel = ir.ModelMeasure
	c.DataType = ir.TypeQuantitative
	c.Aggregation = ir.AggCount
	return c
}

package compiler

import (
	"github.com/roach88/vislens/internal/ir"
)

// channelOrder is the fill order for unassigned attributes.
var channelOrder = []ir.Channel{ir.ChannelX, ir.ChannelY, ir.ChannelColor}

// ResolveChannels assigns a channel to every visual attribute clause,
// in place. Filter clauses are not touched. Clauses must already be
// annotated with their data model and type.
//
//  1. explicit channels are kept; two on the same channel fail with
//     *DuplicateChannelError
//  2. temporal and ordinal dimensions take the first free of x, y, color
//  3. then measures, in clause order
//  4. then nominal dimensions
//
// Attributes left over once x, y and color are taken stay unassigned.
func ResolveChannels(clauses []ir.Clause) error {
	taken := make(map[ir.Channel]int)
	for i, cl := range clauses {
		if cl.IsFilter() || cl.Channel == ir.ChannelNone {
			continue
		}
		if j, dup := taken[cl.Channel]; dup {
			return &DuplicateChannelError{
				Channel:    cl.Channel,
				Attributes: []string{clauses[j].AttributeName(), cl.AttributeName()},
			}
		}
		taken[cl.Channel] = i
	}

	assign := func(want func(ir.Clause) bool) {
		for i := range clauses {
			cl := &clauses[i]
			if cl.IsFilter() || cl.Channel != ir.ChannelNone || !want(*cl) {
				continue
			}
			for _, ch := range channelOrder {
				if _, used := taken[ch]; !used {
					cl.Channel = ch
					taken[ch] = i
					break
				}
			}
		}
	}

	assign(func(cl ir.Clause) bool {
		return cl.DataModel == ir.ModelDimension && isOrdered(cl.DataType)
	})
	assign(func(cl ir.Clause) bool {
		return cl.DataModel == ir.ModelMeasure
	})
	assign(func(cl ir.Clause) bool {
		return !(cl.DataModel == ir.ModelDimension && isOrdered(cl.DataType)) && cl.DataModel != ir.ModelMeasure
	})
	return nil
}

func isOrdered(t ir.DataType) bool {
	return t == ir.TypeTemporal || t == ir.TypeOrdinal
}

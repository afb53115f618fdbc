package compiler

import (
	"io"
	"log/slog"
)

// Options tune classification and derived properties.
type Options struct {
	// NominalCardinality is the distinct-value count at which a numeric
	// column becomes a measure.
	NominalCardinality int

	// SortCardinality is the distinct-value count above which a text
	// dimension on a bar chart is sorted ascending.
	SortCardinality int

	// TemporalNames are column name segments (case-insensitive) that mark
	// an integer column as temporal, e.g. "year" or "order_date".
	TemporalNames []string

	// Logger receives debug output about dropped candidates.
	// Nil discards.
	Logger *slog.Logger
}

// DefaultOptions returns the built-in thresholds.
func DefaultOptions() Options {
	return Options{
		NominalCardinality: 20,
		SortCardinality:    5,
		TemporalNames:      []string{"year", "month", "day", "date", "time"},
	}
}

// withDefaults fills zero fields from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.NominalCardinality <= 0 {
		o.NominalCardinality = def.NominalCardinality
	}
	if o.SortCardinality <= 0 {
		o.SortCardinality = def.SortCardinality
	}
	if o.TemporalNames == nil {
		o.TemporalNames = def.TemporalNames
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

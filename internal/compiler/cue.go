package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vislens/internal/ir"
)

// clauseFields are the keys accepted in a CUE clause struct.
var clauseFields = map[string]bool{
	"attribute":  true,
	"value":      true,
	"filter_op":  true,
	"channel":    true,
	"data_model": true,
	"data_type":  true,
}

// CompileIntent parses a CUE list into an Intent.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// Each element is either a shorthand string (see ir.ParseClause) or a
// struct:
//
//	intent: [
//		{attribute: "?", data_model: "measure"},
//		{attribute: "milespergal", channel: "x"},
//		"origin=USA|Japan",
//	]
//
// The value should be the list itself, e.g.
// v.LookupPath(cue.ParsePath("intent")).
func CompileIntent(v cue.Value) (ir.Intent, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	iter, err := v.List()
	if err != nil {
		return nil, &CompileError{
			Field:   "intent",
			Message: "intent must be a list of clauses",
			Pos:     v.Pos(),
		}
	}

	var out ir.Intent
	for i := 0; iter.Next(); i++ {
		cl, err := compileClause(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("intent[%d]: %w", i, err)
		}
		out = append(out, cl)
	}
	if len(out) == 0 {
		return nil, &CompileError{
			Field:   "intent",
			Message: "intent must have at least one clause",
			Pos:     v.Pos(),
		}
	}
	return out, nil
}

func compileClause(v cue.Value) (ir.Clause, error) {
	if err := v.Err(); err != nil {
		return ir.Clause{}, formatCUEError(err)
	}

	if v.Kind() == cue.StringKind {
		s, _ := v.String()
		cl, err := ir.ParseClause(s)
		if err != nil {
			return ir.Clause{}, &CompileError{Field: "clause", Message: err.Error(), Pos: v.Pos()}
		}
		return cl, nil
	}

	if v.Kind() != cue.StructKind {
		return ir.Clause{}, &CompileError{
			Field:   "clause",
			Message: fmt.Sprintf("clause must be a string or struct, got %s", v.Kind()),
			Pos:     v.Pos(),
		}
	}

	fields, err := v.Fields()
	if err != nil {
		return ir.Clause{}, formatCUEError(err)
	}
	for fields.Next() {
		if label := fields.Label(); !clauseFields[label] {
			return ir.Clause{}, &CompileError{
				Field:   label,
				Message: fmt.Sprintf("unknown clause field %q", label),
				Pos:     fields.Value().Pos(),
			}
		}
	}

	var raw ir.RawClause
	if attr := v.LookupPath(cue.ParsePath("attribute")); attr.Exists() {
		raw.Attribute, err = parseAttribute(attr)
		if err != nil {
			return ir.Clause{}, err
		}
	}
	if val := v.LookupPath(cue.ParsePath("value")); val.Exists() {
		raw.Value, err = parseValue(val)
		if err != nil {
			return ir.Clause{}, err
		}
	}

	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"filter_op", &raw.FilterOp},
		{"channel", &raw.Channel},
		{"data_model", &raw.DataModel},
		{"data_type", &raw.DataType},
	} {
		fv := v.LookupPath(cue.ParsePath(f.name))
		if !fv.Exists() {
			continue
		}
		s, err := fv.String()
		if err != nil {
			return ir.Clause{}, &CompileError{Field: f.name, Message: "must be a string", Pos: fv.Pos()}
		}
		*f.dst = s
	}

	cl, err := raw.ToClause()
	if err != nil {
		return ir.Clause{}, &CompileError{Field: "clause", Message: err.Error(), Pos: v.Pos()}
	}
	return cl, nil
}

// parseAttribute accepts a column name, "?" or a list of names.
func parseAttribute(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.StringKind:
		s, _ := v.String()
		return s, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var names []string
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return nil, &CompileError{
					Field:   "attribute",
					Message: "attribute list elements must be strings",
					Pos:     iter.Value().Pos(),
				}
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, &CompileError{
			Field:   "attribute",
			Message: fmt.Sprintf("attribute must be a string or list, got %s", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// parseValue accepts a scalar, "?" or a list of scalars.
func parseValue(v cue.Value) (any, error) {
	if v.Kind() != cue.ListKind {
		return parseScalar(v)
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var vals []any
	for iter.Next() {
		s, err := parseScalar(iter.Value())
		if err != nil {
			return nil, err
		}
		vals = append(vals, s)
	}
	return vals, nil
}

func parseScalar(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.FloatKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	default:
		return nil, &CompileError{
			Field:   "value",
			Message: fmt.Sprintf("unsupported value kind %s (must be concrete)", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

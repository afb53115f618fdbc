package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/vislens/internal/ir"
)

// Validation error codes (E200-E299)
const (
	ErrEmptyIntent          = "E200" // intent has no clauses
	ErrInvalidChannel       = "E201" // unknown channel
	ErrInvalidDataModel     = "E202" // unknown data model
	ErrInvalidDataType      = "E203" // unknown data type
	ErrInvalidFilterOp      = "E204" // unknown filter operator
	ErrEmptyAttribute       = "E205" // empty attribute name
	ErrWildcardValue        = "E206" // value wildcard on an attribute wildcard
	ErrDuplicateAttribute   = "E207" // column used by more than one clause
	ErrDuplicateChannel     = "E208" // two clauses on the same explicit channel
	ErrEmptyList            = "E209" // attribute or value list without elements
	ErrConflictingModelType = "E210" // measure with a non-quantitative type or vice versa
	ErrReservedAttribute    = "E211" // Record used in an intent
	ErrChannelOnFilter      = "E212" // channel set on a filter clause
)

// ValidationError represents a static intent error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks an intent without touching any data source.
// Returns all errors found (does not fail-fast).
func Validate(intent ir.Intent) []ValidationError {
	var errs []ValidationError

	// E200: at least one clause
	if len(intent) == 0 {
		return []ValidationError{{
			Field:   "intent",
			Message: "intent must have at least one clause",
			Code:    ErrEmptyIntent,
		}}
	}

	names := make(map[string]int)
	channels := make(map[ir.Channel]int)

	for i, cl := range intent {
		field := fmt.Sprintf("intent[%d]", i)
		errs = append(errs, validateClause(field, cl)...)

		for _, n := range clauseNames(cl) {
			// E207: one clause per column
			if j, dup := names[n]; dup && j != i {
				errs = append(errs, ValidationError{
					Field:   field + ".attribute",
					Message: fmt.Sprintf("attribute %q already used by intent[%d]", n, j),
					Code:    ErrDuplicateAttribute,
				})
				continue
			}
			names[n] = i
		}

		// E208: explicit channels are unique
		if cl.Channel != ir.ChannelNone && !cl.IsFilter() {
			if j, dup := channels[cl.Channel]; dup {
				errs = append(errs, ValidationError{
					Field:   field + ".channel",
					Message: fmt.Sprintf("channel %q already used by intent[%d]", cl.Channel, j),
					Code:    ErrDuplicateChannel,
				})
			} else {
				channels[cl.Channel] = i
			}
		}
	}

	return errs
}

func validateClause(field string, cl ir.Clause) []ValidationError {
	var errs []ValidationError

	// E201-E203: enums
	if !ir.ValidChannels[cl.Channel] {
		errs = append(errs, ValidationError{
			Field:   field + ".channel",
			Message: fmt.Sprintf("invalid channel %q, must be \"x\", \"y\" or \"color\"", cl.Channel),
			Code:    ErrInvalidChannel,
		})
	}
	if !ir.ValidDataModels[cl.DataModel] {
		errs = append(errs, ValidationError{
			Field:   field + ".data_model",
			Message: fmt.Sprintf("invalid data model %q, must be \"measure\" or \"dimension\"", cl.DataModel),
			Code:    ErrInvalidDataModel,
		})
	}
	if !ir.ValidDataTypes[cl.DataType] {
		errs = append(errs, ValidationError{
			Field:   field + ".data_type",
			Message: fmt.Sprintf("invalid data type %q", cl.DataType),
			Code:    ErrInvalidDataType,
		})
	}

	// E210: measure is quantitative
	if cl.DataModel == ir.ModelMeasure && cl.DataType != ir.TypeUnknown && cl.DataType != ir.TypeQuantitative {
		errs = append(errs, ValidationError{
			Field:   field + ".data_type",
			Message: fmt.Sprintf("measure cannot have data type %q", cl.DataType),
			Code:    ErrConflictingModelType,
		})
	}
	if cl.DataModel == ir.ModelDimension && cl.DataType == ir.TypeQuantitative {
		errs = append(errs, ValidationError{
			Field:   field + ".data_type",
			Message: "dimension cannot be quantitative",
			Code:    ErrConflictingModelType,
		})
	}

	// E205, E209, E211: attribute
	switch a := cl.Attribute.(type) {
	case ir.AttrName:
		errs = append(errs, validateName(field+".attribute", string(a))...)
	case ir.AttrList:
		if len(a) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".attribute",
				Message: "attribute list must not be empty",
				Code:    ErrEmptyList,
			})
		}
		for j, n := range a {
			errs = append(errs, validateName(fmt.Sprintf("%s.attribute[%d]", field, j), n)...)
		}
	}

	if !cl.IsFilter() {
		return errs
	}

	// E204: filter operator
	if !ir.ValidFilterOps[cl.Op()] {
		errs = append(errs, ValidationError{
			Field:   field + ".filter_op",
			Message: fmt.Sprintf("invalid filter operator %q", cl.FilterOp),
			Code:    ErrInvalidFilterOp,
		})
	}

	// E212: filters are not encoded
	if cl.Channel != ir.ChannelNone {
		errs = append(errs, ValidationError{
			Field:   field + ".channel",
			Message: "filter clauses cannot be placed on a channel",
			Code:    ErrChannelOnFilter,
		})
	}

	switch v := cl.Value.(type) {
	case ir.ValueWildcard:
		// E206: "? = ?" has no domain to enumerate
		if _, ok := cl.Attribute.(ir.AttrWildcard); ok {
			errs = append(errs, ValidationError{
				Field:   field + ".value",
				Message: "value wildcard requires a named attribute",
				Code:    ErrWildcardValue,
			})
		}
	case ir.ValueList:
		// E209
		if len(v) == 0 {
			errs = append(errs, ValidationError{
				Field:   field + ".value",
				Message: "value list must not be empty",
				Code:    ErrEmptyList,
			})
		}
	}

	return errs
}

func validateName(field, name string) []ValidationError {
	if strings.TrimSpace(name) == "" {
		return []ValidationError{{
			Field:   field,
			Message: "attribute name must be non-empty",
			Code:    ErrEmptyAttribute,
		}}
	}
	if name == ir.RecordAttribute {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("%q is reserved for row counts", ir.RecordAttribute),
			Code:    ErrReservedAttribute,
		}}
	}
	return nil
}

// clauseNames returns the distinct columns a clause names.
func clauseNames(cl ir.Clause) []string {
	switch a := cl.Attribute.(type) {
	case ir.AttrName:
		return []string{string(a)}
	case ir.AttrList:
		seen := make(map[string]bool)
		var out []string
		for _, n := range a {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
		return out
	}
	return nil
}

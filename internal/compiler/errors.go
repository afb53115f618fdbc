package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/vislens/internal/ir"
)

// AttributeNotFoundError indicates a clause names a column the data source
// does not have. Unwraps to datasource.ErrColumnNotFound.
type AttributeNotFoundError struct {
	Attribute string
	Source    string
	Err       error
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("attribute %q not found in %s", e.Attribute, e.Source)
}

func (e *AttributeNotFoundError) Unwrap() error { return e.Err }

// DuplicateChannelError indicates two clauses were explicitly placed on the
// same channel.
type DuplicateChannelError struct {
	Channel    ir.Channel
	Attributes []string
}

func (e *DuplicateChannelError) Error() string {
	return fmt.Sprintf("channel %q assigned to more than one attribute: %s",
		e.Channel, strings.Join(e.Attributes, ", "))
}

// EmptyDomainError indicates a filter matches no rows.
type EmptyDomainError struct {
	Attribute string
	Op        string
	Value     ir.Value
}

func (e *EmptyDomainError) Error() string {
	return fmt.Sprintf("filter %s %s %s matches no rows", e.Attribute, e.Op, e.Value)
}

// RedundantAttributeError indicates one column is used by more than one
// clause, e.g. [origin=USA, origin].
type RedundantAttributeError struct {
	Attribute string
}

func (e *RedundantAttributeError) Error() string {
	return fmt.Sprintf("attribute %q is used by more than one clause", e.Attribute)
}

// IsAttributeNotFound returns true if err is or wraps an AttributeNotFoundError.
func IsAttributeNotFound(err error) bool {
	var e *AttributeNotFoundError
	return errors.As(err, &e)
}

// IsDuplicateChannel returns true if err is or wraps a DuplicateChannelError.
func IsDuplicateChannel(err error) bool {
	var e *DuplicateChannelError
	return errors.As(err, &e)
}

// IsEmptyDomain returns true if err is or wraps an EmptyDomainError.
func IsEmptyDomain(err error) bool {
	var e *EmptyDomainError
	return errors.As(err, &e)
}

// IsRedundantAttribute returns true if err is or wraps a RedundantAttributeError.
func IsRedundantAttribute(err error) bool {
	var e *RedundantAttributeError
	return errors.As(err, &e)
}

// isCandidateError reports whether err only invalidates one candidate.
// Anything else (data source I/O) aborts the whole build.
func isCandidateError(err error) bool {
	return IsAttributeNotFound(err) ||
		IsDuplicateChannel(err) ||
		IsEmptyDomain(err) ||
		IsRedundantAttribute(err)
}

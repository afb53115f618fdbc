package recommend

import (
	"errors"
	"fmt"
)

// RecommendError represents an error detected during a recommendation run.
type RecommendError struct {
	// Code identifies the error category.
	Code RecommendErrorCode

	// Message is a human-readable description.
	Message string

	// RunID identifies the affected run.
	RunID string

	// Action names the failing action, if any.
	Action string

	// Err is the underlying cause.
	Err error
}

// RecommendErrorCode categorizes recommendation errors.
type RecommendErrorCode string

const (
	// ErrCodeInvalidIntent indicates the current intent could not be compiled.
	ErrCodeInvalidIntent RecommendErrorCode = "INVALID_INTENT"

	// ErrCodeActionFailed indicates an action's intents could not be built.
	ErrCodeActionFailed RecommendErrorCode = "ACTION_FAILED"

	// ErrCodeDuplicateAction indicates two actions share a name.
	ErrCodeDuplicateAction RecommendErrorCode = "DUPLICATE_ACTION"
)

// Error implements the error interface.
func (e *RecommendError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Action != "" {
		msg = fmt.Sprintf("%s (action=%s)", msg, e.Action)
	}
	if e.RunID != "" {
		msg = fmt.Sprintf("%s (run=%s)", msg, e.RunID)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *RecommendError) Unwrap() error { return e.Err }

// IsInvalidIntent returns true if err is or wraps an invalid-intent error.
func IsInvalidIntent(err error) bool {
	return hasCode(err, ErrCodeInvalidIntent)
}

// IsActionFailed returns true if err is or wraps an action failure.
func IsActionFailed(err error) bool {
	return hasCode(err, ErrCodeActionFailed)
}

// IsDuplicateAction returns true if err is or wraps a duplicate action error.
func IsDuplicateAction(err error) bool {
	return hasCode(err, ErrCodeDuplicateAction)
}

func hasCode(err error, code RecommendErrorCode) bool {
	var re *RecommendError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

func newActionError(runID, action string, err error) *RecommendError {
	return &RecommendError{
		Code:    ErrCodeActionFailed,
		Message: "building action collection failed",
		RunID:   runID,
		Action:  action,
		Err:     err,
	}
}

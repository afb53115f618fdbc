package recommend

import (
	"errors"
	"fmt"
)

// Quota caps the number of visualizations one action may return.
//
// A Filter over a dimension with many values, or an Enhance over a wide
// table, can produce far more charts than anyone will look at. The quota
// keeps the first max visualizations in ranked order and counts the rest.
type Quota struct {
	max     int
	current int
}

// NewQuota creates a quota admitting up to max visualizations.
// A non-positive max admits everything.
func NewQuota(max int) *Quota {
	return &Quota{max: max}
}

// Admit counts one more visualization for action.
//
// Returns LimitExceededError once the count passes the limit.
func (q *Quota) Admit(action string) error {
	q.current++
	if q.max > 0 && q.current > q.max {
		return &LimitExceededError{
			Action: action,
			Count:  q.current,
			Limit:  q.max,
		}
	}
	return nil
}

// Current returns the number of visualizations counted so far.
func (q *Quota) Current() int {
	return q.current
}

// Max returns the limit.
func (q *Quota) Max() int {
	return q.max
}

// LimitExceededError is returned when an action exceeds its quota.
//
// The engine does not surface it: the collection is truncated and the
// dropped count recorded on the ActionResult.
type LimitExceededError struct {
	Action string
	Count  int
	Limit  int
}

// Error implements the error interface.
func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("action %s exceeded visualization quota: %d > %d limit",
		e.Action, e.Count, e.Limit)
}

// IsLimitExceeded returns true if the error is a LimitExceededError.
func IsLimitExceeded(err error) bool {
	var le *LimitExceededError
	return errors.As(err, &le)
}

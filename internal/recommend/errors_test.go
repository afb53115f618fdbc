package recommend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecommendError_Message(t *testing.T) {
	err := newActionError("run-1", "Filter", errBackend)
	assert.Equal(t,
		"ACTION_FAILED: building action collection failed (action=Filter) (run=run-1): backend unavailable",
		err.Error())
	assert.True(t, errors.Is(err, errBackend))
}

func TestRecommendError_Predicates(t *testing.T) {
	invalid := fmt.Errorf("wrapped: %w", &RecommendError{Code: ErrCodeInvalidIntent, Message: "x"})
	dup := &RecommendError{Code: ErrCodeDuplicateAction, Message: "x"}

	assert.True(t, IsInvalidIntent(invalid))
	assert.False(t, IsActionFailed(invalid))
	assert.True(t, IsDuplicateAction(dup))
	assert.True(t, IsActionFailed(newActionError("", "Enhance", errBackend)))
	assert.False(t, IsInvalidIntent(errBackend))
}

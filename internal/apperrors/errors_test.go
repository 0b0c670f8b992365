package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameError_IsWrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("apply move (2,3): %w", ErrRuleViolation)
	assert.True(t, errors.Is(err, ErrRuleViolation))
	assert.False(t, errors.Is(err, ErrProtocolViolation))
	assert.Equal(t, CodeRuleViolation, CodeOf(err))
}

func TestCodeOf_PlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, CodeOf(errors.New("boom")))
	assert.Equal(t, 0, CodeOf(nil))
}

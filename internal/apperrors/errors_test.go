package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToolFailedError(t *testing.T) {
	err := fmt.Errorf("gateway: %w", &ToolFailedError{ExitCode: 1, Stderr: "HTTP 401"})

	assert.ErrorIs(t, err, ErrToolFailed)
	assert.NotErrorIs(t, err, ErrSpawnFailed)

	var tf *ToolFailedError
	assert.True(t, errors.As(err, &tf))
	assert.Equal(t, "HTTP 401", tf.Stderr)
	assert.Contains(t, err.Error(), "GitHub CLI error: HTTP 401")
}

func TestServiceError(t *testing.T) {
	testCases := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{name: "with status", err: &ServiceError{Status: 401, Body: "bad key"}, expected: "summarization service error (401): bad key"},
		{name: "transport failure", err: &ServiceError{Body: "connection refused"}, expected: "summarization service error: connection refused"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.err, ErrService)
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

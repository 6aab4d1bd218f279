package cli

import (
	"errors"
	"fmt"
	"testing"

	"task-manager/internal/config"
	apperrors "task-manager/internal/errors"
	"task-manager/internal/validation"

	"github.com/stretchr/testify/assert"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "Validation error",
			operation: "add task",
			err:       apperrors.NewValidationError("invalid input", nil),
			expected:  "failed to add task: invalid input",
		},
		{
			name:      "Not found error",
			operation: "complete task",
			err:       apperrors.NewNotFoundError("task", "123"),
			expected:  "failed to complete task: task not found: 123",
		},
		{
			name:      "Database error",
			operation: "save task",
			err:       apperrors.NewDatabaseError("insert", errors.New("timeout")),
			expected:  "failed to save task: A database error occurred. Please try again.",
		},
		{
			name:      "Configuration error",
			operation: "start",
			err:       &config.ConfigError{Field: "database.dir", Message: "database directory cannot be empty"},
			expected:  "failed to start: invalid configuration: database.dir: database directory cannot be empty",
		},
		{
			name:      "Regular error",
			operation: "process",
			err:       errors.New("regular error"),
			expected:  "failed to process: regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	ve := validation.NewValidationError()
	ve.AddRequiredError(validation.FieldName)

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Validation error",
			err:      apperrors.NewValidationError("invalid input", nil),
			expected: "invalid input",
		},
		{
			name:     "Field validation error wrapped by the service layer",
			err:      fmt.Errorf("create: %w", validation.ToAppError(ve)),
			expected: ve.GetUserFriendlyMessage(),
		},
		{
			name:     "Not found error",
			err:      apperrors.NewNotFoundError("task", "123"),
			expected: "task not found: 123",
		},
		{
			name:     "Timeout error",
			err:      apperrors.NewTimeoutError("add", errors.New("deadline")),
			expected: "The operation timed out. Please try again.",
		},
		{
			name:     "Regular error",
			err:      errors.New("regular error"),
			expected: "regular error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.HandleSimple(tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler()

	legacy := &validation.ValidationError{
		Errors: []validation.FieldError{{Field: "test", Message: "invalid"}},
	}

	assert.True(t, eh.IsValidationError(apperrors.NewValidationError("invalid input", nil)))
	assert.True(t, eh.IsValidationError(legacy))
	assert.False(t, eh.IsValidationError(apperrors.NewDatabaseError("insert", nil)))
	assert.False(t, eh.IsValidationError(errors.New("regular error")))

	assert.True(t, eh.IsNotFoundError(apperrors.NewNotFoundError("task", "1")))
	assert.False(t, eh.IsNotFoundError(apperrors.NewValidationError("invalid input", nil)))

	assert.True(t, eh.IsDatabaseError(apperrors.NewDatabaseError("insert", nil)))
	assert.False(t, eh.IsDatabaseError(errors.New("regular error")))

	assert.Equal(t, "NOT_FOUND", eh.GetErrorCode(apperrors.NewNotFoundError("task", "1")))
	assert.Equal(t, "UNKNOWN_ERROR", eh.GetErrorCode(errors.New("plain")))
}

func TestErrorHandler_ExitCode(t *testing.T) {
	eh := NewErrorHandler()

	assert.Equal(t, 0, eh.ExitCode(nil))
	assert.Equal(t, 2, eh.ExitCode(apperrors.NewValidationError("bad", nil)))
	assert.Equal(t, 2, eh.ExitCode(apperrors.NewInvalidInputError("id", "x", "must be a positive integer")))
	assert.Equal(t, 3, eh.ExitCode(apperrors.NewNotFoundError("task", "9")))
	assert.Equal(t, 1, eh.ExitCode(errors.New("boom")))
}

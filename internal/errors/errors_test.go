package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("task", "42")

	if err.Type != ErrorTypeNotFound {
		t.Errorf("NewNotFoundError type = %v, want %v", err.Type, ErrorTypeNotFound)
	}
	if err.Message != "task not found: 42" {
		t.Errorf("NewNotFoundError message = %q", err.Message)
	}
	if err.Code != "NOT_FOUND" {
		t.Errorf("NewNotFoundError code = %v", err.Code)
	}
	if id, ok := err.GetContext("identifier"); !ok || id != "42" {
		t.Errorf("NewNotFoundError should carry the identifier, got %v", id)
	}
}

func TestNewDatabaseError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewDatabaseError("insert task", cause)

	if err.Type != ErrorTypeDatabase || err.Code != "DATABASE_ERROR" {
		t.Fatalf("NewDatabaseError produced %v/%v", err.Type, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("database error should unwrap to its cause")
	}
	if op, _ := err.GetContext("operation"); op != "insert task" {
		t.Errorf("operation context = %v", op)
	}
}

func TestNewUnknownResourceError(t *testing.T) {
	err := NewUnknownResourceError("content://task-manager.provider/notes")

	if err.Type != ErrorTypeUnknownResource {
		t.Errorf("type = %v, want unknown resource", err.Type)
	}
	if err.Error() != "unknown_resource: unknown resource: content://task-manager.provider/notes" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestNewTimeoutError(t *testing.T) {
	err := NewTimeoutError("reload tasks", context.DeadlineExceeded)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("timeout error should unwrap to context.DeadlineExceeded")
	}
	if GetUserMessage(err) != "The operation timed out. Please try again." {
		t.Errorf("GetUserMessage() = %q", GetUserMessage(err))
	}
}

func TestNewPermissionError(t *testing.T) {
	err := NewPermissionError("post notification", "task_channel")

	if err.Message != "permission denied for post notification on task_channel" {
		t.Errorf("message = %q", err.Message)
	}
	if err.Code != "PERMISSION_DENIED" {
		t.Errorf("code = %q", err.Code)
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("constraint failed")
	err := WrapError(cause, ErrorTypeDatabase, "cannot store task")

	if err.Code != "database" {
		t.Errorf("WrapError code = %v, want database", err.Code)
	}
	if err.Unwrap() != cause {
		t.Errorf("WrapError should keep the cause")
	}
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	inner := NewInvalidInputError("dueDate", "31/2/2025", "not a calendar date")
	wrapped := fmt.Errorf("create task: %w", inner)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatalf("AsAppError should find the AppError through fmt wrapping")
	}
	if appErr != inner {
		t.Errorf("AsAppError returned a different instance")
	}
	if !IsErrorType(wrapped, ErrorTypeInvalidInput) {
		t.Errorf("IsErrorType should see through wrapping")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("plain errors are not AppErrors")
	}
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Validation error", NewValidationError("task name is required", nil), "task name is required"},
		{"Not found error", NewNotFoundError("task", "7"), "task not found: 7"},
		{"Unknown resource", NewUnknownResourceError("content://x/y"), "unknown resource: content://x/y"},
		{"Database error", NewDatabaseError("list tasks", errors.New("locked")), "A database error occurred. Please try again."},
		{"Regular error", errors.New("regular error"), "regular error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := GetUserMessage(tt.err); result != tt.expected {
				t.Errorf("GetUserMessage() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(NewUnknownResourceError("u")) != "UNKNOWN_RESOURCE" {
		t.Errorf("GetErrorCode should return the AppError code")
	}
	if GetErrorCode(errors.New("regular error")) != "UNKNOWN_ERROR" {
		t.Errorf("GetErrorCode should return UNKNOWN_ERROR for regular error")
	}
}

func TestShouldLogError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Validation error", NewValidationError("bad", nil), false},
		{"Not found error", NewNotFoundError("task", "1"), false},
		{"Invalid input error", NewInvalidInputError("isCompleted", "maybe", "not a boolean"), false},
		{"Unknown resource", NewUnknownResourceError("u"), false},
		{"Database error", NewDatabaseError("query", errors.New("timeout")), true},
		{"Permission error", NewPermissionError("post notification", "task_channel"), true},
		{"Regular error", errors.New("regular error"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ShouldLogError(tt.err); result != tt.expected {
				t.Errorf("ShouldLogError() = %v, want %v", result, tt.expected)
			}
		})
	}
}

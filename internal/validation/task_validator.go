package validation

import (
	"task-manager/internal/domain"
)

// Field names used in task validation errors
const (
	FieldName     = "name"
	FieldDueDate  = "dueDate"
	FieldPriority = "priority"
	FieldID       = "id"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{
		validator: NewValidator(),
	}
}

// ValidateTask validates a task submitted from the creation form. The name is
// required; due date and priority are optional but must be well formed when set.
func (tv *TaskValidator) ValidateTask(task domain.Task) error {
	validationError := NewValidationError()

	tv.checkName(validationError, task.Name)

	if tv.validator.IsNonEmptyString(task.DueDate) && !tv.validator.IsValidDueDate(task.DueDate) {
		validationError.AddInvalidFormatError(FieldDueDate, task.DueDate, "d/M/yyyy")
	}

	if task.Priority != "" && !tv.validator.IsOneOf(task.Priority, domain.Priorities) {
		validationError.AddNotAllowedError(FieldPriority, task.Priority, domain.Priorities)
	}

	if task.ID < 0 {
		validationError.AddInvalidValueError(FieldID, task.ID, "must be a positive integer")
	}

	return validationError.ErrorOrNil()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError(FieldID, id, "must be a positive integer")
		return validationError
	}
	return nil
}

func (tv *TaskValidator) checkName(ve *ValidationError, name string) {
	trimmed := tv.validator.TrimAndValidateString(name)
	if !tv.validator.IsNonEmptyString(trimmed) {
		ve.AddRequiredError(FieldName)
		return
	}
	if !tv.validator.IsValidTaskNameLength(trimmed) {
		ve.AddInvalidLengthError(FieldName, trimmed, 1, tv.validator.TaskNameMaxLength())
	}
	if tv.validator.HasControlCharacters(trimmed) {
		ve.AddInvalidCharacterError(FieldName, trimmed)
	}
}

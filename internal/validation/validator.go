package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"task-manager/internal/domain"
)

// DefaultTaskNameMaxLength is the longest task name accepted at the presentation boundary
const DefaultTaskNameMaxLength = 255

// Validator provides common validation utilities
type Validator struct {
	taskNameMaxLength int
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithLimit(DefaultTaskNameMaxLength)
}

// NewValidatorWithLimit creates a validator with a custom task name limit.
// Non-positive limits fall back to DefaultTaskNameMaxLength.
func NewValidatorWithLimit(maxNameLength int) *Validator {
	if maxNameLength <= 0 {
		maxNameLength = DefaultTaskNameMaxLength
	}
	return &Validator{taskNameMaxLength: maxNameLength}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if a trimmed string has between min and max runes
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTaskNameLength checks a task name against the configured limit
func (v *Validator) IsValidTaskNameLength(name string) bool {
	return v.IsValidStringLength(name, 1, v.taskNameMaxLength)
}

// HasControlCharacters reports whether s contains newlines, tabs or other control runes
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidDueDate checks that a due date parses in the d/M/yyyy form
func (v *Validator) IsValidDueDate(s string) bool {
	_, err := domain.ParseDueDate(s)
	return err == nil
}

// IsOneOf checks whether s equals one of the allowed values
func (v *Validator) IsOneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

// IsValidTaskID checks if a task ID is valid (positive)
func (v *Validator) IsValidTaskID(id int64) bool {
	return id > 0
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// TaskNameMaxLength returns the configured task name limit
func (v *Validator) TaskNameMaxLength() int {
	return v.taskNameMaxLength
}

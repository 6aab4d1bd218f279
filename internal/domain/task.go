package domain

import "time"

// Conventional priority labels offered by the task creation form.
// The store accepts any string.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Priorities lists the conventional priority labels in display order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// Values preselected by the task creation form.
const (
	DefaultCategory = "Personal"
	DefaultPriority = PriorityMedium
)

// Task represents a task in the domain model.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	DueDate     string `json:"dueDate" yaml:"dueDate"`
	Category    string `json:"category" yaml:"category"`
	Priority    string `json:"priority" yaml:"priority"`
	IsCompleted bool   `json:"isCompleted" yaml:"isCompleted"`
}

// NewTask creates a new, not yet stored, incomplete Task.
func NewTask(name, description, dueDate, category, priority string) Task {
	return Task{
		Name:        name,
		Description: description,
		DueDate:     dueDate,
		Category:    category,
		Priority:    priority,
	}
}

// Due returns the parsed due date and whether it could be parsed.
func (t Task) Due() (time.Time, bool) {
	due, err := ParseDueDate(t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// Completed returns a copy of the task marked as completed.
func (t Task) Completed() Task {
	t.IsCompleted = true
	return t
}

// WithoutID returns a copy of the task with the identifier cleared, ready for re-insertion.
func (t Task) WithoutID() Task {
	t.ID = 0
	return t
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}

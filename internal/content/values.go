package content

import (
	"fmt"
	"sort"

	"task-manager/internal/domain"
	"task-manager/internal/validation"
)

// Column names, in result set order.
const (
	ColumnID          = "_id"
	ColumnName        = "name"
	ColumnDescription = "description"
	ColumnDueDate     = "dueDate"
	ColumnCategory    = "category"
	ColumnPriority    = "priority"
	ColumnIsCompleted = "isCompleted"
)

// Columns lists every column in result set order.
var Columns = []string{
	ColumnID, ColumnName, ColumnDescription, ColumnDueDate,
	ColumnCategory, ColumnPriority, ColumnIsCompleted,
}

// TaskValues is the field set a caller supplies for insert and update.
// Absent fields are empty strings and false.
type TaskValues struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task builds the record these values describe.
func (v TaskValues) Task(id int64) domain.Task {
	return domain.Task{
		ID:          id,
		Name:        v.Name,
		Description: v.Description,
		DueDate:     v.DueDate,
		Category:    v.Category,
		Priority:    v.Priority,
		IsCompleted: v.IsCompleted,
	}
}

// ParseTaskValues converts a generic field map into TaskValues. Unknown
// fields and values of the wrong type are rejected; the id is never accepted
// because the store assigns it.
func ParseTaskValues(fields map[string]interface{}) (TaskValues, error) {
	var values TaskValues
	ve := validation.NewValidationError()

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := fields[key]
		switch key {
		case ColumnName:
			values.Name = stringField(ve, key, raw)
		case ColumnDescription:
			values.Description = stringField(ve, key, raw)
		case ColumnDueDate:
			values.DueDate = stringField(ve, key, raw)
		case ColumnCategory:
			values.Category = stringField(ve, key, raw)
		case ColumnPriority:
			values.Priority = stringField(ve, key, raw)
		case ColumnIsCompleted:
			values.IsCompleted = boolField(ve, key, raw)
		case ColumnID:
			ve.AddInvalidValueError(key, raw, "is assigned by the store")
		default:
			ve.AddInvalidValueError(key, raw, "unknown field")
		}
	}

	if err := ve.ErrorOrNil(); err != nil {
		return TaskValues{}, validation.ToAppError(err)
	}
	return values, nil
}

func stringField(ve *validation.ValidationError, key string, raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	ve.AddInvalidFormatError(key, raw, "string")
	return ""
}

func boolField(ve *validation.ValidationError, key string, raw interface{}) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		if v == 0 || v == 1 {
			return v == 1
		}
	case int:
		if v == 0 || v == 1 {
			return v == 1
		}
	case int64:
		if v == 0 || v == 1 {
			return v == 1
		}
	}
	ve.AddInvalidFormatError(key, fmt.Sprint(raw), "boolean or 0/1")
	return false
}

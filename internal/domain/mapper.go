package domain

import (
	"task-manager/internal/repository/sqlite"
)

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(task Task) sqlite.Task {
	return sqlite.Task{
		ID:          task.ID,
		Name:        task.Name,
		Description: task.Description,
		DueDate:     task.DueDate,
		Category:    task.Category,
		Priority:    task.Priority,
		IsCompleted: task.IsCompleted,
	}
}

// FromDatabase converts a database Task to a domain Task.
func (m *TaskMapper) FromDatabase(row sqlite.Task) Task {
	return Task{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		DueDate:     row.DueDate,
		Category:    row.Category,
		Priority:    row.Priority,
		IsCompleted: row.IsCompleted,
	}
}

// FromDatabaseSlice converts database rows to domain Tasks, skipping nil rows.
func (m *TaskMapper) FromDatabaseSlice(rows []*sqlite.Task) []Task {
	tasks := make([]Task, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		tasks = append(tasks, m.FromDatabase(*row))
	}
	return tasks
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Task *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Task: NewTaskMapper(),
	}
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTask(t *testing.T) {
	task := NewTask("Call mum", "Sunday", "7/9/2025", "Family", PriorityMedium)
	assert.Equal(t, Task{
		Name:        "Call mum",
		Description: "Sunday",
		DueDate:     "7/9/2025",
		Category:    "Family",
		Priority:    "Medium",
	}, task)
	assert.Zero(t, task.ID)
	assert.False(t, task.IsCompleted)
}

func TestTask_CopyHelpers(t *testing.T) {
	task := Task{ID: 9, Name: "x"}

	done := task.Completed()
	assert.True(t, done.IsCompleted)
	assert.False(t, task.IsCompleted)
	assert.Equal(t, int64(9), done.ID)

	fresh := task.WithoutID()
	assert.Zero(t, fresh.ID)
	assert.Equal(t, int64(9), task.ID)
	assert.Equal(t, "x", fresh.String())
}

func TestTask_Due(t *testing.T) {
	due, ok := Task{DueDate: "05/03/2025"}.Due()
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, time.March, 5, 0, 0, 0, 0, time.Local), due)

	_, ok = Task{DueDate: "2025-03-05"}.Due()
	assert.False(t, ok)

	_, ok = Task{}.Due()
	assert.False(t, ok)
}

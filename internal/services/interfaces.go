package services

import (
	"context"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/reminder"
	"task-manager/internal/state"
)

// CreateTaskInput is what the task creation form submits.
type CreateTaskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// Task builds the not yet stored task described by the input.
func (in CreateTaskInput) Task() domain.Task {
	return domain.NewTask(in.Name, in.Description, in.DueDate, in.Category, in.Priority)
}

// CreatedTask is the result of the creation workflow.
type CreatedTask struct {
	Task      domain.Task    `json:"task"`
	Reminders []reminder.Job `json:"reminders,omitempty"`
}

// Dashboard is the home screen summary.
type Dashboard struct {
	ActiveCount    int           `json:"activeCount"`
	CompletedCount int           `json:"completedCount"`
	DueToday       []domain.Task `json:"dueToday"`
	Overdue        []domain.Task `json:"overdue"`
	DueSoon        []domain.Task `json:"dueSoon"`
	Active         []domain.Task `json:"active"`
	Categories     []string      `json:"categories"`
}

// ReminderScheduler enqueues reminders for a newly created task.
type ReminderScheduler interface {
	ScheduleForTask(task domain.Task) ([]reminder.Job, error)
}

// TaskController is the slice of the state controller the services drive.
type TaskController interface {
	Snapshot() state.Snapshot
	AddTask(task domain.Task) *state.Pending
	MarkTaskCompleted(task domain.Task) *state.Pending
	DeleteTask(id int64) *state.Pending
	UndoDelete() *state.Pending
	LastDeleted() (domain.Task, bool)
}

// TaskService handles the task workflows of the presentation boundary
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*CreatedTask, error)
	CompleteTask(ctx context.Context, id int64) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) (domain.Task, error)
	UndoDelete(ctx context.Context) (domain.Task, bool, error)
	ListTasks(opts domain.ListOptions) []domain.Task
	Categories() []string
}

// DashboardService summarizes the cached task state
type DashboardService interface {
	Dashboard(now time.Time) Dashboard
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService      TaskService
	DashboardService DashboardService
}

// NewServiceContainer wires the services around one controller.
func NewServiceContainer(controller TaskController, scheduler ReminderScheduler, opts ...TaskServiceOption) *ServiceContainer {
	return &ServiceContainer{
		TaskService:      NewTaskService(controller, scheduler, opts...),
		DashboardService: NewDashboardService(controller),
	}
}

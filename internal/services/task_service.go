package services

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	controller    TaskController
	scheduler     ReminderScheduler
	taskValidator *validation.TaskValidator
	logger        *zap.Logger
}

// TaskServiceOption configures the task service.
type TaskServiceOption func(*taskServiceImpl)

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) TaskServiceOption {
	return func(s *taskServiceImpl) { s.logger = logging.OrNop(logger).Named("tasks") }
}

// WithValidator replaces the default task validator.
func WithValidator(v *validation.TaskValidator) TaskServiceOption {
	return func(s *taskServiceImpl) { s.taskValidator = v }
}

// NewTaskService creates a new TaskService. scheduler may be nil, in which
// case no reminders are scheduled.
func NewTaskService(controller TaskController, scheduler ReminderScheduler, opts ...TaskServiceOption) TaskService {
	s := &taskServiceImpl{
		controller:    controller,
		scheduler:     scheduler,
		taskValidator: validation.NewTaskValidator(),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask validates the form input, stores the task and schedules its
// reminders when the due date is set. A reminder scheduling failure is
// logged and does not undo the creation.
func (t *taskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (*CreatedTask, error) {
	task := input.Task()
	if err := t.taskValidator.ValidateTask(task); err != nil {
		return nil, validation.ToAppError(err)
	}
	task.Name = strings.TrimSpace(task.Name)

	pending := t.controller.AddTask(task)
	if err := pending.Wait(ctx); err != nil {
		return nil, err
	}
	created := &CreatedTask{Task: pending.Task()}

	if t.scheduler != nil && created.Task.DueDate != "" {
		jobs, err := t.scheduler.ScheduleForTask(created.Task)
		if err != nil {
			t.logger.Warn("schedule reminders", zap.Int64("task_id", created.Task.ID), zap.Error(err))
		}
		created.Reminders = jobs
	}
	return created, nil
}

// CompleteTask marks the cached task with id as completed.
func (t *taskServiceImpl) CompleteTask(ctx context.Context, id int64) (domain.Task, error) {
	task, err := t.cached(id)
	if err != nil {
		return domain.Task{}, err
	}
	pending := t.controller.MarkTaskCompleted(task)
	if err := pending.Wait(ctx); err != nil {
		return domain.Task{}, err
	}
	return pending.Task(), nil
}

// DeleteTask deletes the task with id, keeping it available for UndoDelete.
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) (domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return domain.Task{}, validation.ToAppError(err)
	}
	pending := t.controller.DeleteTask(id)
	if err := pending.Wait(ctx); err != nil {
		return domain.Task{}, err
	}
	deleted := pending.Task()
	if deleted.ID == 0 {
		return domain.Task{}, errors.NewNotFoundError("task", formatID(id))
	}
	return deleted, nil
}

// UndoDelete restores the most recently deleted task. It reports false when
// there was nothing to restore.
func (t *taskServiceImpl) UndoDelete(ctx context.Context) (domain.Task, bool, error) {
	if _, ok := t.controller.LastDeleted(); !ok {
		return domain.Task{}, false, nil
	}
	pending := t.controller.UndoDelete()
	if err := pending.Wait(ctx); err != nil {
		return domain.Task{}, false, err
	}
	restored := pending.Task()
	return restored, restored.ID != 0, nil
}

// ListTasks applies opts to the cached tasks.
func (t *taskServiceImpl) ListTasks(opts domain.ListOptions) []domain.Task {
	return opts.Apply(t.controller.Snapshot().All)
}

// Categories returns the category filter choices for the cached tasks.
func (t *taskServiceImpl) Categories() []string {
	return domain.Categories(t.controller.Snapshot().All)
}

func (t *taskServiceImpl) cached(id int64) (domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return domain.Task{}, validation.ToAppError(err)
	}
	for _, task := range t.controller.Snapshot().All {
		if task.ID == id {
			return task, nil
		}
	}
	return domain.Task{}, errors.NewNotFoundError("task", formatID(id))
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

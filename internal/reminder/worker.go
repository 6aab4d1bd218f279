// Package reminder schedules and runs due-date reminder jobs.
package reminder

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/notify"
	"task-manager/internal/settings"
)

// Reminder notification content. Every reminder posts into the same slot, so
// a newer reminder replaces an older one still on screen.
const (
	NotificationSlot  = "1"
	NotificationTitle = "Task Reminder"
	NotificationText  = "You have tasks due soon. Don't forget to check your task list!"
)

// PermissionFunc reports whether notifications may be posted.
type PermissionFunc func() (bool, error)

// AlwaysAllowed grants notification permission unconditionally.
func AlwaysAllowed() (bool, error) { return true, nil }

// FromSettings derives notification permission from the saved preferences.
func FromSettings(store settings.Store) PermissionFunc {
	return func() (bool, error) {
		s, err := store.Load()
		if err != nil {
			return false, err
		}
		return s.NotificationsEnabled, nil
	}
}

// Worker runs a single reminder check for one due date.
type Worker struct {
	notifier   notify.Notifier
	permission PermissionFunc
	logger     *zap.Logger
	now        func() time.Time
}

// NewWorker creates a worker posting through notifier. A nil permission func
// means notifications are always allowed.
func NewWorker(notifier notify.Notifier, permission PermissionFunc, logger *zap.Logger) *Worker {
	if permission == nil {
		permission = AlwaysAllowed
	}
	return &Worker{
		notifier:   notifier,
		permission: permission,
		logger:     logging.OrNop(logger).Named("reminder"),
		now:        time.Now,
	}
}

// Run checks dueDate and posts a reminder when the task is due within the
// next two whole days. It fails when the due date is missing or unparseable,
// or when notifications are not permitted. Runs are never retried.
func (w *Worker) Run(ctx context.Context, dueDate string) error {
	if strings.TrimSpace(dueDate) == "" {
		return errors.NewInvalidInputError("due_date", dueDate, "missing")
	}
	due, err := domain.ParseDueDate(dueDate)
	if err != nil {
		return errors.NewInvalidInputError("due_date", dueDate, "not in d/M/yyyy form")
	}

	allowed, err := w.permission()
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypePermission, "read notification permission")
	}
	if !allowed {
		return errors.NewPermissionError("post notification", notify.TaskReminderChannel.ID)
	}

	now := w.now()
	days := domain.DaysUntil(due, now)
	if days != 0 && days != 1 {
		w.logger.Debug("reminder not due", zap.String("due_date", dueDate), zap.Int("days", days))
		return nil
	}

	n := notify.Notification{
		Title:    NotificationTitle,
		Text:     NotificationText,
		Channel:  notify.TaskReminderChannel,
		PostedAt: now,
	}
	if err := w.notifier.Notify(ctx, NotificationSlot, n); err != nil {
		return err
	}
	w.logger.Info("reminder posted", zap.String("due_date", dueDate), zap.Int("days", days))
	return nil
}

// Package notify posts user-visible notifications.
package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/logging"
)

// Importance ranks how intrusively a channel's notifications are shown.
type Importance int

const (
	ImportanceLow Importance = iota
	ImportanceDefault
	ImportanceHigh
)

// String returns the importance name.
func (i Importance) String() string {
	switch i {
	case ImportanceLow:
		return "low"
	case ImportanceHigh:
		return "high"
	default:
		return "default"
	}
}

// Channel groups notifications that share a presentation policy.
type Channel struct {
	ID         string
	Name       string
	Importance Importance
}

// TaskReminderChannel carries due-date reminders.
var TaskReminderChannel = Channel{
	ID:         "task_channel",
	Name:       "Task Reminder Channel",
	Importance: ImportanceHigh,
}

// Notification is a single message for the user.
type Notification struct {
	Title    string
	Text     string
	Channel  Channel
	PostedAt time.Time
}

// Notifier posts notifications. Posting into an occupied slot replaces the
// notification shown there.
type Notifier interface {
	Notify(ctx context.Context, slot string, n Notification) error
}

// Tray keeps posted notifications in memory, one per slot.
type Tray struct {
	mu     sync.Mutex
	slots  map[string]Notification
	posted int
}

// NewTray creates an empty tray.
func NewTray() *Tray {
	return &Tray{slots: make(map[string]Notification)}
}

// Notify implements Notifier.
func (t *Tray) Notify(_ context.Context, slot string, n Notification) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n.PostedAt.IsZero() {
		n.PostedAt = time.Now()
	}
	t.slots[slot] = n
	t.posted++
	return nil
}

// Visible returns the notifications currently shown, ordered by slot.
func (t *Tray) Visible() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	slots := make([]string, 0, len(t.slots))
	for s := range t.slots {
		slots = append(slots, s)
	}
	sort.Strings(slots)
	out := make([]Notification, 0, len(slots))
	for _, s := range slots {
		out = append(out, t.slots[s])
	}
	return out
}

// Posted returns how many notifications were posted, including replaced ones.
func (t *Tray) Posted() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.posted
}

// Dismiss clears a slot.
func (t *Tray) Dismiss(slot string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, slot)
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier that logs at info level.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logging.OrNop(logger).Named("notify")}
}

// Notify implements Notifier.
func (l *LogNotifier) Notify(_ context.Context, slot string, n Notification) error {
	l.logger.Info(n.Title,
		zap.String("slot", slot),
		zap.String("channel", n.Channel.ID),
		zap.Stringer("importance", n.Channel.Importance),
		zap.String("text", n.Text),
	)
	return nil
}

// Multi posts to every notifier and returns the first error.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, slot string, n Notification) error {
	var first error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, slot, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

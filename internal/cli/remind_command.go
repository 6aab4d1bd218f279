package cli

import (
	"context"

	"task-manager/internal/notify"
	"task-manager/internal/reminder"
)

// RemindCommand runs one reminder check immediately
type RemindCommand struct {
	worker *reminder.Worker
	tray   *notify.Tray
	app    *App
}

// NewRemindCommand creates a new remind command handler
func NewRemindCommand(app *App) *RemindCommand {
	return &RemindCommand{worker: app.rt.Worker, tray: app.rt.Tray, app: app}
}

// Execute runs the reminder job for dueDate and reports whether a
// notification was posted.
func (c *RemindCommand) Execute(ctx context.Context, dueDate string) error {
	before := c.tray.Posted()
	if err := c.worker.Run(ctx, dueDate); err != nil {
		return err
	}
	if c.tray.Posted() == before {
		c.app.printf("No reminder needed for %s\n", dueDate)
		return nil
	}
	for _, n := range c.tray.Visible() {
		c.app.printf("%s: %s\n", n.Title, n.Text)
	}
	return nil
}

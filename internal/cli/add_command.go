package cli

import (
	"context"

	"task-manager/internal/services"
)

// AddCommand handles the add command
type AddCommand struct {
	tasks services.TaskService
	app   *App
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{tasks: app.rt.Services.TaskService, app: app}
}

// Execute creates the task described by input. Reminders already due run
// before it returns; later ones are left to a running shell or serve.
func (c *AddCommand) Execute(ctx context.Context, input services.CreateTaskInput) error {
	created, err := c.tasks.CreateTask(ctx, input)
	if err != nil {
		return err
	}
	c.app.printf("Added task #%d: %s\n", created.Task.ID, created.Task.Name)
	if n := len(created.Reminders); n > 0 {
		c.app.printf("Scheduled %d reminders for %s\n", n, created.Task.DueDate)
		if scheduler := c.app.rt.Scheduler; scheduler != nil {
			scheduler.RunDue()
		}
	}
	return nil
}

package cli

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/services"
)

// ListCommand handles the list command
type ListCommand struct {
	tasks services.TaskService
	app   *App
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{tasks: app.rt.Services.TaskService, app: app}
}

// Execute prints the cached tasks matching opts, soonest due date first.
// Completed tasks are only listed with IncludeCompleted.
func (c *ListCommand) Execute(_ context.Context, opts domain.ListOptions) error {
	c.app.printTasks(c.tasks.ListTasks(opts))
	return nil
}

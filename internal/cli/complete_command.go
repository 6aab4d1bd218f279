package cli

import (
	"context"

	"task-manager/internal/services"
)

// CompleteCommand handles the complete command
type CompleteCommand struct {
	tasks services.TaskService
	app   *App
}

// NewCompleteCommand creates a new complete command handler
func NewCompleteCommand(app *App) *CompleteCommand {
	return &CompleteCommand{tasks: app.rt.Services.TaskService, app: app}
}

// Execute marks every task named by args as completed
func (c *CompleteCommand) Execute(ctx context.Context, args []string) error {
	for _, arg := range args {
		id, err := parseTaskID(arg)
		if err != nil {
			return err
		}
		task, err := c.tasks.CompleteTask(ctx, id)
		if err != nil {
			return err
		}
		c.app.printf("Completed task #%d: %s\n", task.ID, task.Name)
	}
	return nil
}

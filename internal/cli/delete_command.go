package cli

import (
	"context"

	"task-manager/internal/services"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	tasks services.TaskService
	app   *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{tasks: app.rt.Services.TaskService, app: app}
}

// Execute deletes the task named by args[0]
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	task, err := c.tasks.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	c.app.printf("Deleted task #%d: %s\n", task.ID, task.Name)
	return nil
}

// UndoCommand restores the task deleted last in this session
type UndoCommand struct {
	tasks services.TaskService
	app   *App
}

// NewUndoCommand creates a new undo command handler
func NewUndoCommand(app *App) *UndoCommand {
	return &UndoCommand{tasks: app.rt.Services.TaskService, app: app}
}

// Execute re-inserts the last deleted task under a new id
func (c *UndoCommand) Execute(ctx context.Context) error {
	task, restored, err := c.tasks.UndoDelete(ctx)
	if err != nil {
		return err
	}
	if !restored {
		c.app.printf("Nothing to undo\n")
		return nil
	}
	c.app.printf("Restored task #%d: %s\n", task.ID, task.Name)
	return nil
}

package cli

import (
	"context"
	"strings"

	"task-manager/internal/domain"
	"task-manager/internal/services"
)

// DashboardCommand handles the dashboard command
type DashboardCommand struct {
	dashboard services.DashboardService
	app       *App
}

// NewDashboardCommand creates a new dashboard command handler
func NewDashboardCommand(app *App) *DashboardCommand {
	return &DashboardCommand{dashboard: app.rt.Services.DashboardService, app: app}
}

// Execute prints the counts and the active tasks grouped by urgency
func (c *DashboardCommand) Execute(_ context.Context) error {
	d := c.dashboard.Dashboard(timeNow())

	c.app.printf("Active: %d  Completed: %d  Due today: %d  Overdue: %d\n",
		d.ActiveCount, d.CompletedCount, len(d.DueToday), len(d.Overdue))
	c.app.printf("%s\n", strings.Repeat("=", 60))

	c.section("Overdue", d.Overdue)
	c.section("Due today", d.DueToday)
	c.app.printf("All active tasks:\n")
	c.app.printTasks(d.Active)
	return nil
}

func (c *DashboardCommand) section(title string, tasks []domain.Task) {
	if len(tasks) == 0 {
		return
	}
	c.app.printf("%s:\n", title)
	for _, t := range tasks {
		c.app.printf("  #%d %s\n", t.ID, t.Name)
	}
	c.app.printf("\n")
}

package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// Supported export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ExportFormats lists the formats accepted by the export command
var ExportFormats = []string{FormatCSV, FormatJSON, FormatYAML}

// ExportCommand handles the export command
type ExportCommand struct {
	api api.API
	app *App
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{api: app.rt.API, app: app}
}

// Execute writes every stored task in the given format
func (c *ExportCommand) Execute(ctx context.Context, format string) error {
	tasks, err := c.api.GetAllTasks(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatCSV:
		return c.outputCSV(tasks)
	case FormatJSON:
		enc := json.NewEncoder(c.app.out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	case FormatYAML:
		enc := yaml.NewEncoder(c.app.out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(tasks)
	default:
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}
}

// outputCSV outputs all tasks in CSV format
func (c *ExportCommand) outputCSV(tasks []domain.Task) error {
	writer := csv.NewWriter(c.app.out)
	defer writer.Flush()

	header := []string{"ID", "Name", "Description", "Due Date", "Category", "Priority", "Completed"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Name,
			t.Description,
			t.DueDate,
			t.Category,
			t.Priority,
			strconv.FormatBool(t.IsCompleted),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

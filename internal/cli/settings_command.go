package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"task-manager/internal/errors"
	"task-manager/internal/settings"
)

// SettingsCommand handles the settings command
type SettingsCommand struct {
	store settings.Store
	app   *App
}

// NewSettingsCommand creates a new settings command handler
func NewSettingsCommand(app *App) *SettingsCommand {
	return &SettingsCommand{store: app.rt.Settings, app: app}
}

// Execute lists every preference with no args, prints one with
// "get <key>" and changes one with "set <key> <value>".
func (c *SettingsCommand) Execute(_ context.Context, args []string) error {
	current, err := c.store.Load()
	if err != nil {
		return errors.WrapError(err, errors.ErrorTypeDatabase, "load settings")
	}

	switch {
	case len(args) == 0:
		w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
		for _, key := range settings.Keys() {
			value, _ := current.Get(key)
			fmt.Fprintf(w, "%s\t%s\n", key, value)
		}
		return w.Flush()

	case args[0] == "get" && len(args) == 2:
		value, err := current.Get(args[1])
		if err != nil {
			return err
		}
		c.app.printf("%s\n", value)
		return nil

	case args[0] == "set" && len(args) == 3:
		updated, err := current.Set(args[1], args[2])
		if err != nil {
			return err
		}
		if err := c.store.Save(updated); err != nil {
			return errors.WrapError(err, errors.ErrorTypeDatabase, "save settings")
		}
		value, _ := updated.Get(args[1])
		c.app.printf("%s = %s\n", args[1], value)
		return nil
	}

	return errors.NewInvalidInputError("command", "settings", "usage: td settings [get <key> | set <key> <value>]")
}

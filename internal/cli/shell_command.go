package cli

import (
	"bufio"
	"context"
	stderrors "errors"
	"strings"
	"time"

	"task-manager/internal/errors"
)

const shellPrompt = "td> "

// errQuit ends the shell loop.
var errQuit = stderrors.New("quit")

// ShellCommand runs an interactive session over one runtime, so the undo
// slot and the cached task list survive between commands. Reminders fire
// while the session is open.
type ShellCommand struct {
	app     *App
	timeout time.Duration
}

// NewShellCommand creates a new shell command handler
func NewShellCommand(app *App, timeout time.Duration) *ShellCommand {
	return &ShellCommand{app: app, timeout: timeout}
}

// Execute reads commands until quit, end of input or ctx ends.
func (c *ShellCommand) Execute(ctx context.Context) error {
	stopReminders, err := c.app.rt.startReminders()
	if err != nil {
		return err
	}
	defer stopReminders()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.app.rt.reloadOnChange(ctx)
	c.app.rt.relay(ctx)

	handler := NewErrorHandler()
	scanner := bufio.NewScanner(c.app.in)
	c.app.printf("Type help for the list of commands, quit to leave.\n")
	for ctx.Err() == nil {
		c.app.printf(shellPrompt)
		if !scanner.Scan() {
			c.app.printf("\n")
			return scanner.Err()
		}

		args, err := splitArgs(scanner.Text())
		if err != nil {
			c.app.printf("Error: %v\n", handler.HandleSimple(err))
			continue
		}
		if len(args) == 0 {
			continue
		}

		tree := newShellTree(c.app, c.timeout)
		tree.SetArgs(args)
		tree.SetOut(c.app.out)
		tree.SetErr(c.app.out)
		err = tree.ExecuteContext(ctx)
		if stderrors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.app.printf("Error: %v\n", handler.HandleSimple(err))
		}
	}
	return nil
}

// splitArgs splits a command line on whitespace, keeping single or double
// quoted sections together.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inArg   bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, current.String())
				current.Reset()
				inArg = false
			}
		default:
			current.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, errors.NewInvalidInputError("line", line, "unterminated quote")
	}
	if inArg {
		args = append(args, current.String())
	}
	return args, nil
}

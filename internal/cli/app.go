package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App carries the runtime and the streams the command handlers use.
type App struct {
	rt  *Runtime
	out io.Writer
	in  io.Reader
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(rt *Runtime, out io.Writer, in io.Reader) *App {
	if out == nil {
		out = os.Stdout
	}
	if in == nil {
		in = os.Stdin
	}
	return &App{rt: rt, out: out, in: in}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

// parseTaskID parses a task id argument
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInputError("id", arg, "must be a positive integer")
	}
	return id, nil
}

// printTasks prints one row per task: id, status, name, due date, category, priority.
func (a *App) printTasks(tasks []domain.Task) {
	if len(tasks) == 0 {
		a.printf("No tasks found\n")
		return
	}
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDONE\tNAME\tDUE\tCATEGORY\tPRIORITY")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, checkbox(t.IsCompleted), t.Name, dueLabel(t, timeNow()), dash(t.Category), dash(t.Priority))
	}
	w.Flush()
}

// dueLabel renders the due date with a relative hint for parseable dates.
func dueLabel(t domain.Task, now time.Time) string {
	if t.DueDate == "" {
		return "-"
	}
	due, ok := t.Due()
	if !ok {
		return t.DueDate
	}
	switch days := domain.DaysUntil(due, domain.StartOfDay(now)); {
	case days == 0:
		return t.DueDate + " (today)"
	case days == 1:
		return t.DueDate + " (tomorrow)"
	case days < 0:
		return fmt.Sprintf("%s (%dd overdue)", t.DueDate, -days)
	default:
		return fmt.Sprintf("%s (in %dd)", t.DueDate, days)
	}
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

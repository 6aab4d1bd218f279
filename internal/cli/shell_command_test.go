package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"task-manager/internal/domain"
	"task-manager/internal/reminder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShellCommand_Session(t *testing.T) {
	tomorrow := domain.FormatDueDate(time.Now().AddDate(0, 0, 1))
	script := strings.Join([]string{
		`add "Buy milk" --due ` + tomorrow + ` --category Home`,
		`add Laundry -p Low`,
		``,
		`list`,
		`delete 1`,
		`undo`,
		`undo`,
		`complete 3`,
		`list --all`,
		`dashboard`,
		`bogus`,
		`add 'unterminated`,
		`quit`,
		`add "never runs"`,
	}, "\n")
	app, out := setupTestAppWithInput(t, script)

	require.NoError(t, NewShellCommand(app, time.Minute).Execute(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Added task #1: Buy milk")
	assert.Contains(t, text, "Scheduled 2 reminders for "+tomorrow)
	assert.Contains(t, text, "Added task #2: Laundry")
	assert.Contains(t, text, "Deleted task #1: Buy milk")
	assert.Contains(t, text, "Restored task #3: Buy milk")
	assert.Contains(t, text, "Nothing to undo")
	assert.Contains(t, text, "Completed task #3: Buy milk")
	assert.Contains(t, text, "Active: 1  Completed: 1")
	assert.Contains(t, text, `Error: unknown command "bogus"`)
	assert.Contains(t, text, "Error: invalid input for line: unterminated quote")
	assert.NotContains(t, text, "never runs")

	snap := app.rt.Controller.Snapshot()
	assert.Len(t, snap.All, 2)
	assert.Equal(t, 1, snap.CompletedCount)
}

func TestShellCommand_RemindersFireDuringSession(t *testing.T) {
	rt, err := Build(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close(context.Background()) })

	in, feed := io.Pipe()
	defer feed.Close()
	app := NewApp(rt, &bytes.Buffer{}, in)
	done := make(chan error, 1)
	go func() { done <- NewShellCommand(app, time.Minute).Execute(context.Background()) }()

	tomorrow := domain.FormatDueDate(domain.StartOfDay(time.Now()).AddDate(0, 0, 1))
	_, err = io.WriteString(feed, `add "Pay rent" --due `+tomorrow+"\n")
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return rt.Tray.Posted() == 1 }, 5*time.Second, 20*time.Millisecond)

	// a job that comes due while the session is open fires without serve
	job, err := rt.Scheduler.Schedule(tomorrow, time.Now().Add(300*time.Millisecond))
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		got, _ := rt.Scheduler.Job(job.ID)
		return got.State == reminder.JobSucceeded
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 2, rt.Tray.Posted())

	_, err = io.WriteString(feed, "quit\n")
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("shell did not exit")
	}
}

func TestShellCommand_EndOfInput(t *testing.T) {
	app, out := setupTestAppWithInput(t, "add Only\n")

	require.NoError(t, NewShellCommand(app, time.Minute).Execute(context.Background()))
	assert.Contains(t, out.String(), "Added task #1: Only")
	assert.True(t, strings.HasSuffix(out.String(), shellPrompt+"\n"))
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "list", want: []string{"list"}},
		{line: "  add   Buy  milk ", want: []string{"add", "Buy", "milk"}},
		{line: `add "Buy milk" --due 1/2/2030`, want: []string{"add", "Buy milk", "--due", "1/2/2030"}},
		{line: `add 'it"s fine'`, want: []string{"add", `it"s fine`}},
		{line: `add ""`, want: []string{"add", ""}},
		{line: "add\tTab", want: []string{"add", "Tab"}},
		{line: `add "open`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// DueDateLayout is the canonical d/M/yyyy due date format. Parsing also
// accepts zero-padded day and month values.
const DueDateLayout = "2/1/2006"

// ParseDueDate parses a d/M/yyyy string as midnight in the local time zone.
func ParseDueDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("due date is empty")
	}
	t, err := time.ParseInLocation(DueDateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("due date %q is not in d/M/yyyy form: %w", s, err)
	}
	return t, nil
}

// FormatDueDate renders t in the canonical d/M/yyyy form.
func FormatDueDate(t time.Time) string {
	return t.Format(DueDateLayout)
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DaysUntil returns the whole days from now until due, truncated toward zero.
func DaysUntil(due, now time.Time) int {
	return int(due.Sub(now) / (24 * time.Hour))
}

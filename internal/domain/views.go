package domain

import (
	"sort"
	"strings"
	"time"
)

// Partition splits tasks into active and completed sets by IsCompleted.
func Partition(tasks []Task) (active, completed []Task) {
	active = make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsCompleted {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	return active, completed
}

// CountCompleted returns how many tasks are completed.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// SortByDueDate returns a copy of tasks ordered by ascending due date.
// Tasks whose due date cannot be parsed keep their relative order and go last.
func SortByDueDate(tasks []Task) []Task {
	sorted := make([]Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		di, okI := sorted[i].Due()
		dj, okJ := sorted[j].Due()
		switch {
		case okI && okJ:
			return di.Before(dj)
		case okI:
			return true
		default:
			return false
		}
	})
	return sorted
}

// DueToday returns the tasks whose due date is the calendar day of now.
func DueToday(tasks []Task, now time.Time) []Task {
	today := StartOfDay(now)
	return filter(tasks, func(t Task) bool {
		due, ok := t.Due()
		return ok && due.Equal(today)
	})
}

// Overdue returns the tasks whose due date is before the calendar day of now.
func Overdue(tasks []Task, now time.Time) []Task {
	today := StartOfDay(now)
	return filter(tasks, func(t Task) bool {
		due, ok := t.Due()
		return ok && due.Before(today)
	})
}

// DueSoon returns the tasks due today or tomorrow, including overdue ones.
func DueSoon(tasks []Task, now time.Time) []Task {
	limit := StartOfDay(now).AddDate(0, 0, 2)
	return filter(tasks, func(t Task) bool {
		due, ok := t.Due()
		return ok && due.Before(limit)
	})
}

// FilterByCategory keeps tasks in category; "" or AllCategories keeps everything.
func FilterByCategory(tasks []Task, category string) []Task {
	if category == "" || category == AllCategories {
		return tasks
	}
	return filter(tasks, func(t Task) bool { return t.Category == category })
}

// Categories returns AllCategories followed by the sorted distinct non-empty
// categories.
func Categories(tasks []Task) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, t := range tasks {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		names = append(names, t.Category)
	}
	sort.Strings(names)
	return append([]string{AllCategories}, names...)
}

// Search keeps tasks whose name or description contains query, ignoring case.
func Search(tasks []Task, query string) []Task {
	if query == "" {
		return tasks
	}
	q := strings.ToLower(query)
	return filter(tasks, func(t Task) bool {
		return strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.Description), q)
	})
}

func filter(tasks []Task, keep func(Task) bool) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

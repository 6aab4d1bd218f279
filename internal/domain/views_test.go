package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func names(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func TestPartition(t *testing.T) {
	tasks := []Task{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b", IsCompleted: true},
		{ID: 3, Name: "c"},
	}

	active, completed := Partition(tasks)
	assert.Equal(t, []string{"a", "c"}, names(active))
	assert.Equal(t, []string{"b"}, names(completed))
	assert.Equal(t, len(tasks), len(active)+len(completed))
	assert.Equal(t, 1, CountCompleted(tasks))
}

func TestSortByDueDate(t *testing.T) {
	tasks := []Task{
		{Name: "bad", DueDate: "soon"},
		{Name: "march", DueDate: "1/3/2025"},
		{Name: "jan", DueDate: "15/1/2025"},
		{Name: "empty"},
		{Name: "feb", DueDate: "01/02/2025"},
	}

	sorted := SortByDueDate(tasks)
	assert.Equal(t, []string{"jan", "feb", "march", "bad", "empty"}, names(sorted))
	assert.Equal(t, "bad", tasks[0].Name, "input must not be reordered")
}

func TestDateBuckets(t *testing.T) {
	now := time.Date(2025, 3, 5, 14, 0, 0, 0, time.Local)
	tasks := []Task{
		{Name: "yesterday", DueDate: "4/3/2025"},
		{Name: "today", DueDate: "5/3/2025"},
		{Name: "tomorrow", DueDate: "6/3/2025"},
		{Name: "later", DueDate: "7/3/2025"},
		{Name: "unparseable", DueDate: "5-3-2025"},
	}

	assert.Equal(t, []string{"today"}, names(DueToday(tasks, now)))
	assert.Equal(t, []string{"yesterday"}, names(Overdue(tasks, now)))
	assert.Equal(t, []string{"yesterday", "today", "tomorrow"}, names(DueSoon(tasks, now)))
}

func TestCategories(t *testing.T) {
	tasks := []Task{
		{Category: "Work"},
		{Category: "Home"},
		{Category: "Work"},
		{Category: ""},
	}
	assert.Equal(t, []string{"All", "Home", "Work"}, Categories(tasks))
	assert.Equal(t, []string{"All"}, Categories(nil))
}

func TestFilterByCategory(t *testing.T) {
	tasks := []Task{
		{Name: "a", Category: "Work"},
		{Name: "b", Category: "Home"},
	}
	assert.Equal(t, []string{"a"}, names(FilterByCategory(tasks, "Work")))
	assert.Equal(t, []string{"a", "b"}, names(FilterByCategory(tasks, AllCategories)))
	assert.Equal(t, []string{"a", "b"}, names(FilterByCategory(tasks, "")))
	assert.Empty(t, FilterByCategory(tasks, "Gym"))
}

func TestSearch(t *testing.T) {
	tasks := []Task{
		{Name: "Buy Milk"},
		{Name: "Gym", Description: "leg day, bring MILK shake"},
		{Name: "Read"},
	}
	assert.Equal(t, []string{"Buy Milk", "Gym"}, names(Search(tasks, "milk")))
	assert.Len(t, Search(tasks, ""), 3)
}

func TestListOptions_Apply(t *testing.T) {
	tasks := []Task{
		{Name: "report", Category: "Work", DueDate: "9/3/2025"},
		{Name: "slides", Category: "Work", DueDate: "2/3/2025"},
		{Name: "shipped", Category: "Work", DueDate: "1/3/2025", IsCompleted: true},
		{Name: "laundry", Category: "Home", DueDate: "1/3/2025"},
	}

	opts := ListOptions{Category: "Work"}
	assert.Equal(t, []string{"slides", "report"}, names(opts.Apply(tasks)))

	opts.IncludeCompleted = true
	assert.Equal(t, []string{"shipped", "slides", "report"}, names(opts.Apply(tasks)))

	opts = ListOptions{Query: "LAUN"}
	assert.Equal(t, []string{"laundry"}, names(opts.Apply(tasks)))
}

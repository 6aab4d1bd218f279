package domain

// AllCategories is the category filter value that matches every task.
const AllCategories = "All"

// ListOptions describes how a task list screen narrows and orders tasks.
type ListOptions struct {
	Category         string
	Query            string
	IncludeCompleted bool
}

// Apply filters tasks by completion, category and search query, then sorts
// the result by due date.
func (o ListOptions) Apply(tasks []Task) []Task {
	visible := tasks
	if !o.IncludeCompleted {
		visible, _ = Partition(visible)
	}
	visible = FilterByCategory(visible, o.Category)
	visible = Search(visible, o.Query)
	return SortByDueDate(visible)
}

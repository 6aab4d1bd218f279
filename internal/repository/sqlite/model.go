package sqlite

// Task is a row of the tasks table. No column is nullable; text columns
// default to '' and is_completed defaults to 0.
type Task struct {
	ID          int64
	Name        string
	Description string
	DueDate     string
	Category    string
	Priority    string
	IsCompleted bool
}

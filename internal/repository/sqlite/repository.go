package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"task-manager/internal/errors"
	"task-manager/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database
const MemoryPath = ":memory:"

// Repository defines the interface for database operations
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *Task) error

	// Read operations
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	ListTasksByCompletion(ctx context.Context, completed bool) ([]*Task, error)

	// Update operations
	UpdateTask(ctx context.Context, task *Task) error

	// Delete operations
	DeleteTask(ctx context.Context, id int64) (bool, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// SQLite allows one writer; a single connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	if !strings.HasPrefix(dbPath, MemoryPath) {
		if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
			db.Close()
			return nil, errors.NewDatabaseError("enable WAL", err)
		}
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateTask inserts a task. Any id already set on the task is ignored and
// replaced by the one the database assigns.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	query := `
	INSERT INTO tasks (name, description, due_date, category, priority, is_completed)
	VALUES (?, ?, ?, ?, ?, ?)`

	id, err := ExecuteWithLastInsertID(ctx, r.db, query,
		task.Name, task.Description, task.DueDate, task.Category, task.Priority,
		FormatBoolForDB(task.IsCompleted))
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks in storage order
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// ListTasksByCompletion retrieves the tasks whose completion flag matches completed
func (r *SQLiteRepository) ListTasksByCompletion(ctx context.Context, completed bool) ([]*Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE is_completed = ? ORDER BY id ASC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", FormatBoolForDB(completed))
}

// UpdateTask replaces every column of the row with the task's id
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task) error {
	query := `
	UPDATE tasks
	SET name = ?, description = ?, due_date = ?, category = ?, priority = ?, is_completed = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", task.ID),
		task.Name, task.Description, task.DueDate, task.Category, task.Priority,
		FormatBoolForDB(task.IsCompleted), task.ID)
}

// DeleteTask deletes a task by ID and reports whether a row was removed.
// Deleting an absent id is not an error.
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM tasks WHERE id = ?`
	n, err := ExecuteCountingRows(ctx, r.db, query, id)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

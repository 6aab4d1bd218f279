package api

import (
	"context"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository/sqlite"
)

// API is the typed query surface over the task store. Every method is safe to
// call from any goroutine and performs exactly one store operation.
type API interface {
	// Insert stores a copy of task under a fresh id and returns it.
	Insert(ctx context.Context, task domain.Task) (domain.Task, error)
	// Update replaces the stored record with the same id.
	Update(ctx context.Context, task domain.Task) error
	// DeleteTask removes the record with id; absent records are ignored.
	DeleteTask(ctx context.Context, id int64) error
	GetAllTasks(ctx context.Context) ([]domain.Task, error)
	GetActiveTasks(ctx context.Context) ([]domain.Task, error)
	GetCompletedTasks(ctx context.Context) ([]domain.Task, error)
	// GetTaskByID reports false when no record has id.
	GetTaskByID(ctx context.Context, id int64) (domain.Task, bool, error)
}

type apiImpl struct {
	repo   sqlite.Repository
	mapper *domain.Mapper
}

// New creates a new API instance.
func New(repo sqlite.Repository) API {
	return &apiImpl{
		repo:   repo,
		mapper: domain.NewMapper(),
	}
}

func (a *apiImpl) Insert(ctx context.Context, task domain.Task) (domain.Task, error) {
	row := a.mapper.Task.ToDatabase(task.WithoutID())
	if err := a.repo.CreateTask(ctx, &row); err != nil {
		return domain.Task{}, err
	}
	return a.mapper.Task.FromDatabase(row), nil
}

func (a *apiImpl) Update(ctx context.Context, task domain.Task) error {
	row := a.mapper.Task.ToDatabase(task)
	return a.repo.UpdateTask(ctx, &row)
}

func (a *apiImpl) DeleteTask(ctx context.Context, id int64) error {
	_, err := a.repo.DeleteTask(ctx, id)
	return err
}

func (a *apiImpl) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := a.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	return a.mapper.Task.FromDatabaseSlice(rows), nil
}

func (a *apiImpl) GetActiveTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := a.repo.ListTasksByCompletion(ctx, false)
	if err != nil {
		return nil, err
	}
	return a.mapper.Task.FromDatabaseSlice(rows), nil
}

func (a *apiImpl) GetCompletedTasks(ctx context.Context) ([]domain.Task, error) {
	rows, err := a.repo.ListTasksByCompletion(ctx, true)
	if err != nil {
		return nil, err
	}
	return a.mapper.Task.FromDatabaseSlice(rows), nil
}

func (a *apiImpl) GetTaskByID(ctx context.Context, id int64) (domain.Task, bool, error) {
	row, err := a.repo.GetTask(ctx, id)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return domain.Task{}, false, nil
		}
		return domain.Task{}, false, err
	}
	return a.mapper.Task.FromDatabase(*row), true, nil
}

package api

import (
	"context"
	"testing"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestAPI(t *testing.T) (API, func()) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	api := New(repo)
	cleanup := func() { repo.Close() }
	return api, cleanup
}

func TestAPI_InsertAndGet_RoundTrip(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()
	ctx := context.Background()

	in := domain.Task{
		ID:          77,
		Name:        "Dentist",
		Description: "Check-up",
		DueDate:     "3/4/2025",
		Category:    "Health",
		Priority:    domain.PriorityMedium,
	}

	stored, err := api.Insert(ctx, in)
	require.NoError(t, err)
	assert.Greater(t, stored.ID, int64(0))
	assert.NotEqual(t, in.ID, stored.ID)

	got, ok, err := api.GetTaskByID(ctx, stored.ID)
	require.NoError(t, err)
	require.True(t, ok)

	want := in
	want.ID = stored.ID
	assert.Equal(t, want, got)
}

func TestAPI_GetTaskByID_Absent(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()

	_, ok, err := api.GetTaskByID(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAPI_Partition(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"a", "b", "c", "d"} {
		task, err := api.Insert(ctx, domain.Task{Name: name})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	for _, id := range ids[1:3] {
		task, ok, err := api.GetTaskByID(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, api.Update(ctx, task.Completed()))
	}

	all, err := api.GetAllTasks(ctx)
	require.NoError(t, err)
	active, err := api.GetActiveTasks(ctx)
	require.NoError(t, err)
	completed, err := api.GetCompletedTasks(ctx)
	require.NoError(t, err)

	assert.Len(t, all, 4)
	assert.Len(t, active, 2)
	assert.Len(t, completed, 2)

	seen := map[int64]int{}
	for _, task := range append(active, completed...) {
		seen[task.ID]++
	}
	for _, task := range all {
		assert.Equal(t, 1, seen[task.ID], "task %d must be in exactly one partition", task.ID)
	}
	for _, task := range completed {
		assert.True(t, task.IsCompleted)
	}
}

func TestAPI_Update_ReplacesWholeRecord(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()
	ctx := context.Background()

	task, err := api.Insert(ctx, domain.Task{Name: "old", Description: "keep?", Category: "Work"})
	require.NoError(t, err)

	require.NoError(t, api.Update(ctx, domain.Task{ID: task.ID, Name: "new"}))

	got, _, err := api.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Task{ID: task.ID, Name: "new"}, got)

	err = api.Update(ctx, domain.Task{ID: task.ID + 100, Name: "ghost"})
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestAPI_DeleteTask_Idempotent(t *testing.T) {
	api, cleanup := setupTestAPI(t)
	defer cleanup()
	ctx := context.Background()

	task, err := api.Insert(ctx, domain.Task{Name: "gone"})
	require.NoError(t, err)

	require.NoError(t, api.DeleteTask(ctx, task.ID))
	require.NoError(t, api.DeleteTask(ctx, task.ID))

	all, err := api.GetAllTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAPI_ClosedStore(t *testing.T) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	api := New(repo)
	require.NoError(t, repo.Close())

	_, err = api.GetAllTasks(context.Background())
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeDatabase))
}

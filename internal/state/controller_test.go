package state

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/repository/sqlite"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestController(t *testing.T) (*Controller, api.API) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	taskAPI := api.New(repo)

	c := New(taskAPI, zap.NewNop())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		c.Close(ctx)
		repo.Close()
	})
	require.NoError(t, c.Ready(context.Background()))
	return c, taskAPI
}

func wait(t *testing.T, p *Pending) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, p.Wait(ctx))
}

func TestController_InitialLoad(t *testing.T) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	defer repo.Close()
	taskAPI := api.New(repo)

	_, err = taskAPI.Insert(context.Background(), domain.Task{Name: "existing"})
	require.NoError(t, err)

	c := New(taskAPI, nil)
	defer c.Close(context.Background())
	require.NoError(t, c.Ready(context.Background()))

	snap := c.Snapshot()
	require.Len(t, snap.All, 1)
	assert.Equal(t, "existing", snap.Active[0].Name)
	assert.Equal(t, 0, snap.CompletedCount)
}

func TestController_CreateCompleteDelete(t *testing.T) {
	c, _ := newTestController(t)

	// empty store, three tasks added
	for _, name := range []string{"A", "B", "C"} {
		wait(t, c.AddTask(domain.Task{Name: name}))
	}
	snap := c.Snapshot()
	assert.Len(t, snap.Active, 3)
	assert.Equal(t, 0, snap.CompletedCount)

	var b domain.Task
	for _, task := range snap.All {
		if task.Name == "B" {
			b = task
		}
	}
	require.NotZero(t, b.ID)

	wait(t, c.MarkTaskCompleted(b))
	snap = c.Snapshot()
	assert.Len(t, snap.Active, 2)
	assert.Equal(t, 1, snap.CompletedCount)

	var a domain.Task
	for _, task := range snap.Active {
		if task.Name == "A" {
			a = task
		}
	}
	wait(t, c.DeleteTask(a.ID))
	snap = c.Snapshot()
	require.Len(t, snap.Active, 1)
	assert.Equal(t, "C", snap.Active[0].Name)
	assert.Equal(t, 1, snap.CompletedCount)
}

func TestController_PartitionHolds(t *testing.T) {
	c, _ := newTestController(t)

	for i := 0; i < 6; i++ {
		wait(t, c.AddTask(domain.Task{Name: "t", IsCompleted: i%3 == 0}))
	}

	snap := c.Snapshot()
	assert.Equal(t, len(snap.All), len(snap.Active)+snap.CompletedCount)
	for _, task := range snap.Active {
		assert.False(t, task.IsCompleted)
	}
	assert.Equal(t, 2, snap.CompletedCount)
}

func TestController_UndoDelete(t *testing.T) {
	c, _ := newTestController(t)

	add := c.AddTask(domain.Task{Name: "Water plants", Description: "balcony", DueDate: "9/9/2025", Category: "Home", Priority: "Low"})
	wait(t, add)
	original := add.Task()

	del := c.DeleteTask(original.ID)
	wait(t, del)
	assert.Equal(t, original, del.Task())
	assert.Empty(t, c.Snapshot().All)

	buffered, ok := c.LastDeleted()
	require.True(t, ok)
	assert.Equal(t, original, buffered)

	undo := c.UndoDelete()
	wait(t, undo)

	snap := c.Snapshot()
	require.Len(t, snap.All, 1)
	restored := snap.All[0]
	assert.NotEqual(t, original.ID, restored.ID)
	assert.Equal(t, original.WithoutID(), restored.WithoutID())
	assert.Equal(t, restored, undo.Task())

	_, ok = c.LastDeleted()
	assert.False(t, ok)

	// second undo is a no-op
	wait(t, c.UndoDelete())
	assert.Len(t, c.Snapshot().All, 1)
}

func TestController_UndoKeepsOnlyLastDeletion(t *testing.T) {
	c, _ := newTestController(t)

	first := c.AddTask(domain.Task{Name: "first"})
	second := c.AddTask(domain.Task{Name: "second"})
	wait(t, first)
	wait(t, second)

	wait(t, c.DeleteTask(first.Task().ID))
	wait(t, c.DeleteTask(second.Task().ID))
	wait(t, c.UndoDelete())

	snap := c.Snapshot()
	require.Len(t, snap.All, 1)
	assert.Equal(t, "second", snap.All[0].Name)
}

func TestController_DeleteAbsentKeepsUndoSlot(t *testing.T) {
	c, _ := newTestController(t)

	add := c.AddTask(domain.Task{Name: "x"})
	wait(t, add)
	wait(t, c.DeleteTask(add.Task().ID))
	wait(t, c.DeleteTask(9999))

	buffered, ok := c.LastDeleted()
	require.True(t, ok)
	assert.Equal(t, "x", buffered.Name)
}

func TestController_OperationsRunInOrder(t *testing.T) {
	c, _ := newTestController(t)

	var pending []*Pending
	for i := 0; i < 20; i++ {
		pending = append(pending, c.AddTask(domain.Task{Name: "n"}))
	}
	for _, p := range pending {
		wait(t, p)
	}

	for i := 1; i < len(pending); i++ {
		assert.Greater(t, pending[i].Task().ID, pending[i-1].Task().ID)
	}
	assert.Len(t, c.Snapshot().All, 20)
}

func TestController_Subscribe(t *testing.T) {
	c, _ := newTestController(t)

	updates, unsubscribe := c.Subscribe()
	initial := <-updates
	assert.Empty(t, initial.All)

	wait(t, c.AddTask(domain.Task{Name: "watched"}))

	select {
	case snap := <-updates:
		require.Len(t, snap.Active, 1)
		assert.Equal(t, "watched", snap.Active[0].Name)
		assert.Greater(t, snap.Version, initial.Version)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot delivered")
	}

	unsubscribe()
	unsubscribe()
	_, open := <-updates
	assert.False(t, open)
}

func TestController_SlowSubscriberSeesLatest(t *testing.T) {
	c, _ := newTestController(t)

	updates, unsubscribe := c.Subscribe()
	defer unsubscribe()

	for i := 0; i < 5; i++ {
		wait(t, c.AddTask(domain.Task{Name: "n"}))
	}

	snap := <-updates
	assert.Len(t, snap.All, 5)
}

// flakyAPI fails reads on demand.
type flakyAPI struct {
	api.API
	mu       sync.Mutex
	failRead bool
}

func (f *flakyAPI) GetAllTasks(ctx context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	fail := f.failRead
	f.mu.Unlock()
	if fail {
		return nil, stderrors.New("disk unavailable")
	}
	return f.API.GetAllTasks(ctx)
}

func TestController_FailedReloadKeepsCache(t *testing.T) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	defer repo.Close()

	flaky := &flakyAPI{API: api.New(repo)}
	c := New(flaky, zap.NewNop())
	defer c.Close(context.Background())
	require.NoError(t, c.Ready(context.Background()))

	wait(t, c.AddTask(domain.Task{Name: "kept"}))
	before := c.Snapshot()

	flaky.mu.Lock()
	flaky.failRead = true
	flaky.mu.Unlock()

	p := c.AddTask(domain.Task{Name: "written but not reloaded"})
	<-p.Done()
	assert.EqualError(t, p.Err(), "disk unavailable")
	assert.Equal(t, before, c.Snapshot())

	flaky.mu.Lock()
	flaky.failRead = false
	flaky.mu.Unlock()

	wait(t, c.Load())
	assert.Len(t, c.Snapshot().All, 2)
}

func TestController_Close(t *testing.T) {
	repo, err := sqlite.New(sqlite.MemoryPath)
	require.NoError(t, err)
	defer repo.Close()

	c := New(api.New(repo), zap.NewNop())
	queued := c.AddTask(domain.Task{Name: "drained"})
	updates, _ := c.Subscribe()

	require.NoError(t, c.Close(context.Background()))
	assert.NoError(t, queued.Err())
	select {
	case <-queued.Done():
	default:
		t.Fatal("queued operation was not drained")
	}

	late := c.AddTask(domain.Task{Name: "late"})
	<-late.Done()
	assert.ErrorIs(t, late.Err(), ErrClosed)

	for range updates {
	}
}

func TestPending_Wait(t *testing.T) {
	p := newPending()
	assert.NoError(t, p.Err())
	assert.Zero(t, p.Task())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Wait(ctx), context.Canceled)

	p.complete(domain.Task{ID: 3}, nil)
	p.complete(domain.Task{ID: 4}, stderrors.New("ignored"))
	assert.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, int64(3), p.Task().ID)
}

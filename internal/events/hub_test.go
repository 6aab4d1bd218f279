package events

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu      sync.Mutex
	changes []Change
	err     error
}

func (r *recordingPublisher) Publish(_ context.Context, change Change) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, change)
	return r.err
}

func TestHub_PrefixRouting(t *testing.T) {
	hub := NewHub(zap.NewNop())

	tasks, unsubTasks := hub.Subscribe("content://a/tasks", 4)
	defer unsubTasks()
	all, unsubAll := hub.Subscribe("", 4)
	defer unsubAll()

	ctx := context.Background()
	hub.Notify(ctx, "content://a/tasks/1")
	hub.Notify(ctx, "content://b/other")

	got := <-tasks
	assert.Equal(t, "content://a/tasks/1", got.URI)
	assert.False(t, got.At.IsZero())
	assert.Len(t, tasks, 0)

	assert.Equal(t, "content://a/tasks/1", (<-all).URI)
	assert.Equal(t, "content://b/other", (<-all).URI)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	ch, unsubscribe := hub.Subscribe("", 1)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Notify(context.Background(), "content://x/tasks")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, 1)
}

func TestHub_ForwardsToPublishers(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: stderrors.New("offline")}
	hub := NewHub(zap.NewNop(), failing, ok)

	local, unsubscribe := hub.Subscribe("", 1)
	defer unsubscribe()

	change := Change{URI: "content://x/tasks/3", At: time.Unix(10, 0)}
	hub.Publish(context.Background(), change)

	assert.Equal(t, change, <-local)
	assert.Equal(t, []Change{change}, ok.changes)
	assert.Equal(t, []Change{change}, failing.changes)
}

func TestHub_UnsubscribeAndClose(t *testing.T) {
	hub := NewHub(nil)

	a, unsubA := hub.Subscribe("", 1)
	b, unsubB := hub.Subscribe("", 1)

	unsubA()
	unsubA()
	_, open := <-a
	assert.False(t, open)

	hub.Close()
	_, open = <-b
	assert.False(t, open)
	require.NotPanics(t, unsubB)

	hub.Notify(context.Background(), "content://x/tasks")
}

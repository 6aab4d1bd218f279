package state

import (
	"context"
	"sync"

	"task-manager/internal/domain"
)

// Pending is the handle returned by every controller mutation. It completes
// once the mutation and the reload that follows it have run on the lane.
type Pending struct {
	done chan struct{}
	once sync.Once
	err  error
	task domain.Task
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) complete(task domain.Task, err error) {
	p.once.Do(func() {
		p.task = task
		p.err = err
		close(p.done)
	})
}

// Done is closed when the operation has finished.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the operation's error. It is nil until Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Task returns the record the operation produced: the inserted task for
// AddTask and UndoDelete, the captured task for DeleteTask.
func (p *Pending) Task() domain.Task {
	select {
	case <-p.done:
		return p.task
	default:
		return domain.Task{}
	}
}

// Wait blocks until the operation finishes or ctx ends.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

package state

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/api"
	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
)

// DefaultOperationTimeout bounds a single mutation together with its reload.
const DefaultOperationTimeout = 30 * time.Second

// ErrClosed is reported by operations submitted after Close.
var ErrClosed = stderrors.New("state controller is closed")

// Snapshot is an immutable view of the cached task list and the projections
// derived from it. Callers must not modify the slices.
type Snapshot struct {
	All            []domain.Task
	Active         []domain.Task
	CompletedCount int
	Version        uint64
}

func newSnapshot(all []domain.Task, version uint64) Snapshot {
	active, _ := domain.Partition(all)
	return Snapshot{
		All:            all,
		Active:         active,
		CompletedCount: domain.CountCompleted(all),
		Version:        version,
	}
}

type operation struct {
	name    string
	run     func(ctx context.Context) (domain.Task, error)
	pending *Pending
}

// Controller owns the cached task state for one presentation session. All
// store access goes through a single lane: operations run one at a time in
// submission order, and each mutation is followed by a full reload before the
// next operation starts.
type Controller struct {
	api     api.API
	logger  *zap.Logger
	timeout time.Duration

	queueMu sync.Mutex
	queue   []operation
	wake    chan struct{}
	closed  bool
	stopped chan struct{}

	stateMu     sync.RWMutex
	snapshot    Snapshot
	lastDeleted *domain.Task

	subsMu sync.Mutex
	subs   map[int]chan Snapshot
	nextID int

	initial *Pending
}

// Option configures a Controller.
type Option func(*Controller)

// WithTimeout sets the per-operation timeout. Non-positive values disable it.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New creates a controller and queues the initial load. Use Ready to wait for it.
func New(taskAPI api.API, logger *zap.Logger, opts ...Option) *Controller {
	c := &Controller{
		api:     taskAPI,
		logger:  logging.OrNop(logger).Named("state"),
		timeout: DefaultOperationTimeout,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		subs:    make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.lane()
	c.initial = c.Load()
	return c
}

// Ready waits for the initial load queued by New.
func (c *Controller) Ready(ctx context.Context) error {
	return c.initial.Wait(ctx)
}

// Snapshot returns the current projections.
func (c *Controller) Snapshot() Snapshot {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.snapshot
}

// LastDeleted returns the record an UndoDelete would restore.
func (c *Controller) LastDeleted() (domain.Task, bool) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	if c.lastDeleted == nil {
		return domain.Task{}, false
	}
	return *c.lastDeleted, true
}

// Subscribe returns a channel that receives the current snapshot and every
// later one. A subscriber that falls behind only sees the latest snapshot.
// The returned func unsubscribes and closes the channel.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	c.subsMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	ch <- c.Snapshot()
	c.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subsMu.Lock()
			defer c.subsMu.Unlock()
			if _, ok := c.subs[id]; ok {
				delete(c.subs, id)
				close(ch)
			}
		})
	}
}

// Load replaces the cache with a full read of the store.
func (c *Controller) Load() *Pending {
	return c.submit("load", func(ctx context.Context) (domain.Task, error) {
		return domain.Task{}, c.reload(ctx)
	})
}

// AddTask inserts task under a fresh id and reloads.
func (c *Controller) AddTask(task domain.Task) *Pending {
	return c.submit("add", func(ctx context.Context) (domain.Task, error) {
		stored, err := c.api.Insert(ctx, task)
		if err != nil {
			return domain.Task{}, err
		}
		return stored, c.reload(ctx)
	})
}

// MarkTaskCompleted stores a copy of task with IsCompleted set and reloads.
func (c *Controller) MarkTaskCompleted(task domain.Task) *Pending {
	return c.submit("complete", func(ctx context.Context) (domain.Task, error) {
		done := task.Completed()
		if err := c.api.Update(ctx, done); err != nil {
			return domain.Task{}, err
		}
		return done, c.reload(ctx)
	})
}

// DeleteTask captures the record into the single undo slot, deletes it and
// reloads. Deleting an absent id leaves the undo slot unchanged.
func (c *Controller) DeleteTask(id int64) *Pending {
	return c.submit("delete", func(ctx context.Context) (domain.Task, error) {
		captured, found, err := c.api.GetTaskByID(ctx, id)
		if err != nil {
			return domain.Task{}, err
		}
		if err := c.api.DeleteTask(ctx, id); err != nil {
			return domain.Task{}, err
		}
		if found {
			c.stateMu.Lock()
			c.lastDeleted = &captured
			c.stateMu.Unlock()
		}
		return captured, c.reload(ctx)
	})
}

// UndoDelete re-inserts the last deleted record under a new id, clears the
// undo slot and reloads. It does nothing when the slot is empty.
func (c *Controller) UndoDelete() *Pending {
	return c.submit("undo", func(ctx context.Context) (domain.Task, error) {
		c.stateMu.RLock()
		buffered := c.lastDeleted
		c.stateMu.RUnlock()
		if buffered == nil {
			return domain.Task{}, nil
		}

		restored, err := c.api.Insert(ctx, *buffered)
		if err != nil {
			return domain.Task{}, err
		}
		c.stateMu.Lock()
		c.lastDeleted = nil
		c.stateMu.Unlock()
		return restored, c.reload(ctx)
	})
}

// Close stops accepting operations, runs the ones already queued and waits
// for the lane to exit or ctx to end.
func (c *Controller) Close(ctx context.Context) error {
	c.queueMu.Lock()
	if !c.closed {
		c.closed = true
		c.signal()
	}
	c.queueMu.Unlock()

	select {
	case <-c.stopped:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.subsMu.Lock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
	c.subsMu.Unlock()
	return nil
}

func (c *Controller) submit(name string, run func(ctx context.Context) (domain.Task, error)) *Pending {
	p := newPending()

	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	if c.closed {
		p.complete(domain.Task{}, ErrClosed)
		return p
	}
	c.queue = append(c.queue, operation{name: name, run: run, pending: p})
	c.signal()
	return p
}

// signal must be called with queueMu held.
func (c *Controller) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Controller) lane() {
	defer close(c.stopped)
	for {
		c.queueMu.Lock()
		if len(c.queue) == 0 {
			closed := c.closed
			c.queueMu.Unlock()
			if closed {
				return
			}
			<-c.wake
			continue
		}
		op := c.queue[0]
		c.queue = c.queue[1:]
		c.queueMu.Unlock()

		c.execute(op)
	}
}

func (c *Controller) execute(op operation) {
	ctx := context.Background()
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	task, err := op.run(ctx)
	if err != nil && stderrors.Is(err, context.DeadlineExceeded) {
		err = errors.NewTimeoutError(op.name, err)
	}
	if err != nil {
		if errors.ShouldLogError(err) {
			c.logger.Error("task operation failed", zap.String("op", op.name), zap.Error(err))
		} else {
			c.logger.Debug("task operation rejected", zap.String("op", op.name), zap.Error(err))
		}
	} else {
		c.logger.Debug("task operation done", zap.String("op", op.name), zap.Int64("task_id", task.ID))
	}
	op.pending.complete(task, err)
}

// reload reads every task and swaps the cache. On failure the cache is kept.
func (c *Controller) reload(ctx context.Context) error {
	all, err := c.api.GetAllTasks(ctx)
	if err != nil {
		return err
	}

	c.stateMu.Lock()
	c.snapshot = newSnapshot(all, c.snapshot.Version+1)
	snap := c.snapshot
	c.stateMu.Unlock()

	c.publish(snap)
	return nil
}

func (c *Controller) publish(snap Snapshot) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- snap:
			continue
		default:
		}
		// Drop the stale snapshot the subscriber has not read yet.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// Package events carries change notifications for task resources to
// in-process observers and, optionally, to other processes.
package events

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"task-manager/internal/logging"
)

// Change announces that the resource at URI was modified.
type Change struct {
	URI string    `json:"uri"`
	At  time.Time `json:"at"`
}

// Publisher forwards changes beyond the local process.
type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

type subscriber struct {
	prefix string
	ch     chan Change
}

// Hub fans changes out to subscribers whose prefix matches the change URI.
// Delivery never blocks: a subscriber with a full buffer misses the change.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]subscriber
	nextID  int
	forward []Publisher
	logger  *zap.Logger
	now     func() time.Time
}

// NewHub creates a hub that also forwards every change to the given publishers.
func NewHub(logger *zap.Logger, forward ...Publisher) *Hub {
	return &Hub{
		subs:    make(map[int]subscriber),
		forward: forward,
		logger:  logging.OrNop(logger).Named("events"),
		now:     time.Now,
	}
}

// Subscribe registers for changes whose URI starts with prefix. An empty
// prefix matches everything.
func (h *Hub) Subscribe(prefix string, buffer int) (<-chan Change, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Change, buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = subscriber{prefix: prefix, ch: ch}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(ch)
			}
		})
	}
}

// Notify publishes a change for uri stamped with the current time.
func (h *Hub) Notify(ctx context.Context, uri string) {
	h.Publish(ctx, Change{URI: uri, At: h.now()})
}

// Publish delivers change locally, then to every forward publisher. Forward
// failures are logged and do not affect local delivery.
func (h *Hub) Publish(ctx context.Context, change Change) {
	h.deliver(change)

	for _, p := range h.forward {
		if err := p.Publish(ctx, change); err != nil {
			h.logger.Error("forward change failed", zap.String("uri", change.URI), zap.Error(err))
		}
	}
}

func (h *Hub) deliver(change Change) {
	h.mu.RLock()
	for _, sub := range h.subs {
		if !strings.HasPrefix(change.URI, sub.prefix) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			h.logger.Warn("dropping change for slow subscriber", zap.String("uri", change.URI))
		}
	}
	h.mu.RUnlock()
}

// Close unsubscribes every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

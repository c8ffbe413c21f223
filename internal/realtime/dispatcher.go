package realtime

import (
	"context"
	"sync"

	"github.com/kelasku/kelasku-backend/pkg/feed"
)

// Dispatcher fans change events out to in-process subscribers, keyed by
// feed scope. Slow subscribers are skipped rather than blocking the
// publishing path.
type Dispatcher struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]chan feed.Event
	nextID      int64
	bufferSize  int
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subscribers: make(map[string]map[int64]chan feed.Event),
		bufferSize:  16,
	}
}

// Subscribe registers interest in one scope. The returned cleanup must be
// called when the consumer goes away; cancelling ctx does the same.
func (d *Dispatcher) Subscribe(ctx context.Context, scope string) (<-chan feed.Event, func()) {
	if scope == "" {
		ch := make(chan feed.Event)
		close(ch)
		return ch, func() {}
	}

	d.mu.Lock()
	d.nextID++
	id := d.nextID
	stream := make(chan feed.Event, d.bufferSize)
	if d.subscribers[scope] == nil {
		d.subscribers[scope] = make(map[int64]chan feed.Event)
	}
	d.subscribers[scope][id] = stream
	d.mu.Unlock()

	cleanup := func() { d.unsubscribe(scope, id) }
	go func() {
		<-ctx.Done()
		cleanup()
	}()
	return stream, cleanup
}

// Publish delivers an event to every subscriber of its scope.
func (d *Dispatcher) Publish(ev feed.Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, stream := range d.subscribers[ev.Scope] {
		select {
		case stream <- ev:
		default: // Subscriber is not draining; drop rather than block.
		}
	}
}

// SubscriberCount reports how many subscribers a scope currently has.
func (d *Dispatcher) SubscriberCount(scope string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers[scope])
}

func (d *Dispatcher) unsubscribe(scope string, id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	subs, ok := d.subscribers[scope]
	if !ok {
		return
	}
	if stream, ok := subs[id]; ok {
		delete(subs, id)
		close(stream)
	}
	if len(subs) == 0 {
		delete(d.subscribers, scope)
	}
}

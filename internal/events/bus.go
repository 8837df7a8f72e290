// Package events carries progress-change notifications between components
// with typed payloads, so subscribers are statically known rather than
// discovered through string event names.
package events

import (
	"sync"

	"vocaboplay/internal/models"
)

// ProgressEvent is published every time a student's snapshot changes.
type ProgressEvent struct {
	StudentID int64
	Snapshot  models.ProgressSnapshot
}

// Subscriber receives progress events. Delivery is synchronous on the
// publishing goroutine; subscribers must not block.
type Subscriber func(ProgressEvent)

// Bus is an observer list for progress events.
type Bus struct {
	mu          sync.RWMutex
	nextID      int
	subscribers map[int]Subscriber
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]Subscriber)}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subscribers[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subscribers, id)
	}
}

// Publish delivers event to every subscriber, in the order events are
// published on the calling goroutine.
func (b *Bus) Publish(event ProgressEvent) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subscribers))
	for _, fn := range b.subscribers {
		subs = append(subs, fn)
	}
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(event)
	}
}

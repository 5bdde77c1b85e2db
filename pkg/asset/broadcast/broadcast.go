// Package broadcast implements the lossy, lag-tolerant fan-out channel
// an Asset publishes its status transitions on.
package broadcast

import "sync"

// Capacity is the default per-subscriber buffer depth. A subscriber
// that falls this far behind starts missing messages rather than
// blocking the publisher.
const Capacity = 100

// Message is the payload published on a Broadcaster.
type Message struct {
	Status any
}

// Broadcaster fans a single stream of Messages out to any number of
// subscribers, each with its own buffered channel. A full subscriber
// buffer silently drops the new message instead of blocking Publish.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Message
	next int
}

// New returns an empty Broadcaster.
func New() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Message)}
}

// Subscribe registers a new listener and returns its channel along with
// an Unsubscribe function the caller must eventually invoke.
func (b *Broadcaster) Subscribe() (<-chan Message, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Message, Capacity)
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
}

// Publish delivers msg to every current subscriber, dropping it for any
// subscriber whose buffer is full.
func (b *Broadcaster) Publish(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

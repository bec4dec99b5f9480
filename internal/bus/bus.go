// Package bus provides the in-process change notification bus.
// Publishes carry no payload: subscribers re-read current state themselves.
package bus

import "sync"

// Topic names a change stream.
type Topic string

const (
	// CartChanged fires after any cart mutation, local or remote.
	CartChanged Topic = "local-cart-changed"

	// WishlistChanged fires after any wishlist mutation, local or remote.
	WishlistChanged Topic = "local-wishlist-changed"
)

// Bus is a synchronous publish/subscribe hub. Construct one per application
// and pass it by reference to components that mutate or observe cart state.
// The zero value is not usable; call New.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic]map[int]func()
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic]map[int]func())}
}

// Subscribe registers handler for topic and returns an unsubscribe function.
// Unsubscribing twice is harmless.
func (b *Bus) Subscribe(topic Topic, handler func()) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
	}
}

// Publish synchronously invokes every handler currently subscribed to topic,
// in arbitrary order. There is no buffering and no replay for late
// subscribers.
func (b *Bus) Publish(topic Topic) {
	b.mu.Lock()
	handlers := make([]func(), 0, len(b.subs[topic]))
	for _, h := range b.subs[topic] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	// Invoked outside the lock so a handler may subscribe or unsubscribe.
	for _, h := range handlers {
		h()
	}
}

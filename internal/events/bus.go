package events

import (
	"sync"

	"github.com/ikkim/storefront/pkg/logger"
)

// Topic names a kind of in-process event
type Topic string

const (
	// CartUpdated fires after any confirmed cart mutation.
	CartUpdated Topic = "cartUpdated"
	// UnreadCountChanged fires when the notification count is refreshed or pushed.
	UnreadCountChanged Topic = "unreadCountChanged"
)

// Event is delivered to subscribers
type Event struct {
	Topic   Topic
	Payload interface{}
}

// Handler receives events
type Handler func(Event)

// Bus is a synchronous publish/subscribe hub. Handlers run on the publisher's
// goroutine in subscription order.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[Topic][]subscription
}

type subscription struct {
	id      int
	handler Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[Topic][]subscription)}
}

// Subscribe registers h for topic and returns a function that removes it.
func (b *Bus) Subscribe(topic Topic, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[topic] = append(b.handlers[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			subs := b.handlers[topic]
			for i, s := range subs {
				if s.id == id {
					b.handlers[topic] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers an event to every current subscriber of its topic. A
// panicking handler is logged and does not stop delivery to the rest.
func (b *Bus) Publish(topic Topic, payload interface{}) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[topic]))
	copy(subs, b.handlers[topic])
	b.mu.RUnlock()

	ev := Event{Topic: topic, Payload: payload}
	for _, s := range subs {
		deliver(s.handler, ev)
	}
}

func deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Event handler panicked", map[string]interface{}{
				"topic": string(ev.Topic),
				"panic": r,
			})
		}
	}()
	h(ev)
}

// Subscribers returns the number of handlers registered for topic
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[topic])
}

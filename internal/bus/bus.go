// Package bus is an in-process publish/subscribe fan-out keyed by topic name.
// Delivery is at-most-once per subscriber: no queueing beyond each subscriber's
// buffer, no persistence, no replay for late subscribers.
package bus

import (
	"sync"
)

// DefaultBuffer is the per-subscriber event buffer when none is configured.
const DefaultBuffer = 64

// Bus fans published events out to all current subscribers of a topic.
// Construct once at process start and pass by reference; it is safe for
// concurrent use by publishers and connecting/disconnecting subscribers.
type Bus struct {
	mu     sync.RWMutex
	topics map[string]map[*Subscription]struct{}
	buffer int
}

// Subscription is a live handle to one topic. Read events from Events();
// the channel is closed when the subscription is closed.
type Subscription struct {
	topic  string
	events chan interface{}
	bus    *Bus
	once   sync.Once
}

// New creates a Bus whose subscribers each buffer up to buffer events.
// A subscriber that falls further behind misses events.
func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		topics: make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Publish delivers event to every subscriber currently registered on topic,
// in publish order per subscriber. It never blocks: a subscriber with a full
// buffer is skipped. Publishing to a topic with no subscribers is a no-op.
func (b *Bus) Publish(topic string, event interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.topics[topic] {
		select {
		case sub.events <- event:
		default:
			// Slow subscriber; at-most-once means it simply misses this event.
		}
	}
}

// Subscribe registers a new subscriber on topic and returns its handle.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic:  topic,
		events: make(chan interface{}, b.buffer),
		bus:    b,
	}
	b.mu.Lock()
	if b.topics[topic] == nil {
		b.topics[topic] = make(map[*Subscription]struct{})
	}
	b.topics[topic][sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Events yields the subscriber's ordered event stream.
func (s *Subscription) Events() <-chan interface{} {
	return s.events
}

// Topic returns the topic this subscription is bound to.
func (s *Subscription) Topic() string {
	return s.topic
}

// Close deregisters the subscription and closes its event channel. It is
// idempotent: duplicate disconnect signals are safe and do not affect other
// subscribers of the same topic.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.bus
		b.mu.Lock()
		if subs := b.topics[s.topic]; subs != nil {
			delete(subs, s)
			if len(subs) == 0 {
				delete(b.topics, s.topic)
			}
		}
		// Publishers send under RLock, so holding the write lock here
		// guarantees no send is in flight on this channel.
		close(s.events)
		b.mu.Unlock()
	})
}

// SubscriberCount returns the number of live subscribers on topic.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

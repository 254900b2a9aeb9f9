package notifications

import (
	"context"
	"fmt"
	"sync"

	"github.com/routeflow/routeflow-backend/pkg/logger"
)

const defaultSubscriberBuffer = 16

// Broker fans order events out to in-process subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the event. Delivery is
// best-effort and happens outside any database transaction.
type Broker struct {
	logg   *logger.Logger
	buffer int

	mu     sync.Mutex
	nextID int64
	subs   map[int64]chan OrderEvent
	closed bool
}

// NewBroker builds an event broker with the default subscriber buffer.
func NewBroker(logg *logger.Logger) (*Broker, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Broker{
		logg:   logg,
		buffer: defaultSubscriberBuffer,
		subs:   make(map[int64]chan OrderEvent),
	}, nil
}

// Subscribe registers a new listener. The returned cancel func must be called
// when the listener goes away; it closes the channel.
func (b *Broker) Subscribe() (<-chan OrderEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan OrderEvent)
		close(ch)
		return ch, func() {}
	}

	b.nextID++
	id := b.nextID
	ch := make(chan OrderEvent, b.buffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer space.
func (b *Broker) Publish(ctx context.Context, event OrderEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	dropped := 0
	for _, sub := range b.subs {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		ctx = b.logg.WithFields(ctx, map[string]any{
			"event_type":   event.Type,
			"order_number": event.OrderNumber,
			"dropped":      dropped,
		})
		b.logg.Warn(ctx, "dropped order event for slow subscribers")
	}
}

// SubscriberCount reports how many listeners are currently registered.
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close disconnects all subscribers. Subsequent publishes are no-ops.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub)
	}
}

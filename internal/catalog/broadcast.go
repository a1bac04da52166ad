package catalog

import (
	"sync"
	"time"

	"github.com/oqtepa/fastfood-storefront/internal/model"
)

// Update is delivered to subscribers after every catalog mutation. It
// carries a full snapshot so consumers never need a reference to the
// store's internal list.
type Update struct {
	Products  []model.Product `json:"products"`
	Timestamp time.Time       `json:"timestamp"`
}

// Broadcaster fans catalog updates out to subscribers with
// at-least-once delivery to current subscribers. Publishing never
// blocks: when a subscriber's buffer is full the oldest pending update
// is dropped so the newest always fits, meaning a slow subscriber
// still observes a notification for the final state.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan Update
	nextID int
	buffer int
	repeat time.Duration
	closed bool
}

// NewBroadcaster creates a Broadcaster with the given per-subscriber
// buffer. When repeat is positive, every publish is re-broadcast once
// after that delay as a backstop for subscribers that attach late.
func NewBroadcaster(buffer int, repeat time.Duration) *Broadcaster {
	if buffer <= 0 {
		buffer = 8
	}
	return &Broadcaster{
		subs:   make(map[int]chan Update),
		buffer: buffer,
		repeat: repeat,
	}
}

// Subscribe registers a new subscriber. The returned cancel func
// unregisters it and closes the channel; it is safe to call twice.
func (b *Broadcaster) Subscribe() (<-chan Update, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan Update, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish delivers a snapshot to all current subscribers. With zero
// subscribers it is a no-op. Failures to deliver never propagate to
// the mutator.
func (b *Broadcaster) Publish(products []model.Product) {
	up := Update{Products: products, Timestamp: time.Now().UTC()}
	b.send(up)
	if b.repeat > 0 {
		time.AfterFunc(b.repeat, func() { b.send(up) })
	}
}

func (b *Broadcaster) send(up Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- up:
			continue
		default:
		}
		// Full buffer: drop the oldest pending update to make room.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- up:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unregisters and closes all subscribers. Subsequent publishes
// are dropped and new subscriptions receive a closed channel.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

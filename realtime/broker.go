// Package realtime fans event-list changes out to live dashboard views.
// Subscriptions are scoped to a request context: the channel is acquired on
// subscribe and released automatically when the context ends, so a view torn
// down mid-stream can never leak a channel.
package realtime

import (
	"context"
	"sync"

	"github.com/kassemabbassi/formBuilder/model"
)

type Op string

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

type Change struct {
	Op    Op          `json:"op"`
	Event model.Event `json:"event"`
}

type Broker struct {
	mu   sync.Mutex
	subs map[chan Change]string // channel -> owning user id
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Change]string)}
}

// Subscribe registers a listener for changes to the given user's events. The
// returned channel is closed and deregistered when ctx is done.
func (b *Broker) Subscribe(ctx context.Context, userID string) <-chan Change {
	ch := make(chan Change, 16)

	b.mu.Lock()
	b.subs[ch] = userID
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()

	return ch
}

// Publish delivers a change to every subscriber watching the owning user's
// list. Slow subscribers drop changes rather than block the publisher; a
// dashboard that misses one refetches on reconnect.
func (b *Broker) Publish(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch, userID := range b.subs {
		if userID != change.Event.UserID {
			continue
		}
		select {
		case ch <- change:
		default:
		}
	}
}

// Len reports the number of live subscriptions.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

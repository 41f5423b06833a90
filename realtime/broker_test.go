package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/kassemabbassi/formBuilder/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesOwnersSubscribers(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mine := b.Subscribe(ctx, "user-1")
	theirs := b.Subscribe(ctx, "user-2")

	b.Publish(Change{Op: OpCreated, Event: model.Event{ID: "ev-1", UserID: "user-1"}})

	select {
	case change := <-mine:
		assert.Equal(t, OpCreated, change.Op)
		assert.Equal(t, "ev-1", change.Event.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the change")
	}

	select {
	case change := <-theirs:
		t.Fatalf("change for user-1 leaked to user-2: %+v", change)
	default:
	}
}

func TestSubscriptionReleasedWhenContextEnds(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	ch := b.Subscribe(ctx, "user-1")
	require.Equal(t, 1, b.Len())

	cancel()

	// channel close signals the release
	deadline := time.After(time.Second)
	for {
		select {
		case _, open := <-ch:
			if !open {
				assert.Equal(t, 0, b.Len())
				return
			}
		case <-deadline:
			t.Fatal("subscription not released after context cancel")
		}
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	b := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.Subscribe(ctx, "user-1")

	done := make(chan struct{})
	go func() {
		// more publishes than the channel buffers; must not block
		for i := 0; i < 100; i++ {
			b.Publish(Change{Op: OpUpdated, Event: model.Event{UserID: "user-1"}})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}

package routes

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kassemabbassi/formBuilder/app"
	"github.com/kassemabbassi/formBuilder/config"
	"github.com/kassemabbassi/formBuilder/model"
	"github.com/kassemabbassi/formBuilder/realtime"
	"github.com/kassemabbassi/formBuilder/routes/middlewares"
	"github.com/stretchr/testify/assert"
)

// The watch stream runs until the client disconnects: changes published
// while it is open must come through, and the handler must tolerate writers
// that do not support lifting the write deadline.
func TestWatchEventsStreamsChangesUntilDisconnect(t *testing.T) {
	a := app.App{Config: config.Config{}, Broker: realtime.NewBroker()}
	handler := WatchEvents(a)

	ctx, cancel := context.WithCancel(context.Background())
	ctx = context.WithValue(ctx, middlewares.UserIDContext, "user-1")
	r := httptest.NewRequest("GET", "/api/admin/events/watch", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		handler.ServeHTTP(w, r)
		close(done)
	}()

	deadline := time.Now().Add(time.Second)
	for a.Broker.Len() == 0 {
		if time.Now().After(deadline) {
			cancel()
			t.Fatal("watch handler never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	a.Broker.Publish(realtime.Change{
		Op:    realtime.OpCreated,
		Event: model.Event{ID: "ev-1", UserID: "user-1"},
	})
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch handler did not stop after the client disconnected")
	}

	assert.Equal(t, "text/event-stream", w.Result().Header.Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: created\n")
	assert.Contains(t, body, `"id":"ev-1"`)
}

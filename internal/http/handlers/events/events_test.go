package events

import (
	"apptreminder/internal/core/domain/logging"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
)

func TestEventsAreStreamed(t *testing.T) {
	server := sse.New()
	server.AutoReplay = true
	server.CreateStream("reminders")
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		New(logging.NewFakeLogger(), server, "reminders").ServeHTTP(rr, req)
		close(done)
	}()

	server.Publish("reminders", &sse.Event{Data: []byte(`{"title":"Appointment Reminder"}`)})
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `data: {"title":"Appointment Reminder"}`)
}

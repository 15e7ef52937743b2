package deliverer

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"encoding/json"
	"time"

	"github.com/r3labs/sse/v2"
)

const Stream = "reminders"

type event struct {
	ID     string    `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Sound  string    `json:"sound,omitempty"`
	FireAt time.Time `json:"fire_at"`
	Badge  bool      `json:"badge"`
}

// SSE publishes notifications to the reminders event stream.
type SSE struct {
	server *sse.Server
}

func NewSSE(server *sse.Server) *SSE {
	if server == nil {
		panic(e.NewNilArgumentError("server"))
	}
	if !server.StreamExists(Stream) {
		server.CreateStream(Stream)
	}
	return &SSE{server: server}
}

func (s *SSE) Deliver(ctx context.Context, n reminder.Notification, behavior reminder.DisplayBehavior) error {
	payload := event{
		ID:     string(n.Handle),
		Title:  n.Title,
		Body:   n.Body,
		FireAt: n.FireAt,
		Badge:  behavior.SetBadge,
	}
	if behavior.PlaySound {
		payload.Sound = n.Sound
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	s.server.Publish(Stream, &sse.Event{ID: []byte(n.Handle), Data: data})
	return nil
}

func (s *SSE) Available(ctx context.Context) bool {
	return true
}

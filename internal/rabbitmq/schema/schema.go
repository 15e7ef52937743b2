package schema

import (
	c "apptreminder/internal/core/domain/common"
	"apptreminder/internal/core/domain/reminder"
	"encoding/json"
	"time"
)

// Notification is the AMQP payload of a delayed reminder.
type Notification struct {
	Handle     string                               `json:"handle"`
	Title      string                               `json:"title"`
	Body       string                               `json:"body"`
	Sound      string                               `json:"sound"`
	FireAt     time.Time                            `json:"fireAt"`
	Channel    c.Optional[reminder.DeliveryChannel] `json:"channel"`
	Generation int64                                `json:"generation"`
}

func FromDomain(n reminder.Notification) Notification {
	return Notification{
		Handle:     string(n.Handle),
		Title:      n.Title,
		Body:       n.Body,
		Sound:      n.Sound,
		FireAt:     n.FireAt.UTC(),
		Channel:    n.Channel,
		Generation: n.Generation,
	}
}

func (n *Notification) ToDomain() reminder.Notification {
	return reminder.Notification{
		Handle:     reminder.NotificationHandle(n.Handle),
		Title:      n.Title,
		Body:       n.Body,
		Sound:      n.Sound,
		FireAt:     n.FireAt,
		Channel:    n.Channel,
		Generation: n.Generation,
	}
}

func (n *Notification) Marshal() ([]byte, error) {
	return json.Marshal(n)
}

func (n *Notification) Unmarshal(data []byte) error {
	if err := json.Unmarshal(data, n); err != nil {
		return err
	}
	if n.Handle == "" {
		return errEmptyHandle
	}
	return nil
}

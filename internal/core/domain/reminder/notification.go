package reminder

import (
	c "apptreminder/internal/core/domain/common"
	"time"
)

type Importance string

const (
	ImportanceDefault Importance = "default"
	ImportanceHigh    Importance = "high"
	ImportanceMax     Importance = "max"
)

// DeliveryChannel describes how a class of notifications is presented on
// platforms that group notifications into channels.
type DeliveryChannel struct {
	Name             string          `json:"name"`
	Importance       Importance      `json:"importance"`
	VibrationPattern []time.Duration `json:"vibrationPattern"`
	LightColor       string          `json:"lightColor"`
}

var DefaultChannel = DeliveryChannel{
	Name:       "default",
	Importance: ImportanceMax,
	VibrationPattern: []time.Duration{
		0,
		250 * time.Millisecond,
		250 * time.Millisecond,
		250 * time.Millisecond,
	},
	LightColor: "#FF231F7C",
}

// DisplayBehavior controls how a fired notification is presented.
type DisplayBehavior struct {
	ShowAlert  bool
	PlaySound  bool
	SetBadge   bool
	ShowBanner bool
	ShowList   bool
}

var DefaultDisplayBehavior = DisplayBehavior{
	ShowAlert:  true,
	PlaySound:  true,
	SetBadge:   false,
	ShowBanner: true,
	ShowList:   true,
}

type OneShot struct {
	Title   string
	Body    string
	Sound   string
	FireAt  time.Time
	Channel string
}

func NewOneShot(trigger time.Time, doctorName string) OneShot {
	return OneShot{
		Title:  Title,
		Body:   Body(doctorName),
		Sound:  Sound,
		FireAt: trigger,
	}
}

// Notification is a one-shot alert that has reached its fire time.
type Notification struct {
	Handle     NotificationHandle
	Title      string
	Body       string
	Sound      string
	FireAt     time.Time
	Channel    c.Optional[DeliveryChannel]
	Generation int64
}

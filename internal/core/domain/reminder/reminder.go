package reminder

import (
	e "apptreminder/internal/core/domain/errors"
	"fmt"
	"time"
)

const (
	// LeadTime is how long before an appointment its reminder fires.
	LeadTime = 30 * time.Minute

	Title      = "Appointment Reminder"
	Sound      = "default"
	StorageKey = "scheduled_notifications"
)

type AppointmentID int64

type NotificationHandle string

type ScheduledReminder struct {
	AppointmentID      AppointmentID      `json:"appointmentId"`
	NotificationHandle NotificationHandle `json:"id"`
	TriggerTime        time.Time          `json:"triggerTime"`
	DoctorName         string             `json:"doctorName"`
}

func (r *ScheduledReminder) Validate() error {
	if r.NotificationHandle == "" {
		return e.NewInvalidStateError("notification handle must not be empty")
	}
	if r.TriggerTime.IsZero() {
		return e.NewInvalidStateError("trigger time must be set")
	}
	return nil
}

// Body is the notification text. The doctor name is baked in at schedule
// time and is never refreshed afterwards.
func Body(doctorName string) string {
	return fmt.Sprintf("Appointment with %s in 30 minutes", doctorName)
}

func TriggerTime(appointmentAt time.Time) time.Time {
	return appointmentAt.Add(-LeadTime)
}

// IsSchedulable reports whether trigger is strictly after now.
func IsSchedulable(trigger time.Time, now time.Time) bool {
	return trigger.After(now)
}

package response

import (
	c "apptreminder/internal/core/domain/common"
	"apptreminder/internal/core/domain/reminder"
	"time"
)

type Reminder struct {
	AppointmentID      int64     `json:"appointment_id"`
	NotificationHandle string    `json:"notification_id"`
	TriggerTime        time.Time `json:"trigger_time"`
	DoctorName         string    `json:"doctor_name"`
}

func (r *Reminder) FromDomainType(dr reminder.ScheduledReminder) {
	r.AppointmentID = int64(dr.AppointmentID)
	r.NotificationHandle = string(dr.NotificationHandle)
	r.TriggerTime = dr.TriggerTime
	r.DoctorName = dr.DoctorName
}

// OptionalReminder renders an absent reminder as null.
func OptionalReminder(dr c.Optional[reminder.ScheduledReminder]) *Reminder {
	if !dr.IsPresent {
		return nil
	}
	r := &Reminder{}
	r.FromDomainType(dr.Value)
	return r
}

func Reminders(drs []reminder.ScheduledReminder) []Reminder {
	reminders := make([]Reminder, 0, len(drs))
	for _, dr := range drs {
		r := Reminder{}
		r.FromDomainType(dr)
		reminders = append(reminders, r)
	}
	return reminders
}

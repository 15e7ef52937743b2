package reminder

import "context"

// KeyValueStorage is a durable string store.
type KeyValueStorage interface {
	// Get returns ok=false when the key does not exist.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Store keeps the appointment to reminder bookkeeping. Its methods never fail:
// storage errors are logged by the implementation.
type Store interface {
	List(ctx context.Context) []ScheduledReminder
	Add(ctx context.Context, r ScheduledReminder)
	Remove(ctx context.Context, id AppointmentID)
	Clear(ctx context.Context)
}

// Find returns the first reminder tracked for id.
func Find(reminders []ScheduledReminder, id AppointmentID) (r ScheduledReminder, ok bool) {
	for _, r := range reminders {
		if r.AppointmentID == id {
			return r, true
		}
	}
	return r, false
}

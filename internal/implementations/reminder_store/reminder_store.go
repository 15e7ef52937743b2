package reminderstore

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"encoding/json"
	"sync"
)

// Store persists all scheduled reminders as one JSON array under a single
// key. Each mutation re-reads and rewrites the whole array.
type Store struct {
	log     logging.Logger
	storage reminder.KeyValueStorage
	key     string
	lock    sync.Mutex
}

func New(log logging.Logger, storage reminder.KeyValueStorage) *Store {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if storage == nil {
		panic(e.NewNilArgumentError("storage"))
	}
	return &Store{log: log, storage: storage, key: reminder.StorageKey}
}

func (s *Store) List(ctx context.Context) []reminder.ScheduledReminder {
	s.lock.Lock()
	defer s.lock.Unlock()
	reminders, _ := s.read(ctx)
	return reminders
}

func (s *Store) Add(ctx context.Context, r reminder.ScheduledReminder) {
	s.lock.Lock()
	defer s.lock.Unlock()

	stored, ok := s.read(ctx)
	if !ok {
		s.log.Warning(
			ctx,
			"Scheduled reminder is not stored, persisted reminders could not be read.",
			logging.Entry("appointmentID", r.AppointmentID),
			logging.Entry("handle", r.NotificationHandle),
		)
		return
	}
	if err := s.write(ctx, append(stored, r)); err != nil {
		s.log.Error(
			ctx,
			"Could not store scheduled reminder.",
			logging.Entry("err", err),
			logging.Entry("appointmentID", r.AppointmentID),
			logging.Entry("handle", r.NotificationHandle),
		)
	}
}

func (s *Store) Remove(ctx context.Context, id reminder.AppointmentID) {
	s.lock.Lock()
	defer s.lock.Unlock()

	stored, ok := s.read(ctx)
	if !ok {
		s.log.Warning(
			ctx,
			"Scheduled reminder is not removed, persisted reminders could not be read.",
			logging.Entry("appointmentID", id),
		)
		return
	}
	filtered := make([]reminder.ScheduledReminder, 0, len(stored))
	for _, r := range stored {
		if r.AppointmentID != id {
			filtered = append(filtered, r)
		}
	}
	if err := s.write(ctx, filtered); err != nil {
		s.log.Error(
			ctx,
			"Could not remove scheduled reminder.",
			logging.Entry("err", err),
			logging.Entry("appointmentID", id),
		)
	}
}

func (s *Store) Clear(ctx context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.storage.Delete(ctx, s.key); err != nil {
		s.log.Error(ctx, "Could not clear scheduled reminders.", logging.Entry("err", err))
		return
	}
	s.log.Info(ctx, "Scheduled reminders cleared.")
}

// read returns the persisted reminders. writable is false when the stored
// value could not be loaded and must not be overwritten. Undecodable data is
// replaced on the next write.
func (s *Store) read(ctx context.Context) (reminders []reminder.ScheduledReminder, writable bool) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.Error(ctx, "Could not read scheduled reminders.", logging.Entry("err", err))
		return []reminder.ScheduledReminder{}, false
	}
	if !ok || raw == "" {
		return []reminder.ScheduledReminder{}, true
	}

	if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
		s.log.Error(ctx, "Could not decode scheduled reminders.", logging.Entry("err", err))
		return []reminder.ScheduledReminder{}, true
	}
	for ix := range reminders {
		if err := reminders[ix].Validate(); err != nil {
			s.log.Error(
				ctx,
				"Stored scheduled reminder is not valid.",
				logging.Entry("err", err),
				logging.Entry("index", ix),
			)
			return []reminder.ScheduledReminder{}, false
		}
	}
	return reminders, true
}

func (s *Store) write(ctx context.Context, reminders []reminder.ScheduledReminder) error {
	data, err := json.Marshal(reminders)
	if err != nil {
		return err
	}
	return s.storage.Set(ctx, s.key, string(data))
}

package cancelallappointmentreminders

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	"context"
)

type Input struct{}

type Result struct{}

type service struct {
	log     logging.Logger
	store   reminder.Store
	backend reminder.NotificationBackend
	locks   *reminder.Locks
}

// New returns the service used on logout and local data reset. It wipes every
// notification the backend manages, not only appointment reminders.
func New(
	log logging.Logger,
	store reminder.Store,
	backend reminder.NotificationBackend,
	locks *reminder.Locks,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if store == nil {
		panic(e.NewNilArgumentError("store"))
	}
	if backend == nil {
		panic(e.NewNilArgumentError("backend"))
	}
	if locks == nil {
		panic(e.NewNilArgumentError("locks"))
	}
	return &service{log: log, store: store, backend: backend, locks: locks}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	unlock := s.locks.LockAll()
	defer unlock()

	if err := s.backend.CancelAll(ctx); err != nil {
		logging.Error(ctx, s.log, err)
	}
	s.store.Clear(ctx)

	s.log.Info(ctx, "All appointment reminders canceled.")
	return result, nil
}

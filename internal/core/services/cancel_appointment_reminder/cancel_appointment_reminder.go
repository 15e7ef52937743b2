package cancelappointmentreminder

import (
	c "apptreminder/internal/core/domain/common"
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	"context"
)

type Input struct {
	AppointmentID reminder.AppointmentID
}

type Result struct {
	// Canceled is false when nothing was tracked for the appointment.
	Canceled bool
	Reminder c.Optional[reminder.ScheduledReminder]
}

// Canceler runs the cancel sequence without taking the appointment lock.
// Callers must hold reminder.Locks for the appointment.
type Canceler struct {
	log     logging.Logger
	store   reminder.Store
	backend reminder.NotificationBackend
}

func NewCanceler(
	log logging.Logger,
	store reminder.Store,
	backend reminder.NotificationBackend,
) *Canceler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if store == nil {
		panic(e.NewNilArgumentError("store"))
	}
	if backend == nil {
		panic(e.NewNilArgumentError("backend"))
	}
	return &Canceler{log: log, store: store, backend: backend}
}

func (cl *Canceler) Cancel(ctx context.Context, id reminder.AppointmentID) Result {
	stored, ok := reminder.Find(cl.store.List(ctx), id)
	if !ok {
		return Result{}
	}

	if err := cl.backend.Cancel(ctx, stored.NotificationHandle); err != nil {
		// The store entry is removed anyway so bookkeeping does not drift further.
		logging.Error(
			ctx,
			cl.log,
			err,
			logging.Entry("appointmentID", id),
			logging.Entry("handle", stored.NotificationHandle),
		)
	}
	cl.store.Remove(ctx, id)

	cl.log.Info(
		ctx,
		"Appointment reminder canceled.",
		logging.Entry("appointmentID", id),
		logging.Entry("handle", stored.NotificationHandle),
	)
	return Result{Canceled: true, Reminder: c.NewOptional(stored, true)}
}

type service struct {
	canceler *Canceler
	locks    *reminder.Locks
}

func New(canceler *Canceler, locks *reminder.Locks) services.Service[Input, Result] {
	if canceler == nil {
		panic(e.NewNilArgumentError("canceler"))
	}
	if locks == nil {
		panic(e.NewNilArgumentError("locks"))
	}
	return &service{canceler: canceler, locks: locks}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	unlock := s.locks.Lock(input.AppointmentID)
	defer unlock()
	return s.canceler.Cancel(ctx, input.AppointmentID), nil
}

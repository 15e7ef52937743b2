package scheduleappointmentreminder

import (
	c "apptreminder/internal/core/domain/common"
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	cancelreminder "apptreminder/internal/core/services/cancel_appointment_reminder"
	"context"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	// StatusSkipped means the trigger time was not in the future.
	StatusSkipped Status = "skipped"
	// StatusFailed means the backend refused the alert. The failure is only
	// logged; callers must not treat it as an error of the appointment flow.
	StatusFailed Status = "failed"
)

type Input struct {
	AppointmentID reminder.AppointmentID
	AppointmentAt time.Time
	DoctorName    string
}

type Result struct {
	Status   Status
	Reminder c.Optional[reminder.ScheduledReminder]
}

type service struct {
	log      logging.Logger
	store    reminder.Store
	backend  reminder.NotificationBackend
	canceler *cancelreminder.Canceler
	locks    *reminder.Locks
	now      func() time.Time
}

func New(
	log logging.Logger,
	store reminder.Store,
	backend reminder.NotificationBackend,
	canceler *cancelreminder.Canceler,
	locks *reminder.Locks,
	now func() time.Time,
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
	if canceler == nil {
		panic(e.NewNilArgumentError("canceler"))
	}
	if locks == nil {
		panic(e.NewNilArgumentError("locks"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:      log,
		store:    store,
		backend:  backend,
		canceler: canceler,
		locks:    locks,
		now:      now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	trigger := reminder.TriggerTime(input.AppointmentAt)
	if !reminder.IsSchedulable(trigger, s.now()) {
		s.log.Info(
			ctx,
			"Appointment is too close or in the past, reminder skipped.",
			logging.Entry("appointmentID", input.AppointmentID),
			logging.Entry("appointmentAt", input.AppointmentAt),
		)
		return Result{Status: StatusSkipped}, nil
	}

	// Cancel, schedule and add run as one step per appointment, at most one
	// reminder per appointment.
	unlock := s.locks.Lock(input.AppointmentID)
	defer unlock()

	s.canceler.Cancel(ctx, input.AppointmentID)

	oneShot := reminder.NewOneShot(trigger, input.DoctorName)
	oneShot.Channel = reminder.DefaultChannel.Name
	handle, err := s.backend.ScheduleOneShot(ctx, oneShot)
	if err != nil {
		logging.Error(
			ctx,
			s.log,
			err,
			logging.Entry("appointmentID", input.AppointmentID),
			logging.Entry("triggerTime", trigger),
		)
		return Result{Status: StatusFailed}, nil
	}

	scheduled := reminder.ScheduledReminder{
		AppointmentID:      input.AppointmentID,
		NotificationHandle: handle,
		TriggerTime:        trigger,
		DoctorName:         input.DoctorName,
	}
	s.store.Add(ctx, scheduled)

	s.log.Info(
		ctx,
		"Appointment reminder scheduled.",
		logging.Entry("appointmentID", input.AppointmentID),
		logging.Entry("handle", handle),
		logging.Entry("triggerTime", trigger),
	)
	return Result{Status: StatusScheduled, Reminder: c.NewOptional(scheduled, true)}, nil
}

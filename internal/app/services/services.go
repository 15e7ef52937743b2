package services

import (
	"apptreminder/internal/app/deps"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	cancelallappointmentreminders "apptreminder/internal/core/services/cancel_all_appointment_reminders"
	cancelappointmentreminder "apptreminder/internal/core/services/cancel_appointment_reminder"
	delivernotification "apptreminder/internal/core/services/deliver_notification"
	listscheduledreminders "apptreminder/internal/core/services/list_scheduled_reminders"
	requestpermission "apptreminder/internal/core/services/request_permission"
	scheduleappointmentreminder "apptreminder/internal/core/services/schedule_appointment_reminder"
)

type Services struct {
	RequestPermission             services.Service[requestpermission.Input, requestpermission.Result]
	ScheduleAppointmentReminder   services.Service[scheduleappointmentreminder.Input, scheduleappointmentreminder.Result]
	CancelAppointmentReminder     services.Service[cancelappointmentreminder.Input, cancelappointmentreminder.Result]
	CancelAllAppointmentReminders services.Service[cancelallappointmentreminders.Input, cancelallappointmentreminders.Result]
	ListScheduledReminders        services.Service[listscheduledreminders.Input, listscheduledreminders.Result]

	DeliverNotification services.Service[delivernotification.Input, delivernotification.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.RequestPermission = requestpermission.New(
		deps.Logger,
		deps.NotificationBackend,
		reminder.DefaultChannel,
	)
	locks := reminder.NewLocks()
	canceler := cancelappointmentreminder.NewCanceler(
		deps.Logger,
		deps.Store,
		deps.NotificationBackend,
	)
	s.CancelAppointmentReminder = cancelappointmentreminder.New(canceler, locks)
	s.ScheduleAppointmentReminder = scheduleappointmentreminder.New(
		deps.Logger,
		deps.Store,
		deps.NotificationBackend,
		canceler,
		locks,
		deps.Now,
	)
	s.CancelAllAppointmentReminders = cancelallappointmentreminders.New(
		deps.Logger,
		deps.Store,
		deps.NotificationBackend,
		locks,
	)
	s.ListScheduledReminders = listscheduledreminders.New(deps.Store)
	s.DeliverNotification = deps.DeliverNotification

	return s
}

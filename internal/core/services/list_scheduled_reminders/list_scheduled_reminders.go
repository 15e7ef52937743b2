package listscheduledreminders

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	"context"
	"sort"
)

type Input struct{}

type Result struct {
	Reminders []reminder.ScheduledReminder
}

type service struct {
	store reminder.Store
}

func New(store reminder.Store) services.Service[Input, Result] {
	if store == nil {
		panic(e.NewNilArgumentError("store"))
	}
	return &service{store: store}
}

// Run returns tracked reminders ordered by trigger time, then appointment ID.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	reminders := s.store.List(ctx)
	sort.SliceStable(reminders, func(i, j int) bool {
		if reminders[i].TriggerTime.Equal(reminders[j].TriggerTime) {
			return reminders[i].AppointmentID < reminders[j].AppointmentID
		}
		return reminders[i].TriggerTime.Before(reminders[j].TriggerTime)
	})
	return Result{Reminders: reminders}, nil
}

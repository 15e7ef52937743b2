package requestpermission

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	"context"
)

type Input struct{}

// Result.Granted=false means reminders will not fire. It is not an error.
type Result struct {
	Granted bool
}

type service struct {
	log     logging.Logger
	backend reminder.NotificationBackend
	channel reminder.DeliveryChannel
}

func New(
	log logging.Logger,
	backend reminder.NotificationBackend,
	channel reminder.DeliveryChannel,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if backend == nil {
		panic(e.NewNilArgumentError("backend"))
	}
	return &service{log: log, backend: backend, channel: channel}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	granted, err := s.backend.RequestPermission(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err)
		return Result{Granted: false}, nil
	}
	if !granted {
		s.log.Warning(ctx, "Notification permission is not granted, reminders will not fire.")
		return Result{Granted: false}, nil
	}

	if s.backend.SupportsChannels() {
		if err := s.backend.EnsureChannel(ctx, s.channel); err != nil {
			logging.Error(ctx, s.log, err, logging.Entry("channel", s.channel.Name))
		}
	}
	return Result{Granted: true}, nil
}

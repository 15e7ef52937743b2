package delivernotification

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	"context"
)

type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeCanceled  Outcome = "canceled"
	OutcomeStale     Outcome = "stale"
)

type Input struct {
	Notification reminder.Notification
}

type Result struct {
	Outcome Outcome
}

type service struct {
	log        logging.Logger
	registry   reminder.CancellationRegistry
	dispatcher reminder.Dispatcher
}

func New(
	log logging.Logger,
	registry reminder.CancellationRegistry,
	dispatcher reminder.Dispatcher,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if registry == nil {
		panic(e.NewNilArgumentError("registry"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	return &service{log: log, registry: registry, dispatcher: dispatcher}
}

// Run delivers a fired notification unless it was canceled after being
// handed to the backend. When the registry is unreachable the notification is
// delivered: a spurious reminder is preferred over a lost one.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	n := input.Notification

	generation, err := s.registry.Generation(ctx)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("handle", n.Handle))
	} else if n.Generation < generation {
		s.log.Info(
			ctx,
			"Notification was scheduled before a cancel-all, dropped.",
			logging.Entry("handle", n.Handle),
			logging.Entry("generation", n.Generation),
			logging.Entry("currentGeneration", generation),
		)
		return Result{Outcome: OutcomeStale}, nil
	}

	canceled, err := s.registry.IsCanceled(ctx, n.Handle)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("handle", n.Handle))
	} else if canceled {
		s.log.Info(ctx, "Notification was canceled, dropped.", logging.Entry("handle", n.Handle))
		return Result{Outcome: OutcomeCanceled}, nil
	}

	if err := s.dispatcher.Dispatch(ctx, n); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("handle", n.Handle))
		return result, err
	}

	s.log.Info(ctx, "Notification delivered.", logging.Entry("handle", n.Handle))
	return Result{Outcome: OutcomeDelivered}, nil
}

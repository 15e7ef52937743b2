package notificationbackend

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	delivernotification "apptreminder/internal/core/services/deliver_notification"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const fireTimeout = 30 * time.Second

// Local fires notifications from in-process timers. Timers do not survive a
// restart; Restore re-arms them from the reminder store.
type Local struct {
	log        logging.Logger
	dispatcher reminder.Dispatcher
	registry   reminder.CancellationRegistry
	deliver    services.Service[delivernotification.Input, delivernotification.Result]
	now        func() time.Time
	timers     map[reminder.NotificationHandle]*time.Timer
	lock       sync.Mutex
}

func NewLocal(
	log logging.Logger,
	dispatcher reminder.Dispatcher,
	registry reminder.CancellationRegistry,
	deliver services.Service[delivernotification.Input, delivernotification.Result],
	now func() time.Time,
) *Local {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if dispatcher == nil {
		panic(e.NewNilArgumentError("dispatcher"))
	}
	if registry == nil {
		panic(e.NewNilArgumentError("registry"))
	}
	if deliver == nil {
		panic(e.NewNilArgumentError("deliver"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Local{
		log:        log,
		dispatcher: dispatcher,
		registry:   registry,
		deliver:    deliver,
		now:        now,
		timers:     make(map[reminder.NotificationHandle]*time.Timer),
	}
}

// RequestPermission is granted when at least one delivery target is reachable.
func (b *Local) RequestPermission(ctx context.Context) (bool, error) {
	return b.dispatcher.Available(ctx), nil
}

func (b *Local) SupportsChannels() bool {
	return false
}

func (b *Local) EnsureChannel(ctx context.Context, ch reminder.DeliveryChannel) error {
	return nil
}

func (b *Local) ScheduleOneShot(ctx context.Context, n reminder.OneShot) (reminder.NotificationHandle, error) {
	if !n.FireAt.After(b.now()) {
		return "", reminder.ErrNotificationExpired
	}
	generation, err := b.registry.Generation(ctx)
	if err != nil {
		return "", err
	}

	notification := reminder.Notification{
		Handle:     reminder.NotificationHandle(uuid.NewString()),
		Title:      n.Title,
		Body:       n.Body,
		Sound:      n.Sound,
		FireAt:     n.FireAt,
		Generation: generation,
	}
	b.arm(notification)
	return notification.Handle, nil
}

// Restore re-arms timers for stored reminders that have not fired yet.
func (b *Local) Restore(ctx context.Context, reminders []reminder.ScheduledReminder) int {
	generation, err := b.registry.Generation(ctx)
	if err != nil {
		logging.Error(ctx, b.log, err)
		return 0
	}

	now := b.now()
	restored := 0
	for _, r := range reminders {
		if !reminder.IsSchedulable(r.TriggerTime, now) {
			continue
		}
		b.arm(reminder.Notification{
			Handle:     r.NotificationHandle,
			Title:      reminder.Title,
			Body:       reminder.Body(r.DoctorName),
			Sound:      reminder.Sound,
			FireAt:     r.TriggerTime,
			Generation: generation,
		})
		restored++
	}
	b.log.Info(ctx, "Local notification timers restored.", logging.Entry("count", restored))
	return restored
}

func (b *Local) Cancel(ctx context.Context, handle reminder.NotificationHandle) error {
	b.lock.Lock()
	timer, ok := b.timers[handle]
	delete(b.timers, handle)
	b.lock.Unlock()

	if ok && timer.Stop() {
		return nil
	}
	// Unknown or already firing, make sure it is dropped at delivery.
	return b.registry.MarkCanceled(ctx, handle, b.now())
}

func (b *Local) CancelAll(ctx context.Context) error {
	b.stopAll()
	_, err := b.registry.NextGeneration(ctx)
	return err
}

// Pending returns the number of armed timers.
func (b *Local) Pending() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.timers)
}

// Close stops all timers without touching the registry.
func (b *Local) Close() {
	b.stopAll()
}

func (b *Local) stopAll() {
	b.lock.Lock()
	defer b.lock.Unlock()
	for handle, timer := range b.timers {
		timer.Stop()
		delete(b.timers, handle)
	}
}

func (b *Local) arm(n reminder.Notification) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if previous, ok := b.timers[n.Handle]; ok {
		previous.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(n.FireAt.Sub(b.now()), func() { b.fire(n, &timer) })
	b.timers[n.Handle] = timer
}

func (b *Local) fire(n reminder.Notification, timer **time.Timer) {
	b.lock.Lock()
	if b.timers[n.Handle] == *timer {
		delete(b.timers, n.Handle)
	}
	b.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), fireTimeout)
	defer cancel()
	if _, err := b.deliver.Run(ctx, delivernotification.Input{Notification: n}); err != nil {
		logging.Error(ctx, b.log, err, logging.Entry("handle", n.Handle))
	}
}

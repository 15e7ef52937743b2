package notificationbackend

import (
	c "apptreminder/internal/core/domain/common"
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CancelHorizon bounds how long a cancellation mark is kept when the fire
// time can not be read from the handle. It covers the longest broker delay.
const CancelHorizon = 50 * 24 * time.Hour

// newHandle carries the fire time so Cancel can expire its mark with the
// message instead of after CancelHorizon.
func newHandle(fireAt time.Time) reminder.NotificationHandle {
	return reminder.NotificationHandle(fmt.Sprintf("%s.%d", uuid.NewString(), fireAt.Unix()))
}

func handleFireAt(handle reminder.NotificationHandle) (time.Time, bool) {
	ix := strings.LastIndexByte(string(handle), '.')
	if ix < 0 {
		return time.Time{}, false
	}
	seconds, err := strconv.ParseInt(string(handle)[ix+1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(seconds, 0).UTC(), true
}

type Publisher interface {
	PublishNotification(ctx context.Context, n reminder.Notification) error
	IsAlive() bool
}

// Delayed hands notifications to a delayed message broker. Published
// messages cannot be retracted, so Cancel and CancelAll only record what must
// be dropped at delivery time.
type Delayed struct {
	log       logging.Logger
	publisher Publisher
	registry  reminder.CancellationRegistry
	now       func() time.Time
	channels  map[string]reminder.DeliveryChannel
	lock      sync.RWMutex
}

func NewDelayed(
	log logging.Logger,
	publisher Publisher,
	registry reminder.CancellationRegistry,
	now func() time.Time,
) *Delayed {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if registry == nil {
		panic(e.NewNilArgumentError("registry"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Delayed{
		log:       log,
		publisher: publisher,
		registry:  registry,
		now:       now,
		channels:  make(map[string]reminder.DeliveryChannel),
	}
}

func (b *Delayed) RequestPermission(ctx context.Context) (bool, error) {
	return b.publisher.IsAlive(), nil
}

func (b *Delayed) SupportsChannels() bool {
	return true
}

func (b *Delayed) EnsureChannel(ctx context.Context, ch reminder.DeliveryChannel) error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.channels[ch.Name] = ch
	return nil
}

func (b *Delayed) ScheduleOneShot(ctx context.Context, n reminder.OneShot) (reminder.NotificationHandle, error) {
	if !n.FireAt.After(b.now()) {
		return "", reminder.ErrNotificationExpired
	}
	if !b.publisher.IsAlive() {
		return "", reminder.ErrBackendClosed
	}
	generation, err := b.registry.Generation(ctx)
	if err != nil {
		return "", err
	}

	notification := reminder.Notification{
		Handle:     newHandle(n.FireAt),
		Title:      n.Title,
		Body:       n.Body,
		Sound:      n.Sound,
		FireAt:     n.FireAt,
		Channel:    b.channel(n.Channel),
		Generation: generation,
	}
	if err := b.publisher.PublishNotification(ctx, notification); err != nil {
		return "", err
	}
	return notification.Handle, nil
}

func (b *Delayed) Cancel(ctx context.Context, handle reminder.NotificationHandle) error {
	until, ok := handleFireAt(handle)
	if !ok {
		until = b.now().Add(CancelHorizon)
	}
	return b.registry.MarkCanceled(ctx, handle, until)
}

func (b *Delayed) CancelAll(ctx context.Context) error {
	generation, err := b.registry.NextGeneration(ctx)
	if err != nil {
		return err
	}
	b.log.Info(ctx, "Notification generation advanced.", logging.Entry("generation", generation))
	return nil
}

func (b *Delayed) channel(name string) c.Optional[reminder.DeliveryChannel] {
	b.lock.RLock()
	defer b.lock.RUnlock()
	ch, ok := b.channels[name]
	return c.NewOptional(ch, ok)
}

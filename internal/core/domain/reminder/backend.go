package reminder

import (
	"context"
	"time"
)

// NotificationBackend schedules one-shot alerts that fire independently of
// the caller's process.
type NotificationBackend interface {
	RequestPermission(ctx context.Context) (bool, error)
	// SupportsChannels reports whether EnsureChannel has any effect.
	SupportsChannels() bool
	EnsureChannel(ctx context.Context, ch DeliveryChannel) error
	ScheduleOneShot(ctx context.Context, n OneShot) (NotificationHandle, error)
	Cancel(ctx context.Context, handle NotificationHandle) error
	CancelAll(ctx context.Context) error
}

// CancellationRegistry remembers handles that must not be delivered. It is
// used by backends that cannot retract an alert once it has been handed over.
type CancellationRegistry interface {
	MarkCanceled(ctx context.Context, handle NotificationHandle, until time.Time) error
	IsCanceled(ctx context.Context, handle NotificationHandle) (bool, error)
	// Generation is the current cancel-all epoch. Notifications scheduled in
	// an older epoch are discarded.
	Generation(ctx context.Context) (int64, error)
	NextGeneration(ctx context.Context) (int64, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, n Notification, behavior DisplayBehavior) error
	Available(ctx context.Context) bool
}

// Dispatcher hands a fired notification to every configured delivery target
// using the display behavior configured at startup.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
	Available(ctx context.Context) bool
}

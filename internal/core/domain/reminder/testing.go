package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type BackendCall struct {
	Method  string
	Handle  NotificationHandle
	OneShot OneShot
}

type FakeBackend struct {
	Granted         bool
	PermissionError error
	Channels        bool
	EnsureError     error
	ScheduleError   error
	CancelError     error
	CancelAllError  error

	Calls   []BackendCall
	Ensured []DeliveryChannel
	counter int
	lock    sync.Mutex
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{Granted: true}
}

func (b *FakeBackend) RequestPermission(ctx context.Context) (bool, error) {
	b.record(BackendCall{Method: "RequestPermission"})
	if b.PermissionError != nil {
		return false, b.PermissionError
	}
	return b.Granted, nil
}

func (b *FakeBackend) SupportsChannels() bool {
	return b.Channels
}

func (b *FakeBackend) EnsureChannel(ctx context.Context, ch DeliveryChannel) error {
	b.record(BackendCall{Method: "EnsureChannel"})
	if b.EnsureError != nil {
		return b.EnsureError
	}
	b.lock.Lock()
	defer b.lock.Unlock()
	b.Ensured = append(b.Ensured, ch)
	return nil
}

func (b *FakeBackend) ScheduleOneShot(ctx context.Context, n OneShot) (NotificationHandle, error) {
	if b.ScheduleError != nil {
		b.record(BackendCall{Method: "ScheduleOneShot", OneShot: n})
		return "", b.ScheduleError
	}
	b.lock.Lock()
	b.counter++
	handle := NotificationHandle(fmt.Sprintf("handle-%d", b.counter))
	b.lock.Unlock()
	b.record(BackendCall{Method: "ScheduleOneShot", Handle: handle, OneShot: n})
	return handle, nil
}

func (b *FakeBackend) Cancel(ctx context.Context, handle NotificationHandle) error {
	b.record(BackendCall{Method: "Cancel", Handle: handle})
	return b.CancelError
}

func (b *FakeBackend) CancelAll(ctx context.Context) error {
	b.record(BackendCall{Method: "CancelAll"})
	return b.CancelAllError
}

// CallsOf returns recorded calls of the given method in order.
func (b *FakeBackend) CallsOf(method string) []BackendCall {
	b.lock.Lock()
	defer b.lock.Unlock()
	calls := make([]BackendCall, 0)
	for _, c := range b.Calls {
		if c.Method == method {
			calls = append(calls, c)
		}
	}
	return calls
}

func (b *FakeBackend) record(call BackendCall) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.Calls = append(b.Calls, call)
}

type FakeStorage struct {
	GetError    error
	SetError    error
	DeleteError error
	Values      map[string]string
	lock        sync.Mutex
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Values: make(map[string]string)}
}

func (s *FakeStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if s.GetError != nil {
		return "", false, s.GetError
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	v, ok := s.Values[key]
	return v, ok, nil
}

func (s *FakeStorage) Set(ctx context.Context, key string, value string) error {
	if s.SetError != nil {
		return s.SetError
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Values[key] = value
	return nil
}

func (s *FakeStorage) Delete(ctx context.Context, key string) error {
	if s.DeleteError != nil {
		return s.DeleteError
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.Values, key)
	return nil
}

type FakeStore struct {
	Reminders []ScheduledReminder
	lock      sync.Mutex
}

func NewFakeStore(reminders ...ScheduledReminder) *FakeStore {
	return &FakeStore{Reminders: append([]ScheduledReminder{}, reminders...)}
}

func (s *FakeStore) List(ctx context.Context) []ScheduledReminder {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]ScheduledReminder{}, s.Reminders...)
}

func (s *FakeStore) Add(ctx context.Context, r ScheduledReminder) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Reminders = append(s.Reminders, r)
}

func (s *FakeStore) Remove(ctx context.Context, id AppointmentID) {
	s.lock.Lock()
	defer s.lock.Unlock()
	filtered := make([]ScheduledReminder, 0, len(s.Reminders))
	for _, r := range s.Reminders {
		if r.AppointmentID != id {
			filtered = append(filtered, r)
		}
	}
	s.Reminders = filtered
}

func (s *FakeStore) Clear(ctx context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Reminders = nil
}

type FakeDeliverer struct {
	Error     error
	Down      bool
	Delivered []Notification
	Behaviors []DisplayBehavior
	lock      sync.Mutex
}

func NewFakeDeliverer() *FakeDeliverer {
	return &FakeDeliverer{}
}

func (d *FakeDeliverer) Deliver(ctx context.Context, n Notification, behavior DisplayBehavior) error {
	if d.Error != nil {
		return d.Error
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.Delivered = append(d.Delivered, n)
	d.Behaviors = append(d.Behaviors, behavior)
	return nil
}

func (d *FakeDeliverer) Available(ctx context.Context) bool {
	return !d.Down
}

type FakeRegistry struct {
	Error      error
	Canceled   map[NotificationHandle]time.Time
	generation int64
	lock       sync.Mutex
}

func NewFakeRegistry() *FakeRegistry {
	return &FakeRegistry{Canceled: make(map[NotificationHandle]time.Time)}
}

func (r *FakeRegistry) MarkCanceled(ctx context.Context, handle NotificationHandle, until time.Time) error {
	if r.Error != nil {
		return r.Error
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Canceled[handle] = until
	return nil
}

func (r *FakeRegistry) IsCanceled(ctx context.Context, handle NotificationHandle) (bool, error) {
	if r.Error != nil {
		return false, r.Error
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	_, ok := r.Canceled[handle]
	return ok, nil
}

func (r *FakeRegistry) Generation(ctx context.Context) (int64, error) {
	if r.Error != nil {
		return 0, r.Error
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.generation, nil
}

func (r *FakeRegistry) NextGeneration(ctx context.Context) (int64, error) {
	if r.Error != nil {
		return 0, r.Error
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.generation++
	return r.generation, nil
}

type FakeDispatcher struct {
	Error      error
	Down       bool
	Dispatched []Notification
	lock       sync.Mutex
}

func NewFakeDispatcher() *FakeDispatcher {
	return &FakeDispatcher{}
}

func (d *FakeDispatcher) Dispatch(ctx context.Context, n Notification) error {
	if d.Error != nil {
		return d.Error
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.Dispatched = append(d.Dispatched, n)
	return nil
}

func (d *FakeDispatcher) Available(ctx context.Context) bool {
	return !d.Down
}

// Count returns how many notifications were dispatched.
func (d *FakeDispatcher) Count() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return len(d.Dispatched)
}

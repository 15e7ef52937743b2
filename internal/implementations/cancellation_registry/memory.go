package cancellationregistry

import (
	"apptreminder/internal/core/domain/reminder"
	"context"
	"sync"
	"time"
)

// Memory is a process-local registry for the in-process backend.
type Memory struct {
	canceled   map[reminder.NotificationHandle]time.Time
	generation int64
	now        func() time.Time
	lock       sync.Mutex
}

func NewMemory(now func() time.Time) *Memory {
	return &Memory{canceled: make(map[reminder.NotificationHandle]time.Time), now: now}
}

func (m *Memory) MarkCanceled(ctx context.Context, handle reminder.NotificationHandle, until time.Time) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.evict()
	m.canceled[handle] = until.Add(Grace)
	return nil
}

func (m *Memory) IsCanceled(ctx context.Context, handle reminder.NotificationHandle) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	expiresAt, ok := m.canceled[handle]
	return ok && expiresAt.After(m.now()), nil
}

func (m *Memory) Generation(ctx context.Context) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.generation, nil
}

func (m *Memory) NextGeneration(ctx context.Context) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.generation++
	return m.generation, nil
}

func (m *Memory) evict() {
	now := m.now()
	for handle, expiresAt := range m.canceled {
		if !expiresAt.After(now) {
			delete(m.canceled, handle)
		}
	}
}

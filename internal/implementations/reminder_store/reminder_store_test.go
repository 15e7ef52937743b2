package reminderstore

import (
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Trigger = time.Date(2025, 9, 25, 9, 30, 0, 0, time.UTC)
)

type testSuite struct {
	suite.Suite
	logger  *logging.FakeLogger
	storage *reminder.FakeStorage
	store   *Store
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.storage = reminder.NewFakeStorage()
	suite.store = New(suite.logger, suite.storage)
}

func TestReminderStore(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func newReminder(id reminder.AppointmentID) reminder.ScheduledReminder {
	return reminder.ScheduledReminder{
		AppointmentID:      id,
		NotificationHandle: reminder.NotificationHandle(fmt.Sprintf("handle-%d", id)),
		TriggerTime:        Trigger,
		DoctorName:         "Dr. Who",
	}
}

func (s *testSuite) TestListEmpty() {
	reminders := s.store.List(context.Background())
	s.NotNil(reminders)
	s.Empty(reminders)
}

func (s *testSuite) TestAddAndList() {
	ctx := context.Background()
	s.store.Add(ctx, newReminder(1))
	s.store.Add(ctx, newReminder(2))

	reminders := s.store.List(ctx)
	s.ElementsMatch([]reminder.ScheduledReminder{newReminder(1), newReminder(2)}, reminders)
}

func (s *testSuite) TestPersistedFormat() {
	s.store.Add(context.Background(), newReminder(7))

	raw := s.storage.Values[reminder.StorageKey]
	s.JSONEq(
		`[{"id":"handle-7","appointmentId":7,"triggerTime":"2025-09-25T09:30:00Z","doctorName":"Dr. Who"}]`,
		raw,
	)
}

func (s *testSuite) TestRemove() {
	ctx := context.Background()
	s.store.Add(ctx, newReminder(1))
	s.store.Add(ctx, newReminder(2))

	s.store.Remove(ctx, reminder.AppointmentID(1))

	s.Equal([]reminder.ScheduledReminder{newReminder(2)}, s.store.List(ctx))
}

func (s *testSuite) TestRemoveUntracked() {
	ctx := context.Background()
	s.store.Add(ctx, newReminder(1))

	s.store.Remove(ctx, reminder.AppointmentID(100))

	s.Equal([]reminder.ScheduledReminder{newReminder(1)}, s.store.List(ctx))
	s.Equal(0, s.logger.Count(logging.ERROR))
}

func (s *testSuite) TestClear() {
	ctx := context.Background()
	s.store.Add(ctx, newReminder(1))

	s.store.Clear(ctx)

	_, ok := s.storage.Values[reminder.StorageKey]
	s.False(ok)
	s.Empty(s.store.List(ctx))
}

func (s *testSuite) TestCorruptedData() {
	cases := []struct {
		id  string
		raw string
	}{
		{id: "not json", raw: "{{{"},
		{id: "wrong shape", raw: `{"appointmentId":1}`},
		{id: "missing handle", raw: `[{"appointmentId":1,"triggerTime":"2025-09-25T09:30:00Z"}]`},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.SetupTest()
			s.storage.Values[reminder.StorageKey] = testcase.raw

			reminders := s.store.List(context.Background())

			s.NotNil(reminders)
			s.Empty(reminders)
			s.Equal(1, s.logger.Count(logging.ERROR))
		})
	}
}

func (s *testSuite) TestStorageErrorsAreSwallowed() {
	ctx := context.Background()
	s.storage.GetError = errors.New("read failure")
	s.storage.SetError = errors.New("write failure")
	s.storage.DeleteError = errors.New("delete failure")

	s.NotPanics(func() {
		s.Empty(s.store.List(ctx))
		s.store.Add(ctx, newReminder(1))
		s.store.Remove(ctx, reminder.AppointmentID(1))
		s.store.Clear(ctx)
	})
	s.True(s.logger.Count(logging.ERROR) >= 4)
}

func (s *testSuite) TestConcurrentAdds() {
	ctx := context.Background()
	var wg sync.WaitGroup
	for ix := 1; ix <= 20; ix++ {
		wg.Add(1)
		go func(id reminder.AppointmentID) {
			defer wg.Done()
			s.store.Add(ctx, newReminder(id))
		}(reminder.AppointmentID(ix))
	}
	wg.Wait()

	s.Len(s.store.List(ctx), 20)
}

func (s *testSuite) TestReadFailureKeepsPersistedReminders() {
	ctx := context.Background()
	s.store.Add(ctx, newReminder(1))
	s.store.Add(ctx, newReminder(2))
	persisted := s.storage.Values[reminder.StorageKey]

	s.storage.GetError = errors.New("read failure")
	s.store.Add(ctx, newReminder(3))
	s.store.Remove(ctx, reminder.AppointmentID(1))
	s.storage.GetError = nil

	s.Equal(persisted, s.storage.Values[reminder.StorageKey])
	s.ElementsMatch(
		[]reminder.ScheduledReminder{newReminder(1), newReminder(2)},
		s.store.List(ctx),
	)
	s.Equal(2, s.logger.Count(logging.WARNING))
}

func (s *testSuite) TestInvalidEntryIsNotOverwritten() {
	ctx := context.Background()
	raw := `[{"id":"handle-1","appointmentId":1,"triggerTime":"2025-09-25T09:30:00Z","doctorName":"Dr. Who"},` +
		`{"appointmentId":2,"triggerTime":"2025-09-25T09:30:00Z"}]`
	s.storage.Values[reminder.StorageKey] = raw

	s.store.Add(ctx, newReminder(3))

	s.Equal(raw, s.storage.Values[reminder.StorageKey])
}

func (s *testSuite) TestUndecodableDataIsReplaced() {
	ctx := context.Background()
	s.storage.Values[reminder.StorageKey] = "{{{"

	s.store.Add(ctx, newReminder(1))

	s.Equal([]reminder.ScheduledReminder{newReminder(1)}, s.store.List(ctx))
}

package cancelappointmentreminder

import (
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	APPOINTMENT_ID = reminder.AppointmentID(42)
)

var (
	Trigger = time.Date(2025, 9, 25, 9, 30, 0, 0, time.UTC)
	Stored  = reminder.ScheduledReminder{
		AppointmentID:      APPOINTMENT_ID,
		NotificationHandle: reminder.NotificationHandle("stored-handle"),
		TriggerTime:        Trigger,
		DoctorName:         "Dr. Who",
	}
	Other = reminder.ScheduledReminder{
		AppointmentID:      reminder.AppointmentID(7),
		NotificationHandle: reminder.NotificationHandle("other-handle"),
		TriggerTime:        Trigger,
		DoctorName:         "Dr. Strange",
	}
)

type testSuite struct {
	suite.Suite
	logger  *logging.FakeLogger
	store   *reminder.FakeStore
	backend *reminder.FakeBackend
	locks   *reminder.Locks
	service services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.store = reminder.NewFakeStore(Stored, Other)
	suite.backend = reminder.NewFakeBackend()
	suite.locks = reminder.NewLocks()
	suite.service = New(NewCanceler(suite.logger, suite.store, suite.backend), suite.locks)
}

func TestCancelAppointmentReminderService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestCancelTracked() {
	result, err := s.service.Run(context.Background(), Input{AppointmentID: APPOINTMENT_ID})

	assert := s.Require()
	assert.Nil(err)
	assert.True(result.Canceled)
	assert.Equal(Stored, result.Reminder.Value)

	cancels := s.backend.CallsOf("Cancel")
	assert.Len(cancels, 1)
	assert.Equal(Stored.NotificationHandle, cancels[0].Handle)
	assert.Equal([]reminder.ScheduledReminder{Other}, s.store.List(context.Background()))
}

func (s *testSuite) TestCancelUntracked() {
	result, err := s.service.Run(context.Background(), Input{AppointmentID: reminder.AppointmentID(1000)})

	assert := s.Require()
	assert.Nil(err)
	assert.False(result.Canceled)
	assert.False(result.Reminder.IsPresent)
	assert.Empty(s.backend.Calls)
	assert.Equal([]reminder.ScheduledReminder{Stored, Other}, s.store.List(context.Background()))
}

func (s *testSuite) TestBackendFailureStillRemovesEntry() {
	s.backend.CancelError = errors.New("backend is down")

	result, err := s.service.Run(context.Background(), Input{AppointmentID: APPOINTMENT_ID})

	assert := s.Require()
	assert.Nil(err)
	assert.True(result.Canceled)
	assert.Equal([]reminder.ScheduledReminder{Other}, s.store.List(context.Background()))
	assert.Equal(1, s.logger.Count(logging.ERROR))
}

func (s *testSuite) TestWaitsForAppointmentLock() {
	unlock := s.locks.Lock(APPOINTMENT_ID)
	done := make(chan struct{})
	go func() {
		s.service.Run(context.Background(), Input{AppointmentID: APPOINTMENT_ID})
		close(done)
	}()

	select {
	case <-done:
		s.FailNow("cancel ran while the appointment was locked")
	case <-time.After(50 * time.Millisecond):
	}
	s.Empty(s.backend.CallsOf("Cancel"))

	unlock()
	<-done
	s.Len(s.backend.CallsOf("Cancel"), 1)
}

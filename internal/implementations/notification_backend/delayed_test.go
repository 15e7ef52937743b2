package notificationbackend

import (
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var (
	Now = time.Date(2025, 9, 25, 8, 0, 0, 0, time.UTC)
)

type fakePublisher struct {
	alive     bool
	err       error
	published []reminder.Notification
}

func (p *fakePublisher) PublishNotification(ctx context.Context, n reminder.Notification) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, n)
	return nil
}

func (p *fakePublisher) IsAlive() bool {
	return p.alive
}

type delayedSuite struct {
	suite.Suite
	publisher *fakePublisher
	registry  *reminder.FakeRegistry
	backend   *Delayed
}

func (suite *delayedSuite) SetupTest() {
	suite.publisher = &fakePublisher{alive: true}
	suite.registry = reminder.NewFakeRegistry()
	suite.backend = NewDelayed(
		logging.NewFakeLogger(),
		suite.publisher,
		suite.registry,
		func() time.Time { return Now },
	)
}

func TestDelayedBackend(t *testing.T) {
	suite.Run(t, new(delayedSuite))
}

func (s *delayedSuite) TestPermissionFollowsConnection() {
	granted, err := s.backend.RequestPermission(context.Background())
	s.Nil(err)
	s.True(granted)

	s.publisher.alive = false
	granted, err = s.backend.RequestPermission(context.Background())
	s.Nil(err)
	s.False(granted)
}

func (s *delayedSuite) TestSchedulePublishesWithChannel() {
	ctx := context.Background()
	s.Require().Nil(s.backend.EnsureChannel(ctx, reminder.DefaultChannel))

	oneShot := reminder.NewOneShot(Now.Add(time.Hour), "Dr. Who")
	oneShot.Channel = reminder.DefaultChannel.Name
	handle, err := s.backend.ScheduleOneShot(ctx, oneShot)

	assert := s.Require()
	assert.Nil(err)
	assert.NotEmpty(handle)
	assert.Len(s.publisher.published, 1)
	published := s.publisher.published[0]
	assert.Equal(handle, published.Handle)
	assert.Equal(oneShot.FireAt, published.FireAt)
	assert.Equal(oneShot.Body, published.Body)
	assert.True(published.Channel.IsPresent)
	assert.Equal(reminder.DefaultChannel, published.Channel.Value)
}

func (s *delayedSuite) TestScheduleUnknownChannel() {
	oneShot := reminder.NewOneShot(Now.Add(time.Hour), "Dr. Who")
	oneShot.Channel = "unknown"
	_, err := s.backend.ScheduleOneShot(context.Background(), oneShot)

	s.Nil(err)
	s.False(s.publisher.published[0].Channel.IsPresent)
}

func (s *delayedSuite) TestHandlesAreUnique() {
	ctx := context.Background()
	first, _ := s.backend.ScheduleOneShot(ctx, reminder.NewOneShot(Now.Add(time.Hour), "A"))
	second, _ := s.backend.ScheduleOneShot(ctx, reminder.NewOneShot(Now.Add(time.Hour), "A"))
	s.NotEqual(first, second)
}

func (s *delayedSuite) TestScheduleErrors() {
	cases := []struct {
		id            string
		fireAt        time.Time
		alive         bool
		publishError  error
		registryError error
		expectedError error
	}{
		{id: "past", fireAt: Now, alive: true, expectedError: reminder.ErrNotificationExpired},
		{id: "closed", fireAt: Now.Add(time.Hour), alive: false, expectedError: reminder.ErrBackendClosed},
		{
			id:            "publish",
			fireAt:        Now.Add(time.Hour),
			alive:         true,
			publishError:  errors.New("publish failed"),
			expectedError: errors.New("publish failed"),
		},
		{
			id:            "registry",
			fireAt:        Now.Add(time.Hour),
			alive:         true,
			registryError: errors.New("redis down"),
			expectedError: errors.New("redis down"),
		},
	}

	for _, testcase := range cases {
		s.Run(testcase.id, func() {
			s.SetupTest()
			s.publisher.alive = testcase.alive
			s.publisher.err = testcase.publishError
			s.registry.Error = testcase.registryError

			_, err := s.backend.ScheduleOneShot(context.Background(), reminder.NewOneShot(testcase.fireAt, "A"))

			s.Require().EqualError(err, testcase.expectedError.Error())
			s.Empty(s.publisher.published)
		})
	}
}

func (s *delayedSuite) TestCancelMarksHandle() {
	ctx := context.Background()
	handle, _ := s.backend.ScheduleOneShot(ctx, reminder.NewOneShot(Now.Add(time.Hour), "A"))

	s.Require().Nil(s.backend.Cancel(ctx, handle))

	canceled, _ := s.registry.IsCanceled(ctx, handle)
	s.True(canceled)
	s.Equal(Now.Add(time.Hour), s.registry.Canceled[handle])
}

func (s *delayedSuite) TestCancelForeignHandleUsesHorizon() {
	ctx := context.Background()
	handles := []reminder.NotificationHandle{"legacy-handle", "legacy.handle"}

	for _, handle := range handles {
		s.Require().Nil(s.backend.Cancel(ctx, handle))
		s.Equal(Now.Add(CancelHorizon), s.registry.Canceled[handle])
	}
}

func (s *delayedSuite) TestCancelAllAdvancesGeneration() {
	ctx := context.Background()
	s.backend.ScheduleOneShot(ctx, reminder.NewOneShot(Now.Add(time.Hour), "A"))

	s.Require().Nil(s.backend.CancelAll(ctx))
	s.backend.ScheduleOneShot(ctx, reminder.NewOneShot(Now.Add(time.Hour), "B"))

	s.Equal(int64(0), s.publisher.published[0].Generation)
	s.Equal(int64(1), s.publisher.published[1].Generation)
}

package listreminders

import (
	"apptreminder/internal/core/domain/reminder"
	service "apptreminder/internal/core/services/list_scheduled_reminders"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	reminders []reminder.ScheduledReminder
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	result.Reminders = s.reminders
	return result, nil
}

func TestListRemindersHandler(t *testing.T) {
	stub := &stubService{
		reminders: []reminder.ScheduledReminder{
			{
				AppointmentID:      1,
				NotificationHandle: "handle-1",
				TriggerTime:        time.Date(2025, 9, 25, 9, 30, 0, 0, time.UTC),
				DoctorName:         "Dr. A",
			},
			{
				AppointmentID:      2,
				NotificationHandle: "handle-2",
				TriggerTime:        time.Date(2025, 9, 26, 9, 30, 0, 0, time.UTC),
				DoctorName:         "Dr. B",
			},
		},
	}
	rr := httptest.NewRecorder()

	New(stub).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reminders", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(
		t,
		`{"reminders": [
			{"appointment_id": 1, "notification_id": "handle-1", "trigger_time": "2025-09-25T09:30:00Z", "doctor_name": "Dr. A"},
			{"appointment_id": 2, "notification_id": "handle-2", "trigger_time": "2025-09-26T09:30:00Z", "doctor_name": "Dr. B"}
		]}`,
		rr.Body.String(),
	)
}

func TestListRemindersEmpty(t *testing.T) {
	rr := httptest.NewRecorder()

	New(&stubService{}).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/reminders", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"reminders": []}`, rr.Body.String())
}

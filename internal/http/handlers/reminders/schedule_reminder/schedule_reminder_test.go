package schedulereminder

import (
	c "apptreminder/internal/core/domain/common"
	"apptreminder/internal/core/domain/reminder"
	service "apptreminder/internal/core/services/schedule_appointment_reminder"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubService struct {
	result service.Result
	err    error
	input  *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (result service.Result, err error) {
	s.input = &input
	if s.err != nil {
		return result, s.err
	}
	return s.result, nil
}

func TestScheduleReminderHandler(t *testing.T) {
	cases := []struct {
		id             string
		body           string
		expectedStatus int
		expectedInput  *service.Input
	}{
		{
			id:             "local time",
			body:           `{"appointment_id": 5, "appointment_date_time": "2025-09-25 10:00:00", "doctor_name": "Dr. Who"}`,
			expectedStatus: http.StatusOK,
			expectedInput: &service.Input{
				AppointmentID: 5,
				AppointmentAt: time.Date(2025, 9, 25, 10, 0, 0, 0, time.UTC),
				DoctorName:    "Dr. Who",
			},
		},
		{
			id:             "with offset",
			body:           `{"appointment_id": 5, "appointment_date_time": "2025-09-25T10:00:00+02:00", "doctor_name": "Dr. Who"}`,
			expectedStatus: http.StatusOK,
			expectedInput: &service.Input{
				AppointmentID: 5,
				AppointmentAt: time.Date(2025, 9, 25, 8, 0, 0, 0, time.UTC),
				DoctorName:    "Dr. Who",
			},
		},
		{
			id:             "invalid json",
			body:           `{"appointment_id": `,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "missing id",
			body:           `{"appointment_date_time": "2025-09-25 10:00:00", "doctor_name": "Dr. Who"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "negative id",
			body:           `{"appointment_id": -1, "appointment_date_time": "2025-09-25 10:00:00", "doctor_name": "Dr. Who"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "missing doctor",
			body:           `{"appointment_id": 5, "appointment_date_time": "2025-09-25 10:00:00"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			id:             "unparsable date",
			body:           `{"appointment_id": 5, "appointment_date_time": "next tuesday", "doctor_name": "Dr. Who"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/reminders", strings.NewReader(testcase.body))
			stub := &stubService{result: service.Result{Status: service.StatusSkipped}}
			rr := httptest.NewRecorder()

			New(stub, "UTC").ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
			assert.Equal(t, testcase.expectedInput, stub.input)
		})
	}
}

func TestScheduleReminderResponse(t *testing.T) {
	stored := reminder.ScheduledReminder{
		AppointmentID:      5,
		NotificationHandle: "handle-1",
		TriggerTime:        time.Date(2025, 9, 25, 9, 30, 0, 0, time.UTC),
		DoctorName:         "Dr. Who",
	}
	stub := &stubService{
		result: service.Result{Status: service.StatusScheduled, Reminder: c.NewOptional(stored, true)},
	}
	body := `{"appointment_id": 5, "appointment_date_time": "2025-09-25 10:00:00", "doctor_name": "Dr. Who"}`
	req := httptest.NewRequest(http.MethodPost, "/reminders", strings.NewReader(body))
	rr := httptest.NewRecorder()

	New(stub, "UTC").ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(
		t,
		`{
			"status": "scheduled",
			"reminder": {
				"appointment_id": 5,
				"notification_id": "handle-1",
				"trigger_time": "2025-09-25T09:30:00Z",
				"doctor_name": "Dr. Who"
			}
		}`,
		rr.Body.String(),
	)
}

func TestScheduleReminderSkippedHasNoReminder(t *testing.T) {
	stub := &stubService{result: service.Result{Status: service.StatusSkipped}}
	body := `{"appointment_id": 5, "appointment_date_time": "2025-09-25 10:00:00", "doctor_name": "Dr. Who"}`
	req := httptest.NewRequest(http.MethodPost, "/reminders", strings.NewReader(body))
	rr := httptest.NewRecorder()

	New(stub, "UTC").ServeHTTP(rr, req)

	result := map[string]interface{}{}
	assert.Nil(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, "skipped", result["status"])
	assert.Nil(t, result["reminder"])
}

func TestScheduleReminderServiceError(t *testing.T) {
	stub := &stubService{err: errors.New("boom")}
	body := `{"appointment_id": 5, "appointment_date_time": "2025-09-25 10:00:00", "doctor_name": "Dr. Who"}`
	req := httptest.NewRequest(http.MethodPost, "/reminders", strings.NewReader(body))
	rr := httptest.NewRecorder()

	New(stub, "UTC").ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

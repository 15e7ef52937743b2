package schedulereminder

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	service "apptreminder/internal/core/services/schedule_appointment_reminder"
	"apptreminder/internal/http/handlers/response"
	"encoding/json"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-module/carbon/v2"
)

type Handler struct {
	service  services.Service[service.Input, service.Result]
	timezone string
}

// New creates the handler. Appointment times without an offset are read in
// timezone.
func New(
	service services.Service[service.Input, service.Result],
	timezone string,
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service, timezone: timezone}
}

type Input struct {
	AppointmentID       int64  `json:"appointment_id"`
	AppointmentDateTime string `json:"appointment_date_time"`
	DoctorName          string `json:"doctor_name"`
}

type Result struct {
	Status   string             `json:"status"`
	Reminder *response.Reminder `json:"reminder"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.AppointmentID, validation.Required, validation.Min(int64(1))),
		validation.Field(&i.AppointmentDateTime, validation.Required, validation.Length(1, 64)),
		validation.Field(&i.DoctorName, validation.Required, validation.Length(1, 256)),
	)
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	appointmentAt := carbon.Parse(input.AppointmentDateTime, h.timezone)
	if appointmentAt.Error != nil {
		response.RenderError(rw, "invalid appointment date time", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		service.Input{
			AppointmentID: reminder.AppointmentID(input.AppointmentID),
			AppointmentAt: appointmentAt.Carbon2Time().UTC(),
			DoctorName:    input.DoctorName,
		},
	)
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(
		rw,
		Result{Status: string(result.Status), Reminder: response.OptionalReminder(result.Reminder)},
		http.StatusOK,
	)
}

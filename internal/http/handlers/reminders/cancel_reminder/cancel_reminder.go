package cancelreminder

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	service "apptreminder/internal/core/services/cancel_appointment_reminder"
	"apptreminder/internal/http/handlers/response"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service services.Service[service.Input, service.Result]
}

func New(
	service services.Service[service.Input, service.Result],
) *Handler {
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	return &Handler{service: service}
}

type Result struct {
	Canceled bool               `json:"canceled"`
	Reminder *response.Reminder `json:"reminder"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	rawAppointmentID := chi.URLParam(r, "appointmentID")
	appointmentID, err := strconv.ParseInt(rawAppointmentID, 10, 64)
	if err != nil {
		response.RenderError(rw, "invalid appointment ID", http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(r.Context(), service.Input{AppointmentID: reminder.AppointmentID(appointmentID)})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	response.Render(
		rw,
		Result{Canceled: result.Canceled, Reminder: response.OptionalReminder(result.Reminder)},
		http.StatusOK,
	)
}

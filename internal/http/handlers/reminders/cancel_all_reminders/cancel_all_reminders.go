package cancelallreminders

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/services"
	service "apptreminder/internal/core/services/cancel_all_appointment_reminders"
	"apptreminder/internal/http/handlers/response"
	"net/http"
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

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if _, err := h.service.Run(r.Context(), service.Input{}); err != nil {
		response.RenderInternalError(rw)
		return
	}
	response.RenderNoContent(rw)
}

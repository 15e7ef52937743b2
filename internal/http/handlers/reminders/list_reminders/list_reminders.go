package listreminders

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/services"
	service "apptreminder/internal/core/services/list_scheduled_reminders"
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

type Result struct {
	Reminders []response.Reminder `json:"reminders"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	result, err := h.service.Run(r.Context(), service.Input{})
	if err != nil {
		response.RenderInternalError(rw)
		return
	}
	response.Render(rw, Result{Reminders: response.Reminders(result.Reminders)}, http.StatusOK)
}

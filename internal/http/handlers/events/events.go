package events

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"net/http"

	"github.com/r3labs/sse/v2"
)

type Handler struct {
	log       logging.Logger
	sseServer *sse.Server
	stream    string
}

func New(log logging.Logger, sseServer *sse.Server, stream string) *Handler {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sseServer == nil {
		panic(e.NewNilArgumentError("sseServer"))
	}
	return &Handler{log: log, sseServer: sseServer, stream: stream}
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	query.Set("stream", h.stream)
	r.URL.RawQuery = query.Encode()

	go func() {
		// Received browser disconnection
		<-r.Context().Done()
		h.log.Info(r.Context(), "Unsubscribed from reminder events.", logging.Entry("stream", h.stream))
	}()

	h.log.Info(r.Context(), "Subscribed to reminder events.", logging.Entry("stream", h.stream))
	h.sseServer.ServeHTTP(rw, r)
}

package app

import (
	"apptreminder/internal/app/deps"
	"apptreminder/internal/app/services"
	"apptreminder/internal/http/handlers/auth"
	"apptreminder/internal/http/handlers/events"
	requestpermission "apptreminder/internal/http/handlers/permission/request_permission"
	cancelallreminders "apptreminder/internal/http/handlers/reminders/cancel_all_reminders"
	cancelreminder "apptreminder/internal/http/handlers/reminders/cancel_reminder"
	listreminders "apptreminder/internal/http/handlers/reminders/list_reminders"
	schedulereminder "apptreminder/internal/http/handlers/reminders/schedule_reminder"
	"apptreminder/internal/implementations/deliverer"
	tokenvalidator "apptreminder/internal/implementations/token_validator"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	reminderRouter := chi.NewRouter()
	reminderRouter.Use(auth.RequireToken(tokenValidator(deps)))
	reminderRouter.Method(
		http.MethodPost,
		"/",
		schedulereminder.New(s.ScheduleAppointmentReminder, deps.Config.Timezone),
	)
	reminderRouter.Method(http.MethodGet, "/", listreminders.New(s.ListScheduledReminders))
	reminderRouter.Method(http.MethodDelete, "/", cancelallreminders.New(s.CancelAllAppointmentReminders))
	reminderRouter.Method(
		http.MethodDelete,
		"/{appointmentID:[0-9]+}",
		cancelreminder.New(s.CancelAppointmentReminder),
	)

	permissionRouter := chi.NewRouter()
	permissionRouter.Use(auth.RequireToken(tokenValidator(deps)))
	permissionRouter.Method(http.MethodPost, "/", requestpermission.New(s.RequestPermission))

	router := newRouter(deps)
	router.Mount("/reminders", reminderRouter)
	router.Mount("/permission", permissionRouter)
	router.Method(http.MethodGet, "/events", events.New(deps.Logger, deps.SseServer, deliverer.Stream))

	return &http.Server{
		Handler: router,
		Addr:    deps.Config.HTTPAddr,
	}
}

// InitEventsServer serves only the reminder event stream. The notifier runs
// it so fired reminders reach subscribers when delivery happens out of the
// API process.
func InitEventsServer(deps *deps.Deps) *http.Server {
	router := newRouter(deps)
	router.Method(http.MethodGet, "/events", events.New(deps.Logger, deps.SseServer, deliverer.Stream))

	return &http.Server{
		Handler: router,
		Addr:    deps.Config.EventsAddr,
	}
}

func newRouter(deps *deps.Deps) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CorsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	return router
}

func tokenValidator(deps *deps.Deps) auth.TokenValidator {
	if deps.Config.IsTestMode && deps.Config.APITokenHash == "" {
		return tokenvalidator.NewAllowAlways()
	}
	return tokenvalidator.NewBcrypt(deps.Config.APITokenHash)
}

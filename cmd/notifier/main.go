package main

import (
	"apptreminder/internal/app"
	"apptreminder/internal/app/consumers"
	"apptreminder/internal/app/deps"
	"apptreminder/internal/app/services"
	"apptreminder/internal/config"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	dl "apptreminder/internal/core/domain/logging"
)

func main() {
	deps, shutdownDeps := deps.InitDeps()
	if deps.Config.NotificationBackend != config.BackendRabbitmq {
		deps.Logger.Error(
			context.Background(),
			"Notifier requires the rabbitmq notification backend.",
			dl.Entry("notificationBackend", deps.Config.NotificationBackend),
		)
		shutdownDeps()
		os.Exit(1)
	}
	services := services.InitServices(deps)

	shutdownConsumers := consumers.InitConsumers(deps, services)

	eventsServer := app.InitEventsServer(deps)
	go start(eventsServer, deps)

	stopCh, closeCh := createChannel()
	defer closeCh()

	<-stopCh
	deps.Logger.Info(context.Background(), "Stopping notifier.")
	shutdownConsumers()

	ctx, cancel := context.WithTimeout(context.Background(), deps.Config.HTTPShutdownTimeout)
	defer cancel()
	if err := eventsServer.Shutdown(ctx); err != nil {
		deps.Logger.Error(ctx, "Could not shut down events server.", dl.Entry("err", err))
	}

	shutdownDeps()
	deps.Logger.Info(ctx, "Notifier has shutdowned.")
}

func createChannel() (chan os.Signal, func()) {
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	return stopCh, func() {
		close(stopCh)
	}
}

func start(server *http.Server, deps *deps.Deps) {
	deps.Logger.Info(context.Background(), "Events server has started.", dl.Entry("address", server.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic(err)
	} else {
		deps.Logger.Info(context.Background(), "Events server is stopping gracefully.")
	}
}

package consumers

import (
	"apptreminder/internal/app/deps"
	"apptreminder/internal/app/services"
	dl "apptreminder/internal/core/domain/logging"
	notificationdue "apptreminder/internal/rabbitmq/consumers/notification_due"
	"context"
)

func initNotificationDueConsumer(deps *deps.Deps, services *services.Services) func() {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue := deps.Config.RabbitmqNotificationQueue
	notificationDueConsumer := notificationdue.New(
		deps.Logger,
		rabbitmqChannel,
		queue,
		deps.NotificationPublisher,
		services.DeliverNotification,
		deps.Now,
	)
	if err = notificationDueConsumer.Consume(); err != nil {
		deps.Logger.Error(
			context.Background(),
			"Could not start RabbitMQ consuming.",
			dl.Entry("err", err),
			dl.Entry("queue", queue),
		)
		panic(err)
	}

	deps.Logger.Info(context.Background(), "Consumer has started.", dl.Entry("queue", queue))
	return func() { rabbitmqChannel.Close() }
}

func InitConsumers(deps *deps.Deps, services *services.Services) func() {
	shutdownNotificationDueConsumer := initNotificationDueConsumer(deps, services)

	return func() {
		shutdownNotificationDueConsumer()
	}
}

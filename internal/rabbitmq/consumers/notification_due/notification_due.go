package notificationdue

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/core/services"
	delivernotification "apptreminder/internal/core/services/deliver_notification"
	"apptreminder/internal/rabbitmq"
	"apptreminder/internal/rabbitmq/schema"
	"context"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// EarlyTolerance is how much earlier than its fire time a message may arrive
// and still be delivered. Earlier messages are republished.
const EarlyTolerance = time.Minute

type Republisher interface {
	PublishNotification(ctx context.Context, n reminder.Notification) error
}

type Consumer struct {
	log       logging.Logger
	channel   *rabbitmq.Channel
	queue     string
	publisher Republisher
	service   services.Service[delivernotification.Input, delivernotification.Result]
	now       func() time.Time
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	publisher Republisher,
	service services.Service[delivernotification.Input, delivernotification.Result],
	now func() time.Time,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic("queue name must not be empty")
	}
	if publisher == nil {
		panic(e.NewNilArgumentError("publisher"))
	}
	if service == nil {
		panic(e.NewNilArgumentError("service"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}

	return &Consumer{
		log:       log,
		channel:   channel,
		queue:     queue,
		publisher: publisher,
		service:   service,
		now:       now,
	}
}

func (c *Consumer) Consume() error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			c.Handle(context.Background(), delivery.Body)
			c.Ack(delivery)
		}
	}()
	return nil
}

// Handle processes one message body. It never fails: malformed messages and
// delivery errors are logged and the message is acknowledged anyway.
func (c *Consumer) Handle(ctx context.Context, body []byte) {
	message := &schema.Notification{}
	if err := message.Unmarshal(body); err != nil {
		c.log.Error(
			ctx,
			"Could not unmarshal notification.",
			logging.Entry("err", err),
			logging.Entry("body", string(body)),
		)
		return
	}

	n := message.ToDomain()
	if n.FireAt.Sub(c.now()) > EarlyTolerance {
		// Longer than the broker's maximum delay, wait another round.
		if err := c.publisher.PublishNotification(ctx, n); err != nil {
			logging.Error(ctx, c.log, err, logging.Entry("handle", n.Handle))
		}
		return
	}

	c.log.Info(ctx, "Got due notification.", logging.Entry("handle", message.Handle))
	result, err := c.service.Run(ctx, delivernotification.Input{Notification: n})
	if err != nil {
		c.log.Error(
			ctx,
			"Could not deliver notification, service returned an error.",
			logging.Entry("handle", message.Handle),
			logging.Entry("err", err),
		)
		return
	}
	c.log.Info(
		ctx,
		"Due notification processed.",
		logging.Entry("handle", message.Handle),
		logging.Entry("outcome", result.Outcome),
	)
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}

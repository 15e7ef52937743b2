package notificationpublisher

import (
	e "apptreminder/internal/core/domain/errors"
	"apptreminder/internal/core/domain/logging"
	"apptreminder/internal/core/domain/reminder"
	"apptreminder/internal/rabbitmq"
	"apptreminder/internal/rabbitmq/schema"
	"context"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	log        logging.Logger
	connection *rabbitmq.Connection
	channel    *rabbitmq.Channel
	exchange   string
	routingKey string
	now        func() time.Time
}

func NewRabbitMQ(
	log logging.Logger,
	connection *rabbitmq.Connection,
	channel *rabbitmq.Channel,
	exchange string,
	routingKey string,
	now func() time.Time,
) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if connection == nil {
		panic(e.NewNilArgumentError("connection"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{
		log:        log,
		connection: connection,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		now:        now,
	}
}

// MaxDelay is the longest x-delay the delayed message exchange honours.
// Messages due later are delivered early and republished by the consumer.
const MaxDelay = time.Duration(1<<32-1) * time.Millisecond

// Delay is the x-delay header value in milliseconds for a message that must
// be delivered at fireAt.
func Delay(fireAt time.Time, now time.Time) int64 {
	d := fireAt.Sub(now)
	if d < 0 {
		return 0
	}
	if d > MaxDelay {
		d = MaxDelay
	}
	return d.Milliseconds()
}

func (p *RabbitMQ) PublishNotification(ctx context.Context, n reminder.Notification) error {
	message := schema.FromDomain(n)
	body, err := message.Marshal()
	if err != nil {
		return err
	}

	delay := Delay(n.FireAt, p.now())
	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp091.Publishing{
		Headers:      amqp091.Table{"x-delay": delay},
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    string(n.Handle),
		Timestamp:    p.now(),
		Body:         body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err, logging.Entry("handle", n.Handle))
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", p.routingKey),
		logging.Entry("handle", n.Handle),
		logging.Entry("delayMs", delay),
	)
	return nil
}

func (p *RabbitMQ) IsAlive() bool {
	return p.connection.IsAlive() && !p.channel.IsClosed()
}

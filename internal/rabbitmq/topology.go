package rabbitmq

import amqp "github.com/rabbitmq/amqp091-go"

// DelayedExchangeKind requires the rabbitmq_delayed_message_exchange plugin.
const DelayedExchangeKind = "x-delayed-message"

// DeclareDelayedQueue declares a durable delayed exchange and a durable queue
// bound to it with the queue name as routing key.
func DeclareDelayedQueue(ch *Channel, exchange string, queue string) error {
	raw := ch.current()
	err := raw.ExchangeDeclare(
		exchange,
		DelayedExchangeKind,
		true,
		false,
		false,
		false,
		amqp.Table{"x-delayed-type": "direct"},
	)
	if err != nil {
		return err
	}
	if _, err := raw.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return err
	}
	return raw.QueueBind(queue, queue, exchange, false, nil)
}

// Package rabbitmq отвечает за доставку писем через брокер: подключение
// с повторными попытками, топологию почтового обменника, публикацию и
// потребление сообщений очереди подтверждения почты.
package rabbitmq

import (
	"fmt"
	"time"

	"github.com/streadway/amqp"
)

// Connect подключается к брокеру с повторными попытками: при старте через
// docker-compose брокер может подниматься дольше приложения.
func Connect(connection string, retries int, delay time.Duration) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"

	var err error
	for range retries {
		var conn *amqp.Connection
		conn, err = amqp.Dial(connection)
		if err == nil {
			return conn, nil
		}
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("%s: %w", op, err)
}

// SetupChannel открывает канал, объявляет почтовый обменник и привязывает
// к нему переданные очереди. Очереди и обменник долговечные, письма
// переживают перезапуск брокера.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := ch.Qos(maxConcurrentDeliveries, 0, false); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := ch.ExchangeDeclare(MailExchange, "direct", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, MailExchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	return ch, nil
}

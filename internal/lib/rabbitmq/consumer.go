package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/nagoyameshi/nagoyameshi-api/internal/lib/sl"
)

// maxConcurrentDeliveries ограничивает число писем в обработке одновременно,
// то же значение выставляется как prefetch канала.
const maxConcurrentDeliveries = 10

// ConsumerMessage подписывается на очередь и передаёт тело каждого сообщения
// в handler. Успешно обработанные сообщения подтверждаются, ошибочные
// возвращаются в очередь на повторную доставку. Потребление останавливается
// с отменой контекста.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))

	sem := make(chan struct{}, maxConcurrentDeliveries)

	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}

				sem <- struct{}{}

				go func(d amqp.Delivery) {
					defer func() { <-sem }()

					if err := handler(d.Body); err != nil {
						log.Error("failed to handle message, requeueing", sl.Err(err))
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}

					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

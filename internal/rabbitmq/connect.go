// Package rabbitmq подключается к брокеру, объявляет очередь уведомлений
// зала, публикует и потребляет JSON-сообщения.
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-manager/internal/config"
)

// Connect подключается к брокеру, повторяя попытку cfg.RabbitMQMaxRetries раз.
func Connect(ctx context.Context, cfg config.RabbitMQ) (*amqp.Connection, error) {
	const op = "rabbitmq.Connect"
	retries := max(cfg.RabbitMQMaxRetries, 1)

	var err error
	for attempt := range retries {
		var conn *amqp.Connection
		conn, err = amqp.Dial(cfg.RabbitMQURL)
		if err == nil {
			return conn, nil
		}
		if attempt == retries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s: %w", op, ctx.Err())
		case <-time.After(cfg.RabbitMQRetryDelay):
		}
	}
	return nil, fmt.Errorf("%s: %w", op, err)
}

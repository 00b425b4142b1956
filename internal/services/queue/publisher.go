package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phambaophuc/vector-art/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

func (q *QueueService) Publish(ctx context.Context, event models.SessionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = q.channel.Publish(
		"",          // exchange
		q.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.Timestamp,
			MessageId:    event.ID,
			Type:         string(event.Type),
			Headers:      amqp.Table{"session_id": event.SessionID},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	q.logger.Debug("Event published to queue",
		zap.String("session_id", event.SessionID),
		zap.String("type", string(event.Type)))
	return nil
}

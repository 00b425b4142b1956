package queue

import (
	"errors"
	"fmt"
)

var ErrNotConfigured = errors.New("queue not configured")

// EventStats reports the backlog of unconsumed session events.
func (q *QueueService) EventStats() (map[string]interface{}, error) {
	if q == nil || q.channel == nil {
		return nil, ErrNotConfigured
	}

	queueInfo, err := q.channel.QueueInspect(q.queueName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect queue: %w", err)
	}

	return map[string]interface{}{
		"name":      queueInfo.Name,
		"pending":   queueInfo.Messages,
		"consumers": queueInfo.Consumers,
	}, nil
}

// HealthCheck checks if RabbitMQ is available
func (q *QueueService) HealthCheck() string {
	if q == nil {
		return "not configured"
	}

	if q.conn == nil || q.conn.IsClosed() {
		return "unhealthy: connection closed"
	}

	if q.channel == nil {
		return "unhealthy: channel not available"
	}

	return "healthy"
}

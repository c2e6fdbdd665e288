package kafka_middleware

import (
	"context"
	"time"

	"bookingdesk/pkg/kafka"
	"bookingdesk/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		log.Debug("Publishing message",
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"correlation_id", msg.GetCorrelationID(),
		)

		err := next(ctx, msg)

		if err != nil {
			log.Error("Failed to publish message",
				"topic", msg.Topic,
				"key", msg.Key,
				"event_id", msg.GetEventID(),
				"correlation_id", msg.GetCorrelationID(),
				"duration", time.Since(start),
				"error", err,
			)
			return err
		}

		log.Info("Published message",
			"topic", msg.Topic,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration", time.Since(start),
		)
		return nil
	}
}

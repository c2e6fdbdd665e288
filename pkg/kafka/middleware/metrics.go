package kafka_middleware

import (
	"context"
	"time"

	"bookingdesk/pkg/kafka"
)

// PublishRecorder receives one observation per publish attempt.
type PublishRecorder interface {
	RecordPublish(topic string, err error, d time.Duration)
}

func MetricsProducerMiddleware(recorder PublishRecorder) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		recorder.RecordPublish(msg.Topic, err, time.Since(start))
		return err
	}
}

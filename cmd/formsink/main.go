package main

import (
	"context"
	"os"

	"bookingdesk/internal/formsink/handler"
	"bookingdesk/internal/formsink/service"
	"bookingdesk/pkg/app"
	"bookingdesk/pkg/config"
	"bookingdesk/pkg/health"
	"bookingdesk/pkg/kafka"
	kafka_middleware "bookingdesk/pkg/kafka/middleware"
	"bookingdesk/pkg/metrics"
	"bookingdesk/pkg/middleware"
)

func main() {
	cfg := config.Load("formsink")
	if os.Getenv(config.EnvPort) == "" {
		cfg.Port = config.DefaultSinkPort
	}
	cfg.Log.Info("Starting Form Sink service")

	m := metrics.New()

	opts := []app.Option{
		app.WithMetrics(m),
		app.WithContentTypes(middleware.MediaTypeForm, middleware.MediaTypeJSON),
	}
	if cfg.FormSigningSecret != "" {
		opts = append(opts, app.WithFormSignature(cfg.FormSigningSecret))
	}

	checks := map[string]health.Check{}
	var sinkOpts []service.Option

	if cfg.Kafka.Enabled {
		producer := initProducer(cfg, m)
		sinkOpts = append(sinkOpts, service.WithPublisher(producer))
		checks["kafka"] = func(ctx context.Context) error {
			return kafka.Ping(ctx, cfg.Kafka.Brokers)
		}
		opts = append(opts, app.WithShutdownHook("kafka_producer", func(context.Context) error {
			return producer.Close()
		}))
	} else {
		cfg.Log.Info("Kafka disabled, form posts are only logged")
	}

	sinkService := service.NewSinkService(cfg, m, sinkOpts...)

	application := app.NewApplication()
	application.SetApp(cfg,
		handler.NewSinkHandler(sinkService, cfg.FormPath, cfg.Log),
		health.NewHealthHandler(cfg.Log, m.Handler(), checks),
		opts...,
	)
	application.Run()
}

func initProducer(cfg *config.Config, m *metrics.Metrics) *kafka.Producer {
	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if cfg.Kafka.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}

	cfg.Log.Info("Kafka producer initialized", "topic", producer.Topic(), "middleware", cfg.Kafka.EnableMiddleware)
	return producer
}

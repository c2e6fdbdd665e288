package main

import (
	"context"
	"fmt"

	"bookingdesk/internal/inquiries/handler"
	"bookingdesk/internal/inquiries/repository"
	"bookingdesk/internal/inquiries/service"
	"bookingdesk/internal/inquiries/transport"
	"bookingdesk/internal/inquiries/validator"
	"bookingdesk/pkg/app"
	"bookingdesk/pkg/client"
	"bookingdesk/pkg/config"
	"bookingdesk/pkg/health"
	"bookingdesk/pkg/metrics"
)

func main() {
	cfg := config.Load("inquiries")
	cfg.Log.Info("Starting Inquiries service")

	m := metrics.New()

	collector := client.NewHttpClient(cfg.FormEndpointURL)
	collector.HTTPClient.Timeout = cfg.SubmitTimeout

	sessions := repository.NewInMemorySessionRepository(cfg.SessionTTL,
		repository.WithEvictionHook(m.SessionsClosed),
	)

	inquiryService := initServices(cfg, collector, sessions, m)

	healthHandler := health.NewHealthHandler(cfg.Log, m.Handler(), map[string]health.Check{
		"form_collector": collectorCheck(collector),
	})

	application := app.NewApplication()
	application.SetApp(cfg, handler.NewInquiryHandler(inquiryService, cfg.Log), healthHandler,
		app.WithMetrics(m),
		app.WithShutdownHook("sessions", func(context.Context) error {
			sessions.Stop()
			return nil
		}),
	)
	application.Run()
}

func initServices(cfg *config.Config, collector *client.HttpClient, sessions repository.SessionRepository, m *metrics.Metrics) service.InquiryService {
	inquiryValidator := validator.NewInquiryValidator(cfg.Log)
	formTransport := transport.NewFormTransport(collector, transport.Config{
		EndpointURL:   cfg.FormEndpointURL,
		Path:          cfg.FormPath,
		FormName:      cfg.FormName,
		HoneypotField: cfg.HoneypotField,
		SigningSecret: cfg.FormSigningSecret,
	}, cfg.Log)

	inquiryService := service.NewInquiryService(inquiryValidator, formTransport, sessions, m, cfg)

	cfg.Log.Info("Inquiry service initialized", "form_path", cfg.FormPath)
	return inquiryService
}

func collectorCheck(collector *client.HttpClient) health.Check {
	return func(ctx context.Context) error {
		resp, err := collector.GET(ctx, "/health")
		if err != nil {
			return err
		}
		if !resp.IsSuccess() {
			return fmt.Errorf("form collector returned status %d", resp.StatusCode)
		}
		return nil
	}
}

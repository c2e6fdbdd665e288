package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookingdesk/pkg/config"
	"bookingdesk/pkg/contracts"
	"bookingdesk/pkg/health"
	"bookingdesk/pkg/metrics"
	"bookingdesk/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

// ShutdownHook releases a resource once the server has stopped accepting requests.
type ShutdownHook struct {
	Name string
	Fn   func(ctx context.Context) error
}

type Option func(*Application)

// WithContentTypes overrides the media types accepted on request bodies.
func WithContentTypes(types ...string) Option {
	return func(a *Application) {
		a.contentTypes = types
	}
}

// WithFormSignature requires POST bodies to carry a valid HMAC signature.
func WithFormSignature(secret string) Option {
	return func(a *Application) {
		a.signingSecret = secret
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Application) {
		a.metrics = m
	}
}

func WithShutdownHook(name string, fn func(ctx context.Context) error) Option {
	return func(a *Application) {
		a.shutdownHooks = append(a.shutdownHooks, ShutdownHook{Name: name, Fn: fn})
	}
}

type Application struct {
	cfg              *config.Config
	server           *http.Server
	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.RateLimiter
	healthHandler    http.Handler
	appHttpHandler   http.Handler
	healthPaths      []string

	contentTypes  []string
	signingSecret string
	metrics       *metrics.Metrics
	shutdownHooks []ShutdownHook
}

func NewApplication() *Application {
	return &Application{}
}

func (a *Application) SetApp(cfg *config.Config, appHandler contracts.Handler, healthHandler *health.HealthHandler, opts ...Option) {
	a.cfg = cfg
	for _, opt := range opts {
		opt(a)
	}

	a.setHealthHandler(healthHandler)
	a.setAppHandler(appHandler)
	a.setAppServer()
}

func (a *Application) setHealthHandler(healthHandler *health.HealthHandler) {
	healthRouter := httprouter.New()
	healthHandler.RegisterRoutes(healthRouter)
	a.healthPaths = healthHandler.Paths()

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)", "paths", a.healthPaths)
}

func (a *Application) setAppHandler(appHandler contracts.Handler) {
	appRouter := httprouter.New()
	appHandler.RegisterRoutes(appRouter)

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(a.cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewRateLimiter(
		a.cfg.RateLimitRequests,
		a.cfg.RateLimitWindow,
		middleware.SubmissionIPExtractor,
		a.cfg.Log,
	)

	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.Idempotency(a.idempotencyStore, middleware.IdempotencyHeader)(appHttpHandler)
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.RateLimit(a.rateLimiter)(appHttpHandler)
	if a.signingSecret != "" {
		appHttpHandler = middleware.FormSignatureVerification(a.signingSecret, a.cfg.Log)(appHttpHandler)
		a.cfg.Log.Info("Form signature verification enabled")
	}
	appHttpHandler = middleware.ContentTypeValidation(a.cfg.Log, a.contentTypes...)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(int64(a.cfg.MaxRequestSize))(appHttpHandler)
	if a.metrics != nil {
		appHttpHandler = a.metrics.Middleware()(appHttpHandler)
	}
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured with full middleware stack")
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	for _, path := range a.healthPaths {
		mux.Handle(path, a.healthHandler)
	}
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

// Handler returns the fully wired mux without starting a listener.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) Run() {
	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		a.cfg.Log.Fatal("HTTP server failed", "error", err)

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.Shutdown()
	}
}

// Shutdown drains in-flight requests, stops background workers and runs the
// registered hooks in reverse order.
func (a *Application) Shutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Stopping background workers...")
	a.idempotencyStore.Stop()
	a.rateLimiter.Stop()

	for i := len(a.shutdownHooks) - 1; i >= 0; i-- {
		hook := a.shutdownHooks[i]
		if err := hook.Fn(ctx); err != nil {
			a.cfg.Log.Error("Shutdown hook failed", "hook", hook.Name, "error", err)
			continue
		}
		a.cfg.Log.Info("Shutdown hook completed", "hook", hook.Name)
	}

	a.cfg.Log.Info("Server stopped gracefully")
}

package config

import "time"

const (
	DefaultPort      = "8080"
	DefaultSinkPort  = "8081"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 64 * 1024 // 64KB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultFormEndpointURL = "http://localhost:8081"
	DefaultFormPath        = "/__forms.html"
	DefaultFormName        = "celebrity-booking"
	DefaultHoneypotField   = "bot-field"
	DefaultSubmitTimeout   = 15 * time.Second
	DefaultSessionTTL      = 2 * time.Hour
)

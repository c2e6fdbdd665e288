package config

const (
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvFormEndpointURL   = "FORM_ENDPOINT_URL"
	EnvFormPath          = "FORM_PATH"
	EnvFormName          = "FORM_NAME"
	EnvHoneypotField     = "HONEYPOT_FIELD"
	EnvFormSigningSecret = "FORM_SIGNING_SECRET"
	EnvSubmitTimeout     = "SUBMIT_TIMEOUT"
	EnvSessionTTL        = "SESSION_TTL"
)

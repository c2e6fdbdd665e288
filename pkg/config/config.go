package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	kafka_config "bookingdesk/pkg/kafka/config"
	"bookingdesk/pkg/logger"
)

type Config struct {
	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	FormEndpointURL   string
	FormPath          string
	FormName          string
	HoneypotField     string
	FormSigningSecret string
	SubmitTimeout     time.Duration
	SessionTTL        time.Duration

	Kafka *kafka_config.Config

	Log *logger.Logger
}

func Load(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		FormEndpointURL:   getEnvStr(EnvFormEndpointURL, DefaultFormEndpointURL),
		FormPath:          getEnvStr(EnvFormPath, DefaultFormPath),
		FormName:          getEnvStr(EnvFormName, DefaultFormName),
		HoneypotField:     getEnvStr(EnvHoneypotField, DefaultHoneypotField),
		FormSigningSecret: getEnvStr(EnvFormSigningSecret, ""),
		SubmitTimeout:     getEnvDuration(EnvSubmitTimeout, DefaultSubmitTimeout),
		SessionTTL:        getEnvDuration(EnvSessionTTL, DefaultSessionTTL),

		Kafka: kafka_config.Load(),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

var formNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if u, err := url.Parse(cfg.FormEndpointURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("FormEndpointURL must be an absolute http(s) URL, got: %s", cfg.FormEndpointURL))
	}
	if !strings.HasPrefix(cfg.FormPath, "/") {
		errors = append(errors, fmt.Sprintf("FormPath must start with '/', got: %s", cfg.FormPath))
	}
	if !formNameRegex.MatchString(cfg.FormName) {
		errors = append(errors, fmt.Sprintf("FormName must be lowercase letters, digits and dashes, got: %s", cfg.FormName))
	}
	if cfg.HoneypotField == "" {
		errors = append(errors, "HoneypotField cannot be empty")
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"SubmitTimeout", cfg.SubmitTimeout},
		{"SessionTTL", cfg.SessionTTL},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}
	if cfg.SubmitTimeout > 0 && cfg.RequestTimeout > 0 && cfg.SubmitTimeout >= cfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("SubmitTimeout (%s) must be shorter than RequestTimeout (%s)", cfg.SubmitTimeout, cfg.RequestTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.Kafka != nil {
		if err := cfg.Kafka.Validate(); err != nil {
			errors = append(errors, strings.TrimSpace(err.Error()))
		}
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"form_endpoint_url", redactURL(cfg.FormEndpointURL),
		"form_path", cfg.FormPath,
		"form_name", cfg.FormName,
		"honeypot_field", cfg.HoneypotField,
		"form_signing_secret_set", cfg.FormSigningSecret != "",
		"submit_timeout", cfg.SubmitTimeout,
		"session_ttl", cfg.SessionTTL,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.UserPassword("***", "***")
	return u.String()
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

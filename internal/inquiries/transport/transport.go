// Package transport hands an accepted booking record to the form collector.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"bookingdesk/internal/inquiries/schema"
	"bookingdesk/pkg/client"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/middleware"
	"bookingdesk/pkg/model"
)

const (
	FormNameKey          = "form-name"
	DefaultFormName      = "celebrity-booking"
	DefaultFormPath      = "/__forms.html"
	DefaultHoneypotField = "bot-field"
)

type Transport interface {
	Deliver(ctx context.Context, record model.BookingRecord) error
}

// DeliveryError describes a submission the collector did not accept. Exactly
// one of StatusCode and Err is set.
type DeliveryError struct {
	StatusCode int
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("form delivery failed: %v", e.Err)
	}
	return fmt.Sprintf("form delivery failed: collector returned status %d", e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Reason is the message shown to the person submitting the form.
func (e *DeliveryError) Reason() string {
	switch {
	case errors.Is(e.Err, context.DeadlineExceeded):
		return "The booking service did not respond in time. Please try again."
	case e.Err != nil:
		return fmt.Sprintf("We could not reach the booking service (%v). Please try again.", e.Err)
	case e.StatusCode == http.StatusTooManyRequests:
		return "Too many submissions right now. Please wait a moment and try again."
	case e.StatusCode >= 500:
		return fmt.Sprintf("The booking service is having trouble (status %d). Please try again.", e.StatusCode)
	default:
		return fmt.Sprintf("The booking service rejected the submission (status %d).", e.StatusCode)
	}
}

type Config struct {
	EndpointURL   string
	Path          string
	FormName      string
	HoneypotField string
	SigningSecret string
}

type FormTransport struct {
	client *client.HttpClient
	cfg    Config
	log    *logger.Logger
}

func NewFormTransport(httpClient *client.HttpClient, cfg Config, log *logger.Logger) *FormTransport {
	if cfg.Path == "" {
		cfg.Path = DefaultFormPath
	}
	if cfg.FormName == "" {
		cfg.FormName = DefaultFormName
	}
	if cfg.HoneypotField == "" {
		cfg.HoneypotField = DefaultHoneypotField
	}
	return &FormTransport{
		client: httpClient,
		cfg:    cfg,
		log:    log,
	}
}

// Deliver makes a single POST attempt. Any 2xx status counts as accepted.
func (t *FormTransport) Deliver(ctx context.Context, record model.BookingRecord) error {
	body := Encode(record, t.cfg.FormName, t.cfg.HoneypotField)

	var headers map[string]string
	if t.cfg.SigningSecret != "" {
		headers = map[string]string{
			middleware.FormSignatureHeader: middleware.SignPayload(t.cfg.SigningSecret, []byte(body)),
		}
	}

	resp, err := t.client.POSTRaw(ctx, t.cfg.Path, []byte(body), client.ContentTypeForm, headers)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		t.log.Warn("Form collector unreachable", "path", t.cfg.Path, "error", err)
		return &DeliveryError{Err: err}
	}

	if !resp.IsSuccess() {
		t.log.Warn("Form collector rejected submission",
			"path", t.cfg.Path,
			"status", resp.StatusCode,
			"body", truncate(string(resp.Body), 256),
		)
		return &DeliveryError{StatusCode: resp.StatusCode}
	}

	t.log.Debug("Form collector accepted submission", "path", t.cfg.Path, "status", resp.StatusCode)
	return nil
}

// Encode renders record as application/x-www-form-urlencoded in form order:
// form-name first, then every field, then the empty honeypot. Multi-select
// values repeat their key and booleans are written as true or false.
func Encode(record model.BookingRecord, formName, honeypot string) string {
	var b strings.Builder

	write := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	write(FormNameKey, formName)
	for _, d := range schema.Definitions() {
		value := record[d.Name]
		switch d.Kind {
		case model.FieldKindMultiSelect:
			for _, item := range value.Items() {
				write(d.Name, item)
			}
		case model.FieldKindBoolean:
			write(d.Name, strconv.FormatBool(value.Bool()))
		default:
			write(d.Name, value.String())
		}
	}
	write(honeypot, "")

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

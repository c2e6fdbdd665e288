package service

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"bookingdesk/pkg/config"
	apperrors "bookingdesk/pkg/errors"
	"bookingdesk/pkg/kafka"
	"bookingdesk/pkg/locale"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"
	"bookingdesk/pkg/middleware"
	"bookingdesk/pkg/model"
	"bookingdesk/pkg/sanitizer"
)

const (
	FormNameKey = "form-name"

	EventTypeInquiryReceived = "inquiry.received"
	EventSchemaVersion       = "1"
	EventSource              = "formsink"

	ResultAccepted      = "accepted"
	ResultSpam          = "spam"
	ResultUnknownForm   = "unknown_form"
	ResultPublishFailed = "publish_failed"
	ResultFunction      = "function"
)

// Publisher is satisfied by *kafka.Producer.
type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// InquiryReceived is the payload published for every accepted form post.
type InquiryReceived struct {
	FormName   string         `json:"form_name"`
	ReceivedAt time.Time      `json:"received_at"`
	RequestID  string         `json:"request_id,omitempty"`
	Email      string         `json:"email,omitempty"`
	PhoneE164  string         `json:"phone_e164,omitempty"`
	Country    string         `json:"country,omitempty"`
	Timezone   string         `json:"timezone,omitempty"`
	Fields     map[string]any `json:"fields"`
}

type Receipt struct {
	Message string `json:"message"`
	Dropped bool   `json:"-"`
}

const processedMessage = "Form submission processed successfully!"

type SinkService interface {
	ReceiveForm(ctx context.Context, values url.Values) (*Receipt, error)
	ReceiveJSON(ctx context.Context, payload map[string]any) (*Receipt, error)
}

type Option func(*sinkService)

// WithPublisher enables event publishing. Without it posts are only logged.
func WithPublisher(p Publisher) Option {
	return func(s *sinkService) {
		s.publisher = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *sinkService) {
		s.now = now
	}
}

type sinkService struct {
	formName  string
	honeypot  string
	publisher Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
	now       func() time.Time
}

func NewSinkService(cfg *config.Config, m *metrics.Metrics, opts ...Option) SinkService {
	s := &sinkService{
		formName: cfg.FormName,
		honeypot: cfg.HoneypotField,
		metrics:  m,
		log:      cfg.Log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sinkService) ReceiveForm(ctx context.Context, values url.Values) (*Receipt, error) {
	name := values.Get(FormNameKey)
	if name != s.formName {
		s.metrics.RecordSinkInquiry(ResultUnknownForm)
		s.log.Warn("Form post for unknown form", "form_name", name)
		return nil, apperrors.NotFoundWithID("Form", name)
	}

	// Bots fill hidden fields. Answer like a success so they learn nothing.
	if strings.TrimSpace(values.Get(s.honeypot)) != "" {
		s.metrics.RecordSinkInquiry(ResultSpam)
		s.log.Info("Dropped form post with filled honeypot", "form_name", name, "request_id", middleware.RequestID(ctx))
		return &Receipt{Message: processedMessage, Dropped: true}, nil
	}

	event := s.buildEvent(ctx, name, values)
	s.log.Info("Form submission received",
		"form_name", event.FormName,
		"request_id", event.RequestID,
		"fields", len(event.Fields),
		"country", event.Country,
	)

	if s.publisher != nil {
		if err := s.publish(ctx, event); err != nil {
			s.metrics.RecordSinkInquiry(ResultPublishFailed)
			s.log.Error("Failed to publish inquiry event", "form_name", name, "error", err)
			return nil, apperrors.Unavailable("Inquiry event stream")
		}
	}

	s.metrics.RecordSinkInquiry(ResultAccepted)
	return &Receipt{Message: processedMessage}, nil
}

func (s *sinkService) ReceiveJSON(ctx context.Context, payload map[string]any) (*Receipt, error) {
	s.log.Info("Form submission received",
		"source", "function",
		"request_id", middleware.RequestID(ctx),
		"fields", sortedKeys(payload),
	)
	s.metrics.RecordSinkInquiry(ResultFunction)
	return &Receipt{Message: processedMessage}, nil
}

func (s *sinkService) buildEvent(ctx context.Context, name string, values url.Values) InquiryReceived {
	fields := make(map[string]any, len(values))
	for key, vals := range values {
		if key == FormNameKey || key == s.honeypot {
			continue
		}
		if len(vals) == 1 {
			fields[key] = vals[0]
			continue
		}
		fields[key] = append([]string(nil), vals...)
	}

	event := InquiryReceived{
		FormName:   name,
		ReceivedAt: s.now().UTC(),
		RequestID:  middleware.RequestID(ctx),
		Email:      sanitizer.NormalizeEmail(values.Get(model.FieldEmail)),
		Fields:     fields,
	}

	if phone := sanitizer.NormalizePhone(values.Get(model.FieldPhone)); phone != "" {
		event.PhoneE164 = phone
		event.Timezone = locale.InferTimezoneFromPhone(phone)
		if country := locale.InferCountryFromPhone(phone); country != nil {
			event.Country = country.Code
		}
	}

	return event
}

func (s *sinkService) publish(ctx context.Context, event InquiryReceived) error {
	key := event.Email
	if key == "" {
		key = event.RequestID
	}
	if key == "" {
		key = event.FormName
	}

	msg, err := kafka.NewMessage().
		WithKey(key).
		WithValue(event).
		WithEventType(EventTypeInquiryReceived).
		WithCorrelationID(event.RequestID).
		WithSchemaVersion(EventSchemaVersion).
		WithSource(EventSource).
		WithTimestamp(event.ReceivedAt).
		Build()
	if err != nil {
		return err
	}

	return s.publisher.Publish(ctx, msg)
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

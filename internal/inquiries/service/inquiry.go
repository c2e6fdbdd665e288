package service

import (
	"context"
	"errors"
	"sort"

	inqerrors "bookingdesk/internal/inquiries/errors"
	"bookingdesk/internal/inquiries/form"
	"bookingdesk/internal/inquiries/repository"
	"bookingdesk/internal/inquiries/resolver"
	"bookingdesk/internal/inquiries/schema"
	"bookingdesk/internal/inquiries/validator"
	"bookingdesk/pkg/config"
	apperrors "bookingdesk/pkg/errors"
	"bookingdesk/pkg/metrics"
	"bookingdesk/pkg/model"
	"bookingdesk/pkg/sanitizer"

	"github.com/google/uuid"
)

const (
	ChannelDirect  = "direct"
	ChannelSession = "session"

	OutcomeInvalid   = "invalid"
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
)

type InquiryService interface {
	Schema() []model.FieldDefinition
	AttendanceOptions(eventType, performanceType string) model.AttendanceOptionSet
	Validate(ctx context.Context, record model.BookingRecord) (model.ValidationResult, error)
	Submit(ctx context.Context, record model.BookingRecord) (*model.SubmissionReceipt, error)

	CreateForm(ctx context.Context, draft model.BookingRecord) (model.FormSnapshot, error)
	GetForm(ctx context.Context, id string) (model.FormSnapshot, error)
	EditForm(ctx context.Context, id string, edits []model.FieldEdit) (model.FormSnapshot, error)
	SubmitForm(ctx context.Context, id string) (model.FormSnapshot, error)
	RetryForm(ctx context.Context, id string) (model.FormSnapshot, error)
	DismissForm(ctx context.Context, id string) (model.FormSnapshot, error)
	ResetForm(ctx context.Context, id string) (model.FormSnapshot, error)
	DeleteForm(ctx context.Context, id string) error
}

type inquiryService struct {
	validator *validator.InquiryValidator
	transport form.Transport
	sessions  repository.SessionRepository
	metrics   *metrics.Metrics
	cfg       *config.Config
	defs      []model.FieldDefinition
}

func NewInquiryService(
	validator *validator.InquiryValidator,
	transport form.Transport,
	sessions repository.SessionRepository,
	metrics *metrics.Metrics,
	cfg *config.Config,
) InquiryService {
	return &inquiryService{
		validator: validator,
		transport: transport,
		sessions:  sessions,
		metrics:   metrics,
		cfg:       cfg,
		defs:      schema.Definitions(),
	}
}

func (s *inquiryService) Schema() []model.FieldDefinition {
	return schema.Definitions()
}

func (s *inquiryService) AttendanceOptions(eventType, performanceType string) model.AttendanceOptionSet {
	return resolver.Resolve(eventType, performanceType)
}

func (s *inquiryService) Validate(ctx context.Context, record model.BookingRecord) (model.ValidationResult, error) {
	if err := s.checkFields(record); err != nil {
		return model.ValidationResult{}, err
	}

	result := s.validator.Validate(s.sanitize(record))
	if !result.Valid {
		s.metrics.RecordValidationFailure(result.Errors)
	}
	return result, nil
}

// Submit validates and delivers record in one call, without keeping a session.
func (s *inquiryService) Submit(ctx context.Context, record model.BookingRecord) (*model.SubmissionReceipt, error) {
	if err := s.checkFields(record); err != nil {
		return nil, err
	}

	submissionID := uuid.New().String()
	c := s.newController(submissionID)
	if err := c.Fill(s.sanitize(record)); err != nil {
		return nil, s.mapError(err, submissionID)
	}

	snap, err := c.Submit(ctx)
	if err != nil {
		return nil, s.submissionError(ChannelDirect, snap, err)
	}

	s.metrics.RecordSubmission(ChannelDirect, OutcomeSucceeded)
	s.cfg.Log.Info("Inquiry submitted",
		"submission_id", submissionID,
		"channel", ChannelDirect,
	)

	return &model.SubmissionReceipt{
		SubmissionID: submissionID,
		Outcome:      *snap.Outcome,
	}, nil
}

func (s *inquiryService) CreateForm(ctx context.Context, draft model.BookingRecord) (model.FormSnapshot, error) {
	if err := s.checkFields(draft); err != nil {
		return model.FormSnapshot{}, err
	}

	id := uuid.New().String()
	c := s.newController(id)
	if len(draft) > 0 {
		if err := c.Fill(s.sanitize(draft)); err != nil {
			return model.FormSnapshot{}, s.mapError(err, id)
		}
	}

	s.sessions.Save(c)
	s.metrics.SessionOpened()
	s.cfg.Log.Info("Form session created",
		"form_id", id,
		"prefilled_fields", len(draft),
	)

	return c.Snapshot(), nil
}

func (s *inquiryService) GetForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	c, err := s.find(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}
	return c.Snapshot(), nil
}

func (s *inquiryService) EditForm(ctx context.Context, id string, edits []model.FieldEdit) (model.FormSnapshot, error) {
	if len(edits) == 0 {
		return model.FormSnapshot{}, apperrors.InvalidInput("At least one field edit is required")
	}
	var unknown []string
	for _, edit := range edits {
		if _, ok := schema.Lookup(edit.Field); !ok {
			unknown = append(unknown, edit.Field)
		}
	}
	if len(unknown) > 0 {
		return model.FormSnapshot{}, unknownFieldsError(unknown)
	}

	c, err := s.find(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}

	for _, edit := range edits {
		def, _ := schema.Lookup(edit.Field)
		if err := c.Edit(edit.Field, sanitizer.SanitizeValue(def.Kind, edit.Value)); err != nil {
			return model.FormSnapshot{}, s.mapError(err, id)
		}
	}

	return c.Snapshot(), nil
}

func (s *inquiryService) SubmitForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	c, err := s.find(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}

	snap, err := c.Submit(ctx)
	if err != nil {
		return snap, s.submissionError(ChannelSession, snap, err)
	}

	s.metrics.RecordSubmission(ChannelSession, OutcomeSucceeded)
	s.cfg.Log.Info("Inquiry submitted",
		"form_id", id,
		"channel", ChannelSession,
	)
	return snap, nil
}

func (s *inquiryService) RetryForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	c, err := s.find(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}

	snap, err := c.Retry(ctx)
	if err != nil {
		return snap, s.submissionError(ChannelSession, snap, err)
	}

	s.metrics.RecordSubmission(ChannelSession, OutcomeSucceeded)
	s.cfg.Log.Info("Inquiry submitted on retry", "form_id", id)
	return snap, nil
}

func (s *inquiryService) DismissForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	c, err := s.find(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}
	if err := c.Dismiss(); err != nil {
		return model.FormSnapshot{}, s.mapError(err, id)
	}
	return c.Snapshot(), nil
}

func (s *inquiryService) ResetForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	c, err := s.find(id)
	if err != nil {
		return model.FormSnapshot{}, err
	}
	if err := c.Reset(); err != nil {
		return model.FormSnapshot{}, s.mapError(err, id)
	}
	return c.Snapshot(), nil
}

func (s *inquiryService) DeleteForm(ctx context.Context, id string) error {
	if err := s.sessions.Delete(id); err != nil {
		return s.mapError(err, id)
	}
	s.metrics.SessionsClosed(1)
	s.cfg.Log.Info("Form session deleted", "form_id", id)
	return nil
}

func (s *inquiryService) newController(id string) *form.Controller {
	return form.NewController(s.validator, s.transport, s.cfg.Log,
		form.WithID(id),
		form.WithSubmitTimeout(s.cfg.SubmitTimeout),
	)
}

func (s *inquiryService) find(id string) (*form.Controller, error) {
	c, err := s.sessions.FindByID(id)
	if err != nil {
		return nil, s.mapError(err, id)
	}
	return c, nil
}

func (s *inquiryService) sanitize(record model.BookingRecord) model.BookingRecord {
	return sanitizer.SanitizeRecord(record, s.defs)
}

func (s *inquiryService) checkFields(record model.BookingRecord) error {
	var unknown []string
	for field := range record {
		if _, ok := schema.Lookup(field); !ok {
			unknown = append(unknown, field)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return unknownFieldsError(unknown)
}

func unknownFieldsError(fields []string) error {
	return apperrors.InvalidInput("Inquiry contains unknown fields").WithDetails(map[string]any{
		"unknown_fields": fields,
	})
}

func (s *inquiryService) submissionError(channel string, snap model.FormSnapshot, err error) error {
	switch {
	case errors.Is(err, inqerrors.ErrFormInvalid):
		s.metrics.RecordSubmission(channel, OutcomeInvalid)
		s.metrics.RecordValidationFailure(snap.Errors)
		s.cfg.Log.Warn("Inquiry validation failed",
			"form_id", snap.ID,
			"channel", channel,
			"error_count", len(snap.Errors),
		)
		details := validator.FromResult(model.Invalid(snap.Errors)).Details()
		return apperrors.Validation("Inquiry validation failed", details)

	case errors.Is(err, inqerrors.ErrDeliveryFailed):
		s.metrics.RecordSubmission(channel, OutcomeFailed)
		reason := "The booking service could not accept the inquiry"
		if snap.Outcome != nil && snap.Outcome.Reason != "" {
			reason = snap.Outcome.Reason
		}
		s.cfg.Log.Error("Inquiry delivery failed",
			"form_id", snap.ID,
			"channel", channel,
			"error", err,
		)
		appErr := apperrors.Upstream(reason, err)
		if channel == ChannelSession {
			appErr = appErr.WithDetails(map[string]any{"form_id": snap.ID, "state": snap.State})
		}
		return appErr

	default:
		return s.mapError(err, snap.ID)
	}
}

func (s *inquiryService) mapError(err error, id string) error {
	switch {
	case errors.Is(err, inqerrors.ErrSessionNotFound):
		return apperrors.NotFoundWithID("Form session", id)
	case errors.Is(err, inqerrors.ErrInvalidSessionID):
		return apperrors.InvalidInput("Invalid form session ID format")
	case errors.Is(err, inqerrors.ErrUnknownField):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, inqerrors.ErrSubmissionInFlight):
		return apperrors.Conflict("A submission for this form is already in flight")
	case errors.Is(err, inqerrors.ErrNotEditing):
		return apperrors.Conflict("Form is not accepting edits until it is dismissed or reset")
	case errors.Is(err, inqerrors.ErrInvalidTransition):
		return apperrors.Conflict("Operation not allowed in the current form state")
	default:
		s.cfg.Log.Error("Unexpected form error",
			"form_id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to process form", err)
	}
}

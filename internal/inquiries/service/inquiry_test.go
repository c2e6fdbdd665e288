package service

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"bookingdesk/internal/inquiries/repository"
	"bookingdesk/internal/inquiries/validator"
	"bookingdesk/pkg/config"
	apperrors "bookingdesk/pkg/errors"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"
	"bookingdesk/pkg/model"

	"github.com/google/uuid"
)

var fixedNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

type fakeTransport struct {
	mu    sync.Mutex
	calls []model.BookingRecord
	err   error
}

func (f *fakeTransport) Deliver(_ context.Context, record model.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, record.Clone())
	return f.err
}

func (f *fakeTransport) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeTransport) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type reasonError struct{ reason string }

func (e *reasonError) Error() string  { return "collector returned 500" }
func (e *reasonError) Reason() string { return e.reason }

func validRecord() model.BookingRecord {
	return model.BookingRecord{
		model.FieldFirstName:          model.Text("  John "),
		model.FieldLastName:           model.Text("Smith"),
		model.FieldEmail:              model.Text("John@Company.com"),
		model.FieldPhone:              model.Text("+15551234567"),
		model.FieldCompany:            model.Text("Event   Company LLC"),
		model.FieldEventName:          model.Text("Summer Music Festival"),
		model.FieldRequestedArtist:    model.Text("Kid Rock"),
		model.FieldEventType:          model.Text("concert"),
		model.FieldEventDate:          model.Text("2026-07-04"),
		model.FieldEventTime:          model.Text("19:30"),
		model.FieldVenue:              model.Text("Madison Square Garden"),
		model.FieldCity:               model.Text("New York"),
		model.FieldState:              model.Text("NY"),
		model.FieldExpectedAttendance: model.Text("10000-25000"),
		model.FieldPerformanceType:    model.Text("full-concert"),
		model.FieldBudgetRange:        model.Text("500k-1m"),
		model.FieldTermsAgreement:     model.Flag(true),
	}
}

func newTestService(t *testing.T) (InquiryService, *fakeTransport, *repository.InMemorySessionRepository) {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	cfg := &config.Config{
		SubmitTimeout: time.Second,
		Log:           log,
	}
	v := validator.NewInquiryValidator(log, validator.WithClock(func() time.Time { return fixedNow }))
	transport := &fakeTransport{}
	sessions := repository.NewInMemorySessionRepository(time.Hour)
	t.Cleanup(sessions.Stop)

	return NewInquiryService(v, transport, sessions, metrics.New(), cfg), transport, sessions
}

func assertAppError(t *testing.T, err error, code string, status int) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T (%v)", err, err)
	}
	if appErr.Code != code || appErr.StatusCode() != status {
		t.Fatalf("got %s/%d, want %s/%d", appErr.Code, appErr.StatusCode(), code, status)
	}
	return appErr
}

func TestValidate(t *testing.T) {
	svc, _, _ := newTestService(t)

	result, err := svc.Validate(context.Background(), validRecord())
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected valid result, got errors %v", result.Errors)
	}
	if got := result.Record.Text(model.FieldFirstName); got != "John" {
		t.Errorf("firstName = %q, want sanitized %q", got, "John")
	}
	if got := result.Record.Text(model.FieldEmail); got != "john@company.com" {
		t.Errorf("email = %q", got)
	}

	record := validRecord()
	record[model.FieldTermsAgreement] = model.Flag(false)
	result, err = svc.Validate(context.Background(), record)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Valid || result.Errors[model.FieldTermsAgreement] == "" {
		t.Errorf("expected a terms error, got %+v", result)
	}
}

func TestValidate_UnknownFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	record := validRecord()
	record["favouriteColour"] = model.Text("blue")

	_, err := svc.Validate(context.Background(), record)
	appErr := assertAppError(t, err, apperrors.CodeInvalidInput, http.StatusBadRequest)
	fields, _ := appErr.Details["unknown_fields"].([]string)
	if len(fields) != 1 || fields[0] != "favouriteColour" {
		t.Errorf("unknown_fields = %v", appErr.Details["unknown_fields"])
	}
}

func TestSubmit(t *testing.T) {
	tests := []struct {
		name       string
		record     func() model.BookingRecord
		deliverErr error
		wantCode   string
		wantStatus int
		wantCalls  int
	}{
		{
			name:      "valid inquiry is delivered",
			record:    validRecord,
			wantCalls: 1,
		},
		{
			name: "invalid inquiry is rejected before delivery",
			record: func() model.BookingRecord {
				r := validRecord()
				r[model.FieldEmail] = model.Text("not-an-email")
				return r
			},
			wantCode:   apperrors.CodeValidation,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "collector failure maps to upstream error",
			record:     validRecord,
			deliverErr: &reasonError{reason: "The booking service is unavailable"},
			wantCode:   apperrors.CodeUpstream,
			wantStatus: http.StatusBadGateway,
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, transport, _ := newTestService(t)
			transport.setErr(tt.deliverErr)

			receipt, err := svc.Submit(context.Background(), tt.record())

			if transport.callCount() != tt.wantCalls {
				t.Errorf("transport calls = %d, want %d", transport.callCount(), tt.wantCalls)
			}
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Submit() error = %v", err)
				}
				if _, err := uuid.Parse(receipt.SubmissionID); err != nil {
					t.Errorf("submission id %q is not a UUID", receipt.SubmissionID)
				}
				if receipt.Outcome.Status != model.OutcomeSucceeded {
					t.Errorf("outcome = %s", receipt.Outcome.Status)
				}
				return
			}
			appErr := assertAppError(t, err, tt.wantCode, tt.wantStatus)
			if tt.wantCode == apperrors.CodeValidation && appErr.Details[model.FieldEmail] == nil {
				t.Errorf("expected email detail, got %v", appErr.Details)
			}
			if tt.wantCode == apperrors.CodeUpstream && appErr.Message != "The booking service is unavailable" {
				t.Errorf("message = %q", appErr.Message)
			}
		})
	}
}

func TestFormLifecycle(t *testing.T) {
	svc, transport, sessions := newTestService(t)
	ctx := context.Background()

	snap, err := svc.CreateForm(ctx, nil)
	if err != nil {
		t.Fatalf("CreateForm() error = %v", err)
	}
	if snap.State != model.StateEditing || sessions.Count() != 1 {
		t.Fatalf("unexpected new form %+v (sessions=%d)", snap, sessions.Count())
	}
	id := snap.ID

	var edits []model.FieldEdit
	for field, value := range validRecord() {
		edits = append(edits, model.FieldEdit{Field: field, Value: value})
	}
	// Edits are applied in order, so the attendance value must follow the
	// fields it depends on.
	edits = append(edits, model.FieldEdit{Field: model.FieldExpectedAttendance, Value: model.Text("10000-25000")})

	snap, err = svc.EditForm(ctx, id, edits)
	if err != nil {
		t.Fatalf("EditForm() error = %v", err)
	}
	if len(snap.Errors) != 0 {
		t.Fatalf("unexpected errors after edit: %v", snap.Errors)
	}
	if snap.Values.Text(model.FieldCompany) != "Event Company LLC" {
		t.Errorf("company = %q, want collapsed whitespace", snap.Values.Text(model.FieldCompany))
	}

	transport.setErr(&reasonError{reason: "Try again later"})
	snap, err = svc.SubmitForm(ctx, id)
	appErr := assertAppError(t, err, apperrors.CodeUpstream, http.StatusBadGateway)
	if appErr.Details["form_id"] != id {
		t.Errorf("details = %v", appErr.Details)
	}
	if snap.State != model.StateFailed {
		t.Errorf("state = %s, want failed", snap.State)
	}

	_, err = svc.EditForm(ctx, id, []model.FieldEdit{{Field: model.FieldCity, Value: model.Text("Boston")}})
	assertAppError(t, err, apperrors.CodeConflict, http.StatusConflict)

	transport.setErr(nil)
	snap, err = svc.RetryForm(ctx, id)
	if err != nil {
		t.Fatalf("RetryForm() error = %v", err)
	}
	if snap.State != model.StateSucceeded || snap.Values.Text(model.FieldFirstName) != "" {
		t.Errorf("after retry: state=%s firstName=%q", snap.State, snap.Values.Text(model.FieldFirstName))
	}
	if transport.callCount() != 2 {
		t.Errorf("transport calls = %d, want 2", transport.callCount())
	}

	_, err = svc.DismissForm(ctx, id)
	assertAppError(t, err, apperrors.CodeConflict, http.StatusConflict)

	snap, err = svc.ResetForm(ctx, id)
	if err != nil || snap.State != model.StateEditing {
		t.Fatalf("ResetForm() = %s, %v", snap.State, err)
	}

	if err := svc.DeleteForm(ctx, id); err != nil {
		t.Fatalf("DeleteForm() error = %v", err)
	}
	_, err = svc.GetForm(ctx, id)
	assertAppError(t, err, apperrors.CodeNotFound, http.StatusNotFound)
}

func TestSubmitForm_Invalid(t *testing.T) {
	svc, transport, _ := newTestService(t)
	ctx := context.Background()

	snap, err := svc.CreateForm(ctx, model.BookingRecord{model.FieldFirstName: model.Text("J")})
	if err != nil {
		t.Fatalf("CreateForm() error = %v", err)
	}
	if snap.Errors[model.FieldFirstName] == "" {
		t.Errorf("prefilled field should be validated, errors = %v", snap.Errors)
	}

	snap, err = svc.SubmitForm(ctx, snap.ID)
	appErr := assertAppError(t, err, apperrors.CodeValidation, http.StatusUnprocessableEntity)
	if _, ok := appErr.Details[model.FieldTermsAgreement]; !ok {
		t.Errorf("expected termsAgreement in details, got %v", appErr.Details)
	}
	if snap.State != model.StateEditing {
		t.Errorf("state = %s, want editing", snap.State)
	}
	if transport.callCount() != 0 {
		t.Error("invalid form must not reach the transport")
	}
}

func TestFormErrors(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		call       func() error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "malformed id",
			call:       func() error { _, err := svc.GetForm(ctx, "42"); return err },
			wantCode:   apperrors.CodeInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown id",
			call:       func() error { _, err := svc.SubmitForm(ctx, uuid.New().String()); return err },
			wantCode:   apperrors.CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "delete unknown id",
			call:       func() error { return svc.DeleteForm(ctx, uuid.New().String()) },
			wantCode:   apperrors.CodeNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "no edits",
			call:       func() error { _, err := svc.EditForm(ctx, uuid.New().String(), nil); return err },
			wantCode:   apperrors.CodeInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown edit field",
			call: func() error {
				_, err := svc.EditForm(ctx, uuid.New().String(), []model.FieldEdit{{Field: "nickname", Value: model.Text("x")}})
				return err
			},
			wantCode:   apperrors.CodeInvalidInput,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "retry while editing",
			call: func() error {
				snap, err := svc.CreateForm(ctx, nil)
				if err != nil {
					return err
				}
				_, err = svc.RetryForm(ctx, snap.ID)
				return err
			},
			wantCode:   apperrors.CodeConflict,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAppError(t, tt.call(), tt.wantCode, tt.wantStatus)
		})
	}
}

func TestAttendanceOptions(t *testing.T) {
	svc, _, _ := newTestService(t)

	set := svc.AttendanceOptions("vip", "")
	if !set.Contains("5-10") {
		t.Errorf("VIP catalog should contain 5-10, got %+v", set)
	}
	if len(svc.Schema()) != 25 {
		t.Errorf("Schema() returned %d fields, want 25", len(svc.Schema()))
	}
}

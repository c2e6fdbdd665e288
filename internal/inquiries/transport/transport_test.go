package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bookingdesk/pkg/client"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/middleware"
	"bookingdesk/pkg/model"
)

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Output:  io.Discard,
		Service: "test",
	})
}

func sampleRecord() model.BookingRecord {
	return model.BookingRecord{
		model.FieldFirstName:          model.Text("John"),
		model.FieldLastName:           model.Text("Smith"),
		model.FieldEmail:              model.Text("john@company.com"),
		model.FieldEventType:          model.Text("vip"),
		model.FieldExpectedAttendance: model.Text("5-10"),
		model.FieldAdditionalServices: model.Set("soundcheck", "photos"),
		model.FieldSpecialRequests:    model.Text("Green room & catering"),
		model.FieldTermsAgreement:     model.Flag(true),
	}
}

func TestEncode(t *testing.T) {
	body := Encode(sampleRecord(), "celebrity-booking", "bot-field")

	values, err := url.ParseQuery(body)
	if err != nil {
		t.Fatalf("encoded body does not parse: %v", err)
	}

	if values.Get("form-name") != "celebrity-booking" {
		t.Errorf("form-name = %q", values.Get("form-name"))
	}
	if got := values["additionalServices"]; len(got) != 2 || got[0] != "soundcheck" || got[1] != "photos" {
		t.Errorf("additionalServices = %v", got)
	}
	if values.Get("termsAgreement") != "true" {
		t.Errorf("termsAgreement = %q", values.Get("termsAgreement"))
	}
	if values.Get("specialRequests") != "Green room & catering" {
		t.Errorf("specialRequests = %q", values.Get("specialRequests"))
	}
	if v, ok := values["bot-field"]; !ok || v[0] != "" {
		t.Errorf("expected empty honeypot, got %v", v)
	}
	if _, ok := values["budgetIncludes"]; ok {
		t.Error("empty multi-select must not produce a key")
	}
	if _, ok := values["title"]; !ok {
		t.Error("empty text fields must still be sent")
	}

	if !strings.HasPrefix(body, "form-name=") || !strings.HasSuffix(body, "bot-field=") {
		t.Errorf("unexpected key order: %s", body)
	}
	if strings.Index(body, "firstName=") > strings.Index(body, "termsAgreement=") {
		t.Error("fields must follow form order")
	}
}

func TestEncode_FalseFlag(t *testing.T) {
	record := sampleRecord()
	record[model.FieldTermsAgreement] = model.Flag(false)

	values, _ := url.ParseQuery(Encode(record, "f", "h"))
	if values.Get("termsAgreement") != "false" {
		t.Errorf("termsAgreement = %q", values.Get("termsAgreement"))
	}
}

func TestFormTransport_Deliver(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    bool
		wantStatus int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "accepted", status: http.StatusAccepted},
		{name: "not found", status: http.StatusNotFound, wantErr: true, wantStatus: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotContentType string
			var gotForm url.Values
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotContentType = r.Header.Get("Content-Type")
				_ = r.ParseForm()
				gotForm = r.PostForm
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			tr := NewFormTransport(client.NewHttpClient(server.URL), Config{}, newTestLogger())
			err := tr.Deliver(context.Background(), sampleRecord())

			if gotPath != DefaultFormPath {
				t.Errorf("path = %q, want %q", gotPath, DefaultFormPath)
			}
			if gotContentType != client.ContentTypeForm {
				t.Errorf("content type = %q", gotContentType)
			}
			if gotForm.Get("form-name") != DefaultFormName || gotForm.Get("email") != "john@company.com" {
				t.Errorf("unexpected form %v", gotForm)
			}

			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var de *DeliveryError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DeliveryError, got %v", err)
			}
			if de.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", de.StatusCode, tt.wantStatus)
			}
			if de.Reason() == "" {
				t.Error("expected a human readable reason")
			}
		})
	}
}

func TestFormTransport_SignsBody(t *testing.T) {
	const secret = "collector-secret"

	var signature, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature = r.Header.Get(middleware.FormSignatureHeader)
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	tr := NewFormTransport(client.NewHttpClient(server.URL), Config{SigningSecret: secret}, newTestLogger())
	if err := tr.Deliver(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Deliver() error: %v", err)
	}

	if signature != middleware.SignPayload(secret, []byte(body)) {
		t.Errorf("signature %q does not match body", signature)
	}
}

func TestFormTransport_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	tr := NewFormTransport(client.NewHttpClient(baseURL), Config{}, newTestLogger())
	err := tr.Deliver(context.Background(), sampleRecord())

	var de *DeliveryError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DeliveryError, got %v", err)
	}
	if de.Err == nil || de.StatusCode != 0 {
		t.Errorf("expected network error, got %+v", de)
	}
}

func TestFormTransport_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	tr := NewFormTransport(client.NewHttpClient(server.URL), Config{}, newTestLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := tr.Deliver(ctx, sampleRecord())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}

	var de *DeliveryError
	if errors.As(err, &de) && !strings.Contains(de.Reason(), "in time") {
		t.Errorf("unexpected reason %q", de.Reason())
	}
}

func TestDeliveryError_Reason(t *testing.T) {
	tests := []struct {
		name string
		err  *DeliveryError
		want string
	}{
		{name: "rate limited", err: &DeliveryError{StatusCode: http.StatusTooManyRequests}, want: "Too many submissions"},
		{name: "server", err: &DeliveryError{StatusCode: http.StatusBadGateway}, want: "status 502"},
		{name: "client", err: &DeliveryError{StatusCode: http.StatusNotFound}, want: "rejected"},
		{name: "network", err: &DeliveryError{Err: errors.New("dial tcp: refused")}, want: "could not reach"},
		{name: "network error text", err: &DeliveryError{Err: errors.New("dial tcp 127.0.0.1:8081: connect: connection refused")}, want: "connection refused"},
		{name: "deadline", err: &DeliveryError{Err: context.DeadlineExceeded}, want: "did not respond in time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Reason(); !strings.Contains(got, tt.want) {
				t.Errorf("Reason() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

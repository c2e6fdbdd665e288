package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"bookingdesk/internal/formsink/service"
	"bookingdesk/pkg/config"
	apperrors "bookingdesk/pkg/errors"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

const formPath = "/__forms.html"

func newTestRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	log := logger.New(logger.Config{Level: "error", Output: io.Discard})
	cfg := &config.Config{
		FormName:      "celebrity-booking",
		HoneypotField: "bot-field",
		Log:           log,
	}
	svc := service.NewSinkService(cfg, metrics.New(metrics.WithRegistry(prometheus.NewRegistry())))

	router := httprouter.New()
	NewSinkHandler(svc, formPath, log).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSinkHandler(t *testing.T) {
	valid := url.Values{"form-name": {"celebrity-booking"}, "firstName": {"John"}, "bot-field": {""}}.Encode()

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		wantStatus  int
		wantMessage bool
		wantCode    string
	}{
		{
			name:        "form post accepted",
			method:      http.MethodPost,
			path:        formPath,
			contentType: "application/x-www-form-urlencoded",
			body:        valid,
			wantStatus:  http.StatusOK,
			wantMessage: true,
		},
		{
			name:        "honeypot still answers success",
			method:      http.MethodPost,
			path:        formPath,
			contentType: "application/x-www-form-urlencoded",
			body:        "form-name=celebrity-booking&bot-field=spam",
			wantStatus:  http.StatusOK,
			wantMessage: true,
		},
		{
			name:        "unknown form",
			method:      http.MethodPost,
			path:        formPath,
			contentType: "application/x-www-form-urlencoded",
			body:        "form-name=other",
			wantStatus:  http.StatusNotFound,
			wantCode:    apperrors.CodeNotFound,
		},
		{
			name:       "GET on form path",
			method:     http.MethodGet,
			path:       formPath,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   apperrors.CodeMethodNotAllowed,
		},
		{
			name:        "function accepts JSON",
			method:      http.MethodPost,
			path:        FunctionPath,
			contentType: "application/json",
			body:        `{"firstName":"John","email":"john@company.com"}`,
			wantStatus:  http.StatusOK,
			wantMessage: true,
		},
		{
			name:        "function rejects malformed JSON",
			method:      http.MethodPost,
			path:        FunctionPath,
			contentType: "application/json",
			body:        `{"firstName":`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperrors.CodeInvalidInput,
		},
		{
			name:       "PUT on function path",
			method:     http.MethodPut,
			path:       FunctionPath,
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   apperrors.CodeMethodNotAllowed,
		},
	}

	router := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.method, tt.path, tt.contentType, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			if tt.wantMessage {
				var body map[string]string
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body["message"] != "Form submission processed successfully!" {
					t.Errorf("message = %q", body["message"])
				}
			}

			if tt.wantCode != "" {
				var body apperrors.ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body.Code != tt.wantCode {
					t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestSinkHandler_MethodNotAllowedSetsAllow(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodDelete, formPath, "", "")
	if got := rec.Header().Get("Allow"); !strings.Contains(got, http.MethodPost) {
		t.Errorf("Allow = %q, want it to list POST", got)
	}
}

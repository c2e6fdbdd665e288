package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookingdesk/pkg/config"
	"bookingdesk/pkg/health"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/metrics"
	"bookingdesk/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

type echoHandler struct{}

func (echoHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/echo", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1024,
		ShutdownTimeout:   time.Second,
		Log:               logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
}

func newTestApp(t *testing.T, checks map[string]health.Check, opts ...Option) (*Application, *httptest.Server) {
	t.Helper()
	cfg := testConfig()
	m := metrics.New(metrics.WithRegistry(prometheus.NewRegistry()))
	hh := health.NewHealthHandler(cfg.Log, m.Handler(), checks)

	a := NewApplication()
	a.SetApp(cfg, echoHandler{}, hh, append([]Option{WithMetrics(m)}, opts...)...)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		srv.Close()
		a.Shutdown()
	})
	return a, srv
}

func post(t *testing.T, url, contentType, body string, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestApplication_HealthRoutes(t *testing.T) {
	failing := map[string]health.Check{
		"collector": func(context.Context) error { return errors.New("down") },
	}
	_, srv := newTestApp(t, failing)

	tests := []struct {
		path string
		want int
	}{
		{path: "/health", want: http.StatusOK},
		{path: "/ready", want: http.StatusServiceUnavailable},
		{path: "/metrics", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestApplication_MiddlewareStack(t *testing.T) {
	_, srv := newTestApp(t, nil)

	resp := post(t, srv.URL+"/echo", "text/plain", "hi", nil)
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("text/plain status = %d, want 415", resp.StatusCode)
	}

	for i := 0; i < 2; i++ {
		resp = post(t, srv.URL+"/echo", "application/json", `{}`, nil)
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("json POST %d status = %d, want 201", i+1, resp.StatusCode)
		}
	}
	resp = post(t, srv.URL+"/echo", "application/json", `{}`, nil)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("third POST status = %d, want 429", resp.StatusCode)
	}
}

func TestApplication_FormSignature(t *testing.T) {
	const secret = "s3cret"
	_, srv := newTestApp(t, nil,
		WithContentTypes(middleware.MediaTypeForm),
		WithFormSignature(secret),
	)

	body := "form-name=celebrity-booking"
	resp := post(t, srv.URL+"/echo", middleware.MediaTypeForm, body, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unsigned status = %d, want 401", resp.StatusCode)
	}

	resp = post(t, srv.URL+"/echo", middleware.MediaTypeForm, body, map[string]string{
		middleware.FormSignatureHeader: middleware.SignPayload(secret, []byte(body)),
	})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("signed status = %d, want 201", resp.StatusCode)
	}
}

func TestApplication_ShutdownHooksRunInReverse(t *testing.T) {
	var order []string
	hook := func(name string) Option {
		return WithShutdownHook(name, func(context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	cfg := testConfig()
	a := NewApplication()
	a.SetApp(cfg, echoHandler{}, health.NewHealthHandler(cfg.Log, nil, nil), hook("producer"), hook("sessions"))
	a.Shutdown()

	if strings.Join(order, ",") != "sessions,producer" {
		t.Errorf("hook order = %v", order)
	}
}

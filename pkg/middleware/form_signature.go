package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	apperrors "bookingdesk/pkg/errors"
	"bookingdesk/pkg/logger"
)

const (
	FormSignatureHeader = "X-Form-Signature"
	signaturePrefix     = "sha256="
)

// SignPayload returns the header value a sender attaches to body.
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// FormSignatureVerification rejects POST bodies that are not signed with
// secret. Requests with other methods pass through untouched.
func FormSignatureVerification(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			signature := r.Header.Get(FormSignatureHeader)
			if signature == "" {
				rejectSignature(w, log, r, "Missing "+FormSignatureHeader+" header")
				return
			}

			body, err := readAndRestoreBody(r)
			if err != nil {
				rejectSignature(w, log, r, "Failed to read request body")
				return
			}

			if !verifySignature(body, signature, secret) {
				rejectSignature(w, log, r, "Invalid form signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func readAndRestoreBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}

func verifySignature(body []byte, received, secret string) bool {
	if !strings.HasPrefix(received, signaturePrefix) {
		received = signaturePrefix + received
	}
	return hmac.Equal([]byte(SignPayload(secret, body)), []byte(received))
}

func rejectSignature(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.Warn("Form signature verification failed",
		"request_id", RequestID(r.Context()),
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	_ = apperrors.WriteError(w, apperrors.Unauthorized("Unauthorized"))
}

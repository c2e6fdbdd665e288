package middleware

import (
	"fmt"
	"mime"
	"net/http"
	"slices"
	"strings"

	apperrors "bookingdesk/pkg/errors"
	"bookingdesk/pkg/logger"
)

const (
	MediaTypeJSON = "application/json"
	MediaTypeForm = "application/x-www-form-urlencoded"
)

// ContentTypeValidation rejects bodies whose media type is not listed in
// allowed. With no list only JSON is accepted.
func ContentTypeValidation(log *logger.Logger, allowed ...string) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		allowed = []string{MediaTypeJSON}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))
				if !slices.Contains(allowed, contentType) {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestID(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					_ = apperrors.WriteError(w, apperrors.New(
						"UNSUPPORTED_MEDIA_TYPE",
						fmt.Sprintf("Content-Type must be one of: %s", strings.Join(allowed, ", ")),
						http.StatusUnsupportedMediaType,
					))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Bodiless action requests such as POST .../submit carry no Content-Type.
func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.TrimSpace(strings.Split(header, ";")[0])
	}
	return mediaType
}

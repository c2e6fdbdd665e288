package handler

import (
	"encoding/json"
	"net/http"

	"bookingdesk/internal/formsink/service"
	apperrors "bookingdesk/pkg/errors"
	httputil "bookingdesk/pkg/http"
	"bookingdesk/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

const FunctionPath = "/.netlify/functions/handle-form-submission"

type SinkHandler struct {
	service  service.SinkService
	formPath string
	log      *logger.Logger
}

func NewSinkHandler(service service.SinkService, formPath string, log *logger.Logger) *SinkHandler {
	return &SinkHandler{
		service:  service,
		formPath: formPath,
		log:      log,
	}
}

func (h *SinkHandler) Form(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, "Form", apperrors.InvalidInput("Malformed form body"))
		return
	}

	receipt, err := h.service.ReceiveForm(r.Context(), r.PostForm)
	if err != nil {
		h.writeError(w, "Form", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, receipt); err != nil {
		h.log.Error("failed to write response", "handler", "Form", "operation", "WriteJSON", "error", err)
	}
}

func (h *SinkHandler) Function(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.writeError(w, "Function", apperrors.InvalidInput("Invalid JSON body"))
		return
	}

	receipt, err := h.service.ReceiveJSON(r.Context(), payload)
	if err != nil {
		h.writeError(w, "Function", err)
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, receipt); err != nil {
		h.log.Error("failed to write response", "handler", "Function", "operation", "WriteJSON", "error", err)
	}
}

func (h *SinkHandler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, "MethodNotAllowed", apperrors.MethodNotAllowed(r.Method))
}

func (h *SinkHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SinkHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST(h.formPath, h.Form)
	router.POST(FunctionPath, h.Function)

	router.HandleMethodNotAllowed = true
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"bookingdesk/internal/inquiries/service"
	apperrors "bookingdesk/pkg/errors"
	httputil "bookingdesk/pkg/http"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FieldEditsRequest struct {
	Edits []model.FieldEdit `json:"edits"`
}

type InquiryHandler struct {
	service service.InquiryService
	log     *logger.Logger
}

func NewInquiryHandler(service service.InquiryService, log *logger.Logger) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		log:     log,
	}
}

func (h *InquiryHandler) Schema(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteSuccess(w, h.service.Schema()); err != nil {
		h.log.Error("failed to write success response", "handler", "Schema", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InquiryHandler) AttendanceOptions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	options := h.service.AttendanceOptions(query.Get("event_type"), query.Get("performance_type"))

	if err := httputil.WriteSuccess(w, options); err != nil {
		h.log.Error("failed to write success response", "handler", "AttendanceOptions", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InquiryHandler) Validate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	record, ok := h.decodeRecord(w, r, "Validate", false)
	if !ok {
		return
	}

	result, err := h.service.Validate(r.Context(), record)
	if err != nil {
		h.writeError(w, "Validate", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Validate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *InquiryHandler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	record, ok := h.decodeRecord(w, r, "Submit", false)
	if !ok {
		return
	}

	receipt, err := h.service.Submit(r.Context(), record)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, receipt); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *InquiryHandler) CreateForm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	draft, ok := h.decodeRecord(w, r, "CreateForm", true)
	if !ok {
		return
	}

	snap, err := h.service.CreateForm(r.Context(), draft)
	if err != nil {
		h.writeError(w, "CreateForm", err)
		return
	}

	w.Header().Set("Location", "/api/v1/forms/id/"+snap.ID)
	if err := httputil.WriteCreated(w, snap); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateForm", "operation", "WriteCreated", "error", err)
	}
}

func (h *InquiryHandler) GetForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.GetForm(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "GetForm", snap, err)
}

func (h *InquiryHandler) EditForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req FieldEditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "EditForm", apperrors.InvalidInput(fmt.Sprintf("Invalid request body: %v", err)))
		return
	}

	snap, err := h.service.EditForm(r.Context(), ps.ByName("id"), req.Edits)
	h.writeSnapshot(w, "EditForm", snap, err)
}

func (h *InquiryHandler) SubmitForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.SubmitForm(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "SubmitForm", snap, err)
}

func (h *InquiryHandler) RetryForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.RetryForm(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "RetryForm", snap, err)
}

func (h *InquiryHandler) DismissForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.DismissForm(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "DismissForm", snap, err)
}

func (h *InquiryHandler) ResetForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snap, err := h.service.ResetForm(r.Context(), ps.ByName("id"))
	h.writeSnapshot(w, "ResetForm", snap, err)
}

func (h *InquiryHandler) DeleteForm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteForm(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteForm", err)
		return
	}

	httputil.WriteNoContent(w)
}

// decodeRecord reads a JSON object of field values. With allowEmpty an
// absent body yields a nil record.
func (h *InquiryHandler) decodeRecord(w http.ResponseWriter, r *http.Request, name string, allowEmpty bool) (model.BookingRecord, bool) {
	var record model.BookingRecord
	err := json.NewDecoder(r.Body).Decode(&record)
	switch {
	case err == nil:
		return record, true
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil, true
	case errors.Is(err, io.EOF):
		h.writeError(w, name, apperrors.InvalidInput("Request body is required"))
	default:
		h.writeError(w, name, apperrors.InvalidInput(fmt.Sprintf("Invalid request body: %v", err)))
	}
	return nil, false
}

func (h *InquiryHandler) writeSnapshot(w http.ResponseWriter, name string, snap model.FormSnapshot, err error) {
	if err != nil {
		h.writeError(w, name, err)
		return
	}
	if err := httputil.WriteSuccess(w, snap); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *InquiryHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *InquiryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/inquiries/schema", h.Schema)
	router.GET("/api/v1/inquiries/attendance-options", h.AttendanceOptions)
	router.POST("/api/v1/inquiries/validate", h.Validate)
	router.POST("/api/v1/inquiries", h.Submit)

	router.POST("/api/v1/forms", h.CreateForm)
	router.GET("/api/v1/forms/id/:id", h.GetForm)
	router.DELETE("/api/v1/forms/id/:id", h.DeleteForm)
	router.PATCH("/api/v1/forms/id/:id/fields", h.EditForm)
	router.POST("/api/v1/forms/id/:id/submit", h.SubmitForm)
	router.POST("/api/v1/forms/id/:id/retry", h.RetryForm)
	router.POST("/api/v1/forms/id/:id/dismiss", h.DismissForm)
	router.POST("/api/v1/forms/id/:id/reset", h.ResetForm)
}

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bookingdesk/pkg/model"
)

const IdempotencyKeyHeader = "Idempotency-Key"

// APIError is a non-2xx answer from the inquiry API.
type APIError struct {
	StatusCode int
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inquiry api returned %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// InquiryClient is a typed client for the inquiry API.
type InquiryClient struct {
	http *HttpClient
}

func NewInquiryClient(baseURL string) *InquiryClient {
	return &InquiryClient{http: NewHttpClient(baseURL)}
}

func (c *InquiryClient) Schema(ctx context.Context) ([]model.FieldDefinition, error) {
	resp, err := c.http.GET(ctx, "/api/v1/inquiries/schema")
	return decodeData[[]model.FieldDefinition](resp, err)
}

func (c *InquiryClient) AttendanceOptions(ctx context.Context, eventType, performanceType string) (model.AttendanceOptionSet, error) {
	query := url.Values{}
	query.Set("event_type", eventType)
	query.Set("performance_type", performanceType)

	resp, err := c.http.GET(ctx, "/api/v1/inquiries/attendance-options?"+query.Encode())
	return decodeData[model.AttendanceOptionSet](resp, err)
}

func (c *InquiryClient) Validate(ctx context.Context, record model.BookingRecord) (model.ValidationResult, error) {
	resp, err := c.http.POST(ctx, "/api/v1/inquiries/validate", record)
	return decodeData[model.ValidationResult](resp, err)
}

// Submit sends record in one shot. A non-empty idempotencyKey makes retries
// of the same call replay the first answer.
func (c *InquiryClient) Submit(ctx context.Context, record model.BookingRecord, idempotencyKey string) (*model.SubmissionReceipt, error) {
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers[IdempotencyKeyHeader] = idempotencyKey
	}

	resp, err := c.http.POSTWithHeaders(ctx, "/api/v1/inquiries", record, headers)
	receipt, err := decodeData[model.SubmissionReceipt](resp, err)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (c *InquiryClient) CreateForm(ctx context.Context, draft model.BookingRecord) (model.FormSnapshot, error) {
	var body any
	if draft != nil {
		body = draft
	}
	resp, err := c.http.POST(ctx, "/api/v1/forms", body)
	return decodeData[model.FormSnapshot](resp, err)
}

func (c *InquiryClient) GetForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	resp, err := c.http.GET(ctx, formPath(id, ""))
	return decodeData[model.FormSnapshot](resp, err)
}

func (c *InquiryClient) EditForm(ctx context.Context, id string, edits ...model.FieldEdit) (model.FormSnapshot, error) {
	resp, err := c.http.PATCH(ctx, formPath(id, "/fields"), map[string]any{"edits": edits})
	return decodeData[model.FormSnapshot](resp, err)
}

func (c *InquiryClient) SubmitForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	return c.formAction(ctx, id, "submit")
}

func (c *InquiryClient) RetryForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	return c.formAction(ctx, id, "retry")
}

func (c *InquiryClient) DismissForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	return c.formAction(ctx, id, "dismiss")
}

func (c *InquiryClient) ResetForm(ctx context.Context, id string) (model.FormSnapshot, error) {
	return c.formAction(ctx, id, "reset")
}

func (c *InquiryClient) DeleteForm(ctx context.Context, id string) error {
	resp, err := c.http.DELETE(ctx, formPath(id, ""))
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return apiError(resp)
	}
	return nil
}

func (c *InquiryClient) formAction(ctx context.Context, id, action string) (model.FormSnapshot, error) {
	resp, err := c.http.POST(ctx, formPath(id, "/"+action), nil)
	return decodeData[model.FormSnapshot](resp, err)
}

func formPath(id, suffix string) string {
	return "/api/v1/forms/id/" + url.PathEscape(id) + suffix
}

func decodeData[T any](resp *Response, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if !resp.IsSuccess() {
		return zero, apiError(resp)
	}

	var envelope struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	return envelope.Data, nil
}

func apiError(resp *Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := resp.DecodeJSON(apiErr); err != nil || apiErr.Code == "" {
		apiErr.Message = GetErrorMessage(resp)
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
	}
	return apiErr
}

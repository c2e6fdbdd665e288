package errors

import "errors"

var (
	ErrSessionNotFound = errors.New("form session not found")

	ErrInvalidSessionID = errors.New("invalid form session ID format")

	ErrUnknownField = errors.New("unknown form field")

	ErrNotEditing = errors.New("form is not accepting edits")

	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	ErrInvalidTransition = errors.New("operation not allowed in the current form state")

	ErrFormInvalid = errors.New("form contains invalid fields")

	ErrDeliveryFailed = errors.New("form collector did not accept the submission")
)

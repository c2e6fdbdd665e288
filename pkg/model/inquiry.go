package model

import "maps"

const (
	FieldFirstName             = "firstName"
	FieldLastName              = "lastName"
	FieldEmail                 = "email"
	FieldPhone                 = "phone"
	FieldCompany               = "company"
	FieldTitle                 = "title"
	FieldEventName             = "eventName"
	FieldRequestedArtist       = "requestedArtist"
	FieldEventType             = "eventType"
	FieldEventDate             = "eventDate"
	FieldEventTime             = "eventTime"
	FieldVenue                 = "venue"
	FieldCity                  = "city"
	FieldState                 = "state"
	FieldExpectedAttendance    = "expectedAttendance"
	FieldPerformanceType       = "performanceType"
	FieldAdditionalServices    = "additionalServices"
	FieldTechnicalRequirements = "technicalRequirements"
	FieldBudgetRange           = "budgetRange"
	FieldBudgetNotes           = "budgetNotes"
	FieldBudgetIncludes        = "budgetIncludes"
	FieldEventDescription      = "eventDescription"
	FieldSpecialRequests       = "specialRequests"
	FieldBookingTimeline       = "bookingTimeline"
	FieldTermsAgreement        = "termsAgreement"
)

// BookingRecord is one inquiry keyed by field name.
type BookingRecord map[string]Value

func (r BookingRecord) Clone() BookingRecord {
	if r == nil {
		return BookingRecord{}
	}
	return maps.Clone(r)
}

func (r BookingRecord) Text(field string) string {
	return r[field].String()
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Record BookingRecord     `json:"record,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func Valid(record BookingRecord) ValidationResult {
	return ValidationResult{Valid: true, Record: record.Clone()}
}

func Invalid(errs map[string]string) ValidationResult {
	return ValidationResult{Valid: false, Errors: maps.Clone(errs)}
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type AttendanceOptionSet struct {
	Catalog string   `json:"catalog"`
	Options []Option `json:"options"`
}

func (s AttendanceOptionSet) Contains(value string) bool {
	for _, o := range s.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

type OutcomeStatus string

const (
	OutcomePending   OutcomeStatus = "pending"
	OutcomeSucceeded OutcomeStatus = "succeeded"
	OutcomeFailed    OutcomeStatus = "failed"
)

type SubmissionOutcome struct {
	Status OutcomeStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

type FormState string

const (
	StateEditing    FormState = "editing"
	StateSubmitting FormState = "submitting"
	StateSucceeded  FormState = "succeeded"
	StateFailed     FormState = "failed"
)

type FormSnapshot struct {
	ID                string              `json:"id,omitempty"`
	State             FormState           `json:"state"`
	Values            BookingRecord       `json:"values"`
	Touched           []string            `json:"touched"`
	Errors            map[string]string   `json:"errors"`
	Outcome           *SubmissionOutcome  `json:"outcome,omitempty"`
	AttendanceOptions AttendanceOptionSet `json:"attendance_options"`
}

type FieldEdit struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type SubmissionReceipt struct {
	SubmissionID string            `json:"submission_id"`
	Outcome      SubmissionOutcome `json:"outcome"`
}

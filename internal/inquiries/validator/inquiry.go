package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	inqerrors "bookingdesk/internal/inquiries/errors"
	"bookingdesk/internal/inquiries/resolver"
	"bookingdesk/internal/inquiries/schema"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/model"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var (
	phoneRegex = regexp.MustCompile(`^[+]?[1-9][\d]{0,15}$`)
	clockRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

func (v ValidationErrors) Details() map[string]any {
	details := make(map[string]any, len(v))
	for _, err := range v {
		details[err.Field] = err.Message
	}
	return details
}

// FromResult lists the errors of an invalid result in form order.
func FromResult(result model.ValidationResult) ValidationErrors {
	if result.Valid {
		return nil
	}
	var out ValidationErrors
	for _, name := range schema.Names() {
		if msg, ok := result.Errors[name]; ok {
			out = append(out, ValidationError{Field: name, Message: msg})
		}
	}
	return out
}

type Option func(*InquiryValidator)

// WithClock fixes the reference time used by the event date rule.
func WithClock(now func() time.Time) Option {
	return func(v *InquiryValidator) {
		v.now = now
	}
}

type InquiryValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
	defs     []model.FieldDefinition
	tags     map[string]string
	now      func() time.Time
}

func NewInquiryValidator(log *logger.Logger, opts ...Option) *InquiryValidator {
	iv := &InquiryValidator{
		validate: validator.New(),
		logger:   log,
		defs:     schema.Definitions(),
		tags:     make(map[string]string),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(iv)
	}

	rules := map[string]validator.Func{
		"intlphone":   validateIntlPhone,
		"clock24":     validateClock24,
		"accepted":    validateAccepted,
		"future_date": iv.validateFutureDate,
	}
	for tag, fn := range rules {
		if err := iv.validate.RegisterValidation(tag, fn); err != nil {
			log.Fatal("Failed to register validator", "tag", tag, "error", err)
		}
	}

	for _, d := range iv.defs {
		iv.tags[d.Name] = buildTag(d)
	}

	log.Info("Inquiry validator initialized successfully", "fields", len(iv.defs))

	return iv
}

func validateIntlPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func validateClock24(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func validateAccepted(fl validator.FieldLevel) bool {
	return fl.Field().Bool()
}

// The date picker never offers today or earlier, so neither does the API.
func (v *InquiryValidator) validateFutureDate(fl validator.FieldLevel) bool {
	now := v.now()
	date, err := time.ParseInLocation(dateLayout, fl.Field().String(), now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return date.After(today)
}

func buildTag(d model.FieldDefinition) string {
	if d.Kind == model.FieldKindBoolean {
		if d.Required {
			return "accepted"
		}
		return ""
	}

	var parts []string
	if d.Required {
		parts = append(parts, "required")
	} else {
		parts = append(parts, "omitempty")
	}

	var lengths []string
	if d.MinLen > 0 {
		lengths = append(lengths, "min="+strconv.Itoa(d.MinLen))
	}
	if d.MaxLen > 0 {
		lengths = append(lengths, "max="+strconv.Itoa(d.MaxLen))
	}

	// A short phone number reports its length before its format.
	switch d.Kind {
	case model.FieldKindEmail:
		parts = append(parts, "email")
	case model.FieldKindPhone:
		parts = append(parts, lengths...)
		lengths = nil
		parts = append(parts, "intlphone")
	case model.FieldKindDate:
		parts = append(parts, "datetime="+dateLayout, "future_date")
	case model.FieldKindTime:
		parts = append(parts, "clock24")
	}
	parts = append(parts, lengths...)

	if len(d.Options) > 0 {
		values := make([]string, len(d.Options))
		for i, o := range d.Options {
			values[i] = o.Value
		}
		if d.Kind == model.FieldKindMultiSelect {
			parts = append(parts, "dive")
		}
		parts = append(parts, "oneof="+strings.Join(values, " "))
	}

	return strings.Join(parts, ",")
}

// Validate checks every field independently and reports all violations.
func (v *InquiryValidator) Validate(record model.BookingRecord) model.ValidationResult {
	errs := make(map[string]string)
	accepted := make(model.BookingRecord, len(v.defs))

	for _, d := range v.defs {
		value := valueOf(record, d)
		accepted[d.Name] = value
		if msg := v.check(record, d, value); msg != "" {
			errs[d.Name] = msg
		}
	}

	if len(errs) > 0 {
		v.logger.Debug("Inquiry validation failed", "error_count", len(errs))
		return model.Invalid(errs)
	}
	return model.Valid(accepted)
}

// ValidateField returns the error message for a single field, or "" when it is valid.
func (v *InquiryValidator) ValidateField(record model.BookingRecord, field string) (string, error) {
	for _, d := range v.defs {
		if d.Name == field {
			return v.check(record, d, valueOf(record, d)), nil
		}
	}
	return "", fmt.Errorf("%w: %s", inqerrors.ErrUnknownField, field)
}

func valueOf(record model.BookingRecord, d model.FieldDefinition) model.Value {
	value, ok := record[d.Name]
	if !ok || value.Kind() == model.KindUnset {
		return d.ZeroValue()
	}
	return value
}

func (v *InquiryValidator) check(record model.BookingRecord, d model.FieldDefinition, value model.Value) string {
	if !kindMatches(d.Kind, value.Kind()) {
		return fmt.Sprintf("%s has an unexpected value type", d.Label)
	}

	var field any
	switch d.Kind {
	case model.FieldKindMultiSelect:
		field = value.Items()
	case model.FieldKindBoolean:
		field = value.Bool()
	default:
		field = value.String()
	}

	if err := v.validate.Var(field, v.tags[d.Name]); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return v.translate(d, validationErrs[0])
		}
		v.logger.Error("Unexpected validator failure", "field", d.Name, "error", err)
		return fmt.Sprintf("%s is invalid", d.Label)
	}

	return v.validateBusinessRules(record, d, value)
}

func (v *InquiryValidator) validateBusinessRules(record model.BookingRecord, d model.FieldDefinition, value model.Value) string {
	if d.Name == model.FieldExpectedAttendance {
		if !resolver.ResolveFor(record).Contains(value.String()) {
			return message(d, "oneof", "Please select a valid attendance range")
		}
	}
	return ""
}

func kindMatches(kind model.FieldKind, got model.ValueKind) bool {
	switch kind {
	case model.FieldKindMultiSelect:
		return got == model.KindSet
	case model.FieldKindBoolean:
		return got == model.KindFlag
	default:
		return got == model.KindText
	}
}

func (v *InquiryValidator) translate(d model.FieldDefinition, err validator.FieldError) string {
	var fallback string

	switch err.Tag() {
	case "required":
		fallback = fmt.Sprintf("%s is required", d.Label)
	case "min":
		fallback = fmt.Sprintf("%s must be at least %s characters", d.Label, err.Param())
	case "max":
		fallback = fmt.Sprintf("%s must be less than %s characters", d.Label, err.Param())
	case "email":
		fallback = "Please enter a valid email address"
	case "intlphone":
		fallback = "Please enter a valid phone number"
	case "clock24":
		fallback = "Please enter a valid time"
	case "datetime":
		fallback = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", d.Label)
	case "future_date":
		fallback = fmt.Sprintf("%s must be in the future", d.Label)
	case "oneof":
		fallback = fmt.Sprintf("Please select a valid %s", strings.ToLower(d.Label))
	case "accepted":
		fallback = fmt.Sprintf("%s must be accepted", d.Label)
	default:
		fallback = fmt.Sprintf("%s is invalid", d.Label)
	}

	return message(d, err.Tag(), fallback)
}

func message(d model.FieldDefinition, tag, fallback string) string {
	if msg, ok := d.Messages[tag]; ok {
		return msg
	}
	return fallback
}

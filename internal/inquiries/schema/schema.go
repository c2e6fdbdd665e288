// Package schema declares the booking inquiry form: every field, its kind,
// optionality, length bounds and option catalog. Definitions are built once and
// handed out as copies.
package schema

import (
	"slices"

	"bookingdesk/pkg/model"
)

const (
	SectionContact     = "contact"
	SectionEvent       = "event"
	SectionPerformance = "performance"
	SectionBudget      = "budget"
	SectionAdditional  = "additional"
)

var definitions = []model.FieldDefinition{
	{
		Name: model.FieldFirstName, Label: "First name", Section: SectionContact,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 50,
		Placeholder: "John",
	},
	{
		Name: model.FieldLastName, Label: "Last name", Section: SectionContact,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 50,
		Placeholder: "Smith",
	},
	{
		Name: model.FieldEmail, Label: "Email address", Section: SectionContact,
		Kind: model.FieldKindEmail, Required: true,
		Placeholder: "john@company.com",
		Messages: map[string]string{
			"required": "Please enter a valid email address",
		},
	},
	{
		Name: model.FieldPhone, Label: "Phone number", Section: SectionContact,
		Kind: model.FieldKindPhone, Required: true, MinLen: 10,
		Placeholder: "+15551234567",
		Messages: map[string]string{
			"required": "Phone number must be at least 10 digits",
			"min":      "Phone number must be at least 10 digits",
		},
	},
	{
		Name: model.FieldCompany, Label: "Company name", Section: SectionContact,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 100,
		Placeholder: "Event Company LLC",
	},
	{
		Name: model.FieldTitle, Label: "Title", Section: SectionContact,
		Kind: model.FieldKindText, MaxLen: 100,
		Placeholder: "Event Director",
	},
	{
		Name: model.FieldEventName, Label: "Event name", Section: SectionEvent,
		Kind: model.FieldKindText, Required: true, MinLen: 3, MaxLen: 200,
		Placeholder: "Summer Music Festival",
	},
	{
		Name: model.FieldRequestedArtist, Label: "Artist/Celebrity name", Section: SectionEvent,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 100,
	},
	{
		Name: model.FieldEventType, Label: "Event type", Section: SectionEvent,
		Kind: model.FieldKindEnum, Required: true, Options: EventTypes,
		Messages: map[string]string{
			"required": "Please select an event type",
		},
	},
	{
		Name: model.FieldEventDate, Label: "Event date", Section: SectionEvent,
		Kind: model.FieldKindDate, Required: true,
		Messages: map[string]string{
			"required": "Please select an event date",
		},
	},
	{
		Name: model.FieldEventTime, Label: "Event time", Section: SectionEvent,
		Kind: model.FieldKindTime, Required: true,
		Messages: map[string]string{
			"required": "Please enter a valid time",
		},
	},
	{
		Name: model.FieldVenue, Label: "Venue name", Section: SectionEvent,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 200,
		Placeholder: "Madison Square Garden",
	},
	{
		Name: model.FieldCity, Label: "City", Section: SectionEvent,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 100,
		Placeholder: "New York",
	},
	{
		Name: model.FieldState, Label: "State", Section: SectionEvent,
		Kind: model.FieldKindText, Required: true, MinLen: 2, MaxLen: 100,
		Placeholder: "NY",
	},
	{
		Name: model.FieldExpectedAttendance, Label: "Expected attendance", Section: SectionEvent,
		Kind: model.FieldKindEnum, Required: true,
		DependsOn: []string{model.FieldEventType, model.FieldPerformanceType},
		Messages: map[string]string{
			"required": "Please select expected attendance",
			"oneof":    "Please select a valid attendance range",
		},
	},
	{
		Name: model.FieldPerformanceType, Label: "Performance type", Section: SectionPerformance,
		Kind: model.FieldKindEnum, Required: true, Options: PerformanceTypes,
		Messages: map[string]string{
			"required": "Please select a performance type",
		},
	},
	{
		Name: model.FieldAdditionalServices, Label: "Additional services", Section: SectionPerformance,
		Kind: model.FieldKindMultiSelect, Options: AdditionalServices,
	},
	{
		Name: model.FieldTechnicalRequirements, Label: "Technical requirements", Section: SectionPerformance,
		Kind: model.FieldKindLongText, MaxLen: 2000,
	},
	{
		Name: model.FieldBudgetRange, Label: "Budget range", Section: SectionBudget,
		Kind: model.FieldKindEnum, Required: true, Options: BudgetRanges,
		Messages: map[string]string{
			"required": "Please select a budget range",
		},
	},
	{
		Name: model.FieldBudgetNotes, Label: "Budget notes", Section: SectionBudget,
		Kind: model.FieldKindLongText, MaxLen: 1000,
	},
	{
		Name: model.FieldBudgetIncludes, Label: "Budget includes", Section: SectionBudget,
		Kind: model.FieldKindMultiSelect, Options: BudgetIncludes,
	},
	{
		Name: model.FieldEventDescription, Label: "Event description", Section: SectionAdditional,
		Kind: model.FieldKindLongText, MaxLen: 2000,
	},
	{
		Name: model.FieldSpecialRequests, Label: "Special requests", Section: SectionAdditional,
		Kind: model.FieldKindLongText, MaxLen: 1000,
	},
	{
		Name: model.FieldBookingTimeline, Label: "Booking timeline", Section: SectionAdditional,
		Kind: model.FieldKindEnum, Options: BookingTimelines,
	},
	{
		Name: model.FieldTermsAgreement, Label: "Terms agreement", Section: SectionAdditional,
		Kind: model.FieldKindBoolean, Required: true,
		Messages: map[string]string{
			"accepted": "You must agree to the terms and conditions",
		},
	},
}

var index = func() map[string]int {
	m := make(map[string]int, len(definitions))
	for i, d := range definitions {
		m[d.Name] = i
	}
	return m
}()

// Definitions returns the field definitions in form order.
func Definitions() []model.FieldDefinition {
	out := make([]model.FieldDefinition, len(definitions))
	for i, d := range definitions {
		out[i] = clone(d)
	}
	return out
}

func Lookup(name string) (model.FieldDefinition, bool) {
	i, ok := index[name]
	if !ok {
		return model.FieldDefinition{}, false
	}
	return clone(definitions[i]), true
}

func Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

// Dependents returns the fields whose valid values are derived from field.
func Dependents(field string) []string {
	var out []string
	for _, d := range definitions {
		if slices.Contains(d.DependsOn, field) {
			out = append(out, d.Name)
		}
	}
	return out
}

// Empty returns a record holding the zero value of every field.
func Empty() model.BookingRecord {
	record := make(model.BookingRecord, len(definitions))
	for _, d := range definitions {
		record[d.Name] = d.ZeroValue()
	}
	return record
}

func clone(d model.FieldDefinition) model.FieldDefinition {
	d.Options = slices.Clone(d.Options)
	d.DependsOn = slices.Clone(d.DependsOn)
	if d.Messages != nil {
		m := make(map[string]string, len(d.Messages))
		for k, v := range d.Messages {
			m[k] = v
		}
		d.Messages = m
	}
	return d
}

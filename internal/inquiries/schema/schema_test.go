package schema

import (
	"testing"

	"bookingdesk/pkg/model"
)

func TestDefinitions_CoverEveryField(t *testing.T) {
	want := []string{
		model.FieldFirstName, model.FieldLastName, model.FieldEmail, model.FieldPhone,
		model.FieldCompany, model.FieldTitle, model.FieldEventName, model.FieldRequestedArtist,
		model.FieldEventType, model.FieldEventDate, model.FieldEventTime, model.FieldVenue,
		model.FieldCity, model.FieldState, model.FieldExpectedAttendance, model.FieldPerformanceType,
		model.FieldAdditionalServices, model.FieldTechnicalRequirements, model.FieldBudgetRange,
		model.FieldBudgetNotes, model.FieldBudgetIncludes, model.FieldEventDescription,
		model.FieldSpecialRequests, model.FieldBookingTimeline, model.FieldTermsAgreement,
	}

	names := Names()
	if len(names) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("field %d: expected %s, got %s", i, name, names[i])
		}
	}
}

func TestDefinitions_Optionality(t *testing.T) {
	optional := map[string]bool{
		model.FieldTitle:                 true,
		model.FieldAdditionalServices:    true,
		model.FieldTechnicalRequirements: true,
		model.FieldBudgetNotes:           true,
		model.FieldBudgetIncludes:        true,
		model.FieldEventDescription:      true,
		model.FieldSpecialRequests:       true,
		model.FieldBookingTimeline:       true,
	}

	for _, d := range Definitions() {
		if d.Required == optional[d.Name] {
			t.Errorf("%s: required=%v, expected %v", d.Name, d.Required, !optional[d.Name])
		}
	}
}

func TestDefinitions_ReturnsCopies(t *testing.T) {
	defs := Definitions()
	defs[0].Label = "changed"
	defs[8].Options[0].Value = "changed"

	d, ok := Lookup(model.FieldFirstName)
	if !ok {
		t.Fatal("expected firstName definition")
	}
	if d.Label == "changed" {
		t.Error("mutating returned definitions must not affect the schema")
	}

	et, _ := Lookup(model.FieldEventType)
	if et.Options[0].Value != "concert" {
		t.Errorf("expected catalog untouched, got %s", et.Options[0].Value)
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, ok := Lookup("favouriteColour"); ok {
		t.Error("expected unknown field lookup to fail")
	}
}

func TestDependents(t *testing.T) {
	tests := []struct {
		field string
		want  []string
	}{
		{field: model.FieldEventType, want: []string{model.FieldExpectedAttendance}},
		{field: model.FieldPerformanceType, want: []string{model.FieldExpectedAttendance}},
		{field: model.FieldCity, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got := Dependents(tt.field)
			if len(got) != len(tt.want) {
				t.Fatalf("Dependents(%s) = %v, want %v", tt.field, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Dependents(%s)[%d] = %s, want %s", tt.field, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEmpty(t *testing.T) {
	record := Empty()

	if record[model.FieldTermsAgreement].Kind() != model.KindFlag {
		t.Error("expected terms agreement to be a flag")
	}
	if record[model.FieldBudgetIncludes].Kind() != model.KindSet {
		t.Error("expected budget includes to be a set")
	}
	if record[model.FieldCity].Kind() != model.KindText || !record[model.FieldCity].IsEmpty() {
		t.Error("expected city to be empty text")
	}
}

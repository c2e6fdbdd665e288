package sanitizer

import (
	"testing"

	"bookingdesk/pkg/model"
)

func TestSanitizeRecord(t *testing.T) {
	defs := []model.FieldDefinition{
		{Name: model.FieldFirstName, Kind: model.FieldKindText},
		{Name: model.FieldEmail, Kind: model.FieldKindEmail},
		{Name: model.FieldEventDescription, Kind: model.FieldKindLongText},
		{Name: model.FieldAdditionalServices, Kind: model.FieldKindMultiSelect},
		{Name: model.FieldTermsAgreement, Kind: model.FieldKindBoolean},
	}
	record := model.BookingRecord{
		model.FieldFirstName:          model.Text("  Ada   Lovelace "),
		model.FieldEmail:              model.Text(" ADA@Example.com "),
		model.FieldEventDescription:   model.Text(" Gala dinner.\r\n\r\nBlack tie. "),
		model.FieldAdditionalServices: model.Set("photo-op", " photo-op", ""),
		model.FieldTermsAgreement:     model.Flag(true),
		"nickname":                    model.Text("  untouched "),
	}

	got := SanitizeRecord(record, defs)

	tests := []struct {
		field string
		want  model.Value
	}{
		{model.FieldFirstName, model.Text("Ada Lovelace")},
		{model.FieldEmail, model.Text("ada@example.com")},
		{model.FieldEventDescription, model.Text("Gala dinner.\n\nBlack tie.")},
		{model.FieldAdditionalServices, model.Set("photo-op")},
		{model.FieldTermsAgreement, model.Flag(true)},
		{"nickname", model.Text("  untouched ")},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if !got[tt.field].Equal(tt.want) {
				t.Errorf("%s = %v, want %v", tt.field, got[tt.field], tt.want)
			}
		})
	}

	if record[model.FieldFirstName].String() != "  Ada   Lovelace " {
		t.Error("SanitizeRecord must not modify its input")
	}
}

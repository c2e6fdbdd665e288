package sanitizer

import "bookingdesk/pkg/model"

// SanitizeRecord returns a normalized copy of record. Fields without a
// definition are copied unchanged. Phone values are only trimmed here; the
// validator decides whether they are acceptable.
func SanitizeRecord(record model.BookingRecord, defs []model.FieldDefinition) model.BookingRecord {
	kinds := make(map[string]model.FieldKind, len(defs))
	for _, def := range defs {
		kinds[def.Name] = def.Kind
	}

	out := make(model.BookingRecord, len(record))
	for field, value := range record {
		out[field] = SanitizeValue(kinds[field], value)
	}
	return out
}

func SanitizeValue(kind model.FieldKind, value model.Value) model.Value {
	switch value.Kind() {
	case model.KindText:
		switch kind {
		case model.FieldKindLongText:
			return model.Text(TrimMultiline(value.String()))
		case model.FieldKindEmail:
			return model.Text(NormalizeEmail(value.String()))
		case "":
			return value
		default:
			return model.Text(TrimAndNormalize(value.String()))
		}
	case model.KindSet:
		return model.Set(NormalizeSelections(value.Items())...)
	default:
		return value
	}
}

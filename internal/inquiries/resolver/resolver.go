package resolver

import (
	"slices"

	"bookingdesk/internal/inquiries/schema"
	"bookingdesk/pkg/model"
)

// Resolve returns the attendance ranges valid for the given event and
// performance type. VIP wins over private, which wins over standard.
func Resolve(eventType, performanceType string) model.AttendanceOptionSet {
	switch {
	case eventType == schema.EventTypeVIP || performanceType == schema.PerformanceMeetGreet:
		return model.AttendanceOptionSet{Catalog: schema.CatalogVIP, Options: slices.Clone(schema.VIPAttendance)}
	case eventType == schema.EventTypePrivate:
		return model.AttendanceOptionSet{Catalog: schema.CatalogPrivate, Options: slices.Clone(schema.PrivateAttendance)}
	default:
		return model.AttendanceOptionSet{Catalog: schema.CatalogStandard, Options: slices.Clone(schema.StandardAttendance)}
	}
}

func ResolveFor(record model.BookingRecord) model.AttendanceOptionSet {
	return Resolve(record.Text(model.FieldEventType), record.Text(model.FieldPerformanceType))
}

func Allows(eventType, performanceType, attendance string) bool {
	return Resolve(eventType, performanceType).Contains(attendance)
}

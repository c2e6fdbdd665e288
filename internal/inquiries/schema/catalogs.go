package schema

import "bookingdesk/pkg/model"

const (
	CatalogVIP      = "vip"
	CatalogPrivate  = "private"
	CatalogStandard = "standard"

	EventTypeVIP         = "vip"
	EventTypePrivate     = "private"
	PerformanceMeetGreet = "meet-greet"
)

var (
	EventTypes = []model.Option{
		{Value: "concert", Label: "Concert/Music Festival"},
		{Value: "private", Label: "Private Event"},
		{Value: "corporate", Label: "Corporate Event"},
		{Value: "charity", Label: "Charity/Fundraiser"},
		{Value: "speaking", Label: "Speaking Engagement"},
		{Value: "vip", Label: "VIP Experience"},
		{Value: "other", Label: "Other"},
	}

	PerformanceTypes = []model.Option{
		{Value: "full-concert", Label: "Full Concert (90+ minutes)"},
		{Value: "headliner", Label: "Headliner Set (60-75 minutes)"},
		{Value: "festival", Label: "Festival Set (45-60 minutes)"},
		{Value: "acoustic", Label: "Acoustic Performance"},
		{Value: "speaking", Label: "Speaking Engagement Only"},
		{Value: "meet-greet", Label: "Meet & Greet/VIP Experience"},
	}

	AdditionalServices = []model.Option{
		{Value: "soundcheck", Label: "Soundcheck Required"},
		{Value: "rehearsal", Label: "Rehearsal Time"},
		{Value: "interviews", Label: "Media Interviews"},
		{Value: "photos", Label: "Photo Opportunities"},
		{Value: "merchandise", Label: "Merchandise Sales"},
		{Value: "recording", Label: "Recording Rights"},
	}

	BudgetRanges = []model.Option{
		{Value: "under-100k", Label: "Under $100,000"},
		{Value: "100k-250k", Label: "$100,000 - $250,000"},
		{Value: "250k-500k", Label: "$250,000 - $500,000"},
		{Value: "500k-1m", Label: "$500,000 - $1,000,000"},
		{Value: "1m-2m", Label: "$1,000,000 - $2,000,000"},
		{Value: "over-2m", Label: "Over $2,000,000"},
		{Value: "flexible", Label: "Budget Flexible"},
	}

	BudgetIncludes = []model.Option{
		{Value: "travel", Label: "Travel & Transportation"},
		{Value: "accommodation", Label: "Accommodation"},
		{Value: "catering", Label: "Catering & Hospitality"},
		{Value: "production", Label: "Production Costs"},
		{Value: "security", Label: "Security"},
		{Value: "insurance", Label: "Insurance"},
	}

	BookingTimelines = []model.Option{
		{Value: "asap", Label: "ASAP"},
		{Value: "1-week", Label: "Within 1 week"},
		{Value: "2-weeks", Label: "Within 2 weeks"},
		{Value: "1-month", Label: "Within 1 month"},
		{Value: "flexible", Label: "Timeline is flexible"},
	}

	VIPAttendance = []model.Option{
		{Value: "5-10", Label: "5 - 10 guests"},
		{Value: "10-25", Label: "10 - 25 guests"},
		{Value: "25-50", Label: "25 - 50 guests"},
		{Value: "50-75", Label: "50 - 75 guests"},
		{Value: "75-100", Label: "75 - 100 guests"},
	}

	PrivateAttendance = []model.Option{
		{Value: "under-50", Label: "Under 50"},
		{Value: "50-100", Label: "50 - 100"},
		{Value: "100-250", Label: "100 - 250"},
		{Value: "250-500", Label: "250 - 500"},
		{Value: "500-1000", Label: "500 - 1,000"},
		{Value: "1000-2500", Label: "1,000 - 2,500"},
	}

	StandardAttendance = []model.Option{
		{Value: "under-500", Label: "Under 500"},
		{Value: "500-1000", Label: "500 - 1,000"},
		{Value: "1000-5000", Label: "1,000 - 5,000"},
		{Value: "5000-10000", Label: "5,000 - 10,000"},
		{Value: "10000-25000", Label: "10,000 - 25,000"},
		{Value: "25000-50000", Label: "25,000 - 50,000"},
		{Value: "over-50000", Label: "Over 50,000"},
	}
)

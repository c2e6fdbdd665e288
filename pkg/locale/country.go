package locale

const (
	DefaultTimezone = "UTC"
)

type Country struct {
	Code            string // ISO 3166-1 alpha-2, e.g. "US"
	Name            string
	DefaultTimezone string // IANA identifier, e.g. "America/New_York"
}

var Countries = map[string]Country{
	"US": {Code: "US", Name: "United States", DefaultTimezone: "America/New_York"},
	"CA": {Code: "CA", Name: "Canada", DefaultTimezone: "America/Toronto"},
	"GB": {Code: "GB", Name: "United Kingdom", DefaultTimezone: "Europe/London"},
	"AU": {Code: "AU", Name: "Australia", DefaultTimezone: "Australia/Sydney"},
	"IL": {Code: "IL", Name: "Israel", DefaultTimezone: "Asia/Jerusalem"},
}

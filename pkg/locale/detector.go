package locale

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// InferCountryFromPhone expects an E.164 number and returns nil for numbers
// that cannot be attributed to a known country.
func InferCountryFromPhone(phone string) *Country {
	phone = strings.TrimSpace(phone)
	if !strings.HasPrefix(phone, "+") {
		return nil
	}

	num, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return nil
	}

	country, ok := Countries[phonenumbers.GetRegionCodeForNumber(num)]
	if !ok {
		return nil
	}
	return &country
}

func InferTimezoneFromPhone(phone string) string {
	if country := InferCountryFromPhone(phone); country != nil {
		return country.DefaultTimezone
	}
	return DefaultTimezone
}

package locale

import "testing"

func TestInferCountryFromPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		wantCode string
		wantNil  bool
	}{
		{name: "US phone", phone: "+16502530000", wantCode: "US"},
		{name: "UK phone", phone: "+442070313000", wantCode: "GB"},
		{name: "Israel phone", phone: "+972541234567", wantCode: "IL"},
		{name: "surrounding spaces", phone: " +16502530000 ", wantCode: "US"},
		{name: "country outside the table", phone: "+33142685300", wantNil: true},
		{name: "missing plus", phone: "16502530000", wantNil: true},
		{name: "empty phone", phone: "", wantNil: true},
		{name: "invalid phone", phone: "not-a-phone", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferCountryFromPhone(tt.phone)
			if tt.wantNil {
				if got != nil {
					t.Errorf("InferCountryFromPhone(%q) = %v, want nil", tt.phone, got)
				}
				return
			}
			if got == nil {
				t.Fatalf("InferCountryFromPhone(%q) = nil, want country with code %q", tt.phone, tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("InferCountryFromPhone(%q).Code = %q, want %q", tt.phone, got.Code, tt.wantCode)
			}
		})
	}
}

func TestInferTimezoneFromPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{name: "US phone returns New York timezone", phone: "+16502530000", want: "America/New_York"},
		{name: "Israel phone returns Jerusalem timezone", phone: "+972541234567", want: "Asia/Jerusalem"},
		{name: "unknown country returns UTC", phone: "+33142685300", want: DefaultTimezone},
		{name: "empty phone returns UTC", phone: "", want: DefaultTimezone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferTimezoneFromPhone(tt.phone); got != tt.want {
				t.Errorf("InferTimezoneFromPhone(%q) = %q, want %q", tt.phone, got, tt.want)
			}
		})
	}
}

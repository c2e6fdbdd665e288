package sanitizer

import (
	"slices"
	"testing"
)

func TestNormalizeSelections(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{name: "nil input", input: nil, want: []string{}},
		{name: "trims values", input: []string{" meet-greet ", "photo-op"}, want: []string{"meet-greet", "photo-op"}},
		{name: "drops empty values", input: []string{"", "  ", "photo-op"}, want: []string{"photo-op"}},
		{name: "drops duplicates keeping first order", input: []string{"photo-op", "meet-greet", " photo-op"}, want: []string{"photo-op", "meet-greet"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSelections(tt.input)
			if !slices.Equal(got, tt.want) {
				t.Errorf("NormalizeSelections(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

package utils

import "testing"

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		isNil bool
	}{
		{"plain integer", "123", 123, false},
		{"decimal", "45.67", 45.67, false},
		{"negative", "-12.5", -12.5, false},
		{"thousands separators", "1,23,456", 123456, false},
		{"currency prefix", "₹ 1,927 Cr.", 1927, false},
		{"percent suffix", "22%", 22, false},
		{"parentheses negate", "(500)", -500, false},
		{"parentheses with commas", "(1,250.75)", -1250.75, false},
		{"slash keeps left side", "3,035 / 1,941", 3035, false},
		{"leading text", "approx 42", 42, false},
		{"empty", "", 0, true},
		{"whitespace only", "   ", 0, true},
		{"no digits", "N/A", 0, true},
		{"dashes", "--", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if tt.isNil {
				if got != nil {
					t.Fatalf("ParseNumber(%q) = %v, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseNumber(%q) = nil, want %v", tt.input, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParseNumber(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}

package invoice

import "testing"

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"currency and thousands", "$1,234.56", "1234.56", true},
		{"plain integer", "20", "20", true},
		{"embedded in text", "Total: $99.90 MXN", "99.90", true},
		{"no digits", "no digits here", "", false},
		{"empty", "", "", false},
		{"only symbols", "$,", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeAmount(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("NormalizeAmount(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

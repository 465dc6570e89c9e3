package question

import (
	"strings"
	"testing"
)

func TestSelect_Tiers(t *testing.T) {
	tests := []struct {
		name  string
		years int
		want  string
	}{
		{"zero years", 0, "simple service"},
		{"one year", 1, "simple service"},
		{"lower intermediate bound", 2, "millions of users"},
		{"upper intermediate bound", 4, "millions of users"},
		{"lower advanced bound", 5, "globally distributed"},
		{"deeply experienced", 20, "globally distributed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(tt.years, "payments")
			if !strings.Contains(got, tt.want) {
				t.Errorf("Select(%d) = %q, want substring %q", tt.years, got, tt.want)
			}
			if !strings.Contains(got, "payments") {
				t.Errorf("Select(%d) = %q, does not mention the domain", tt.years, got)
			}
		})
	}
}

func TestSelect_DomainDefault(t *testing.T) {
	for _, domain := range []string{"", "   "} {
		got := Select(3, domain)
		if !strings.Contains(got, "web services") {
			t.Errorf("Select(3, %q) = %q, want default domain", domain, got)
		}
	}
}

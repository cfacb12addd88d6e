package classify_test

import (
	"testing"

	"docverify/internal/classify"
)

func TestIsSheetURL(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{"https://docs.google.com/spreadsheets/d/1AbC_d-ef/edit#gid=0", true},
		{"docs.google.com/spreadsheets/d/1AbC", true},
		{"/data/terms.xlsx", false},
		{"terms.xlsx", false},
		{"https://example.com/spreadsheets/d/1AbC", false},
	}
	for _, tt := range tests {
		if got := classify.IsSheetURL(tt.source); got != tt.want {
			t.Errorf("IsSheetURL(%q) = %v, want %v", tt.source, got, tt.want)
		}
	}
}

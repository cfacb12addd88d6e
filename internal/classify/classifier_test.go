package classify_test

import (
	"strings"
	"testing"

	"docverify/internal/classify"
	"docverify/pkg/models"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\t  ", 0},
		{"one", 1},
		{"one two three", 3},
		{"line one\nline two", 4},
		{"  padded   words  ", 2},
	}
	for _, tt := range tests {
		if got := classify.CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestClassifyText(t *testing.T) {
	rich := strings.Repeat("word ", 60)

	tests := []struct {
		name      string
		text      string
		threshold int
		want      models.DocumentType
	}{
		{"rich text layer", rich, 50, models.DocumentTypeNormal},
		{"empty text layer", "", 50, models.DocumentTypeScanned},
		{"below threshold", "just a few words here", 50, models.DocumentTypeScanned},
		{"exactly at threshold", strings.Repeat("w ", 50), 50, models.DocumentTypeNormal},
		{"one short of threshold", strings.Repeat("w ", 49), 50, models.DocumentTypeScanned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify.ClassifyText(tt.text, tt.threshold); got != tt.want {
				t.Errorf("ClassifyText = %s, want %s", got, tt.want)
			}
		})
	}
}

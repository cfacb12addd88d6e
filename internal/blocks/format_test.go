package blocks_test

import (
	"strings"
	"testing"

	"docverify/internal/blocks"
)

func TestFormatPageEmpty(t *testing.T) {
	if got := blocks.FormatPage(blocks.PageContent{}); got != "" {
		t.Errorf("FormatPage(empty) = %q, want empty", got)
	}
}

func TestFormatPageHeaderPairing(t *testing.T) {
	content := blocks.PageContent{
		SectionHeaders: []string{"Summary", "Details"},
		RawText:        []string{"first paragraph"},
		Tables: []blocks.TableGrid{
			{{"A", "B"}, {"1", "2"}},
			{{"C"}, {"3"}},
		},
	}
	got := blocks.FormatPage(content)

	// The first header consumes the raw text and the first table; the
	// second header gets the second table.
	wantOrder := []string{
		"## Summary",
		"first paragraph",
		"| A | B |",
		"## Details",
		"| C |",
	}
	assertOrdered(t, got, wantOrder)
}

func TestFormatPageRemainders(t *testing.T) {
	content := blocks.PageContent{
		SectionHeaders: []string{"Summary"},
		RawText:        []string{"consumed", "leftover one", "leftover two"},
		KeyValuePairs:  []blocks.KeyValue{{Key: "Date", Value: "2024-01-01"}},
	}
	got := blocks.FormatPage(content)

	assertOrdered(t, got, []string{
		"## Summary",
		"consumed",
		"leftover one",
		"leftover two",
		"Date",
		"2024-01-01",
	})
}

func TestFormatPageNoHeaders(t *testing.T) {
	content := blocks.PageContent{
		RawText: []string{"body"},
		Tables:  []blocks.TableGrid{{{"X"}, {"1"}}},
	}
	got := blocks.FormatPage(content)
	assertOrdered(t, got, []string{"body", "| X |"})
}

func TestFormatPageCollapsesBlankRuns(t *testing.T) {
	content := blocks.PageContent{
		RawText: []string{"para one\n\n\n\n\npara two", "tail"},
	}
	got := blocks.FormatPage(content)

	if strings.Contains(got, "\n\n\n") {
		t.Errorf("FormatPage left a run of 3+ newlines: %q", got)
	}
	if !strings.Contains(got, "para one\n\npara two") {
		t.Errorf("FormatPage collapsed too far: %q", got)
	}
}

func TestFormatPageDoesNotMutateContent(t *testing.T) {
	content := blocks.PageContent{
		SectionHeaders: []string{"Summary"},
		RawText:        []string{"text"},
		Tables:         []blocks.TableGrid{{{"A"}, {"1"}}},
	}
	blocks.FormatPage(content)

	if len(content.RawText) != 1 || len(content.Tables) != 1 {
		t.Errorf("FormatPage mutated content: %+v", content)
	}
}

// assertOrdered checks that every want string appears in got, in order.
func assertOrdered(t *testing.T, got string, want []string) {
	t.Helper()
	pos := 0
	for _, w := range want {
		i := strings.Index(got[pos:], w)
		if i < 0 {
			t.Fatalf("missing or out of order %q in output:\n%s", w, got)
		}
		pos += i + len(w)
	}
}

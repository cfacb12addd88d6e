package chat_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"docverify/internal/chat"
	"docverify/internal/extract"
	"docverify/pkg/models"
)

func writeArtifacts(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	docs := map[string][]models.PageText{
		"invoice": {
			{Number: 1, Text: "Invoice number INV-001"},
			{Number: 2, Text: "Total amount 1200 EUR"},
		},
		"lease": {
			{Number: 1, Text: "Lease agreement for the premises"},
		},
	}
	for name, pages := range docs {
		path := filepath.Join(dir, name+"_extracted.json")
		if err := extract.WriteArtifact(path, pages); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoadStore(t *testing.T) {
	store, err := chat.LoadStore(writeArtifacts(t))
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}

	if want := []string{"invoice", "lease"}; !reflect.DeepEqual(store.Names(), want) {
		t.Errorf("Names = %v, want %v", store.Names(), want)
	}

	pages, ok := store.Document("invoice")
	if !ok || len(pages) != 2 || pages[1].Text != "Total amount 1200 EUR" {
		t.Errorf("Document(invoice) = %+v, %v", pages, ok)
	}
	if _, ok := store.Document("absent"); ok {
		t.Error("Document(absent) reported present")
	}
}

func TestLoadStoreSkipsMalformedArtifacts(t *testing.T) {
	dir := writeArtifacts(t)
	if err := os.WriteFile(filepath.Join(dir, "broken_extracted.json"), []byte("garbage"), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := chat.LoadStore(dir)
	if err != nil {
		t.Fatalf("LoadStore: %v", err)
	}
	if len(store.Names()) != 2 {
		t.Errorf("Names = %v, want broken artifact skipped", store.Names())
	}
}

func TestLoadStoreEmptyDir(t *testing.T) {
	if _, err := chat.LoadStore(t.TempDir()); err == nil {
		t.Error("LoadStore on empty dir succeeded")
	}
}

func TestContextText(t *testing.T) {
	store, err := chat.LoadStore(writeArtifacts(t))
	if err != nil {
		t.Fatal(err)
	}

	text := store.ContextText(1 << 20)
	for _, want := range []string{
		"# Document: invoice",
		"## Page 2",
		"Total amount 1200 EUR",
		"# Document: lease",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("ContextText missing %q", want)
		}
	}

	// Invoice precedes lease, matching artifact order.
	if strings.Index(text, "# Document: invoice") > strings.Index(text, "# Document: lease") {
		t.Error("ContextText documents out of order")
	}
}

func TestContextTextTruncates(t *testing.T) {
	store, err := chat.LoadStore(writeArtifacts(t))
	if err != nil {
		t.Fatal(err)
	}
	if got := store.ContextText(10); len(got) > 10 {
		t.Errorf("ContextText length = %d, want <= 10", len(got))
	}
}

func TestContextTextTruncatesOnRuneBoundary(t *testing.T) {
	dir := t.TempDir()
	pages := []models.PageText{
		{Number: 1, Text: "Rechnungsprüfung " + strings.Repeat("äöüß", 20)},
	}
	if err := extract.WriteArtifact(filepath.Join(dir, "umlaut_extracted.json"), pages); err != nil {
		t.Fatal(err)
	}

	store, err := chat.LoadStore(dir)
	if err != nil {
		t.Fatal(err)
	}

	// Every limit must stay within budget and never split a rune.
	for limit := 1; limit < 120; limit++ {
		got := store.ContextText(limit)
		if len(got) > limit {
			t.Fatalf("ContextText(%d) length = %d", limit, len(got))
		}
		if !utf8.ValidString(got) {
			t.Fatalf("ContextText(%d) returned invalid UTF-8: %q", limit, got)
		}
	}
}

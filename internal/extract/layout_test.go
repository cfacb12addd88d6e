package extract

import (
	"reflect"
	"testing"

	"github.com/ledongthuc/pdf"

	"docverify/internal/blocks"
)

// glyphs spells a word as individual glyphs starting at (x, y), the way
// the text layer delivers them.
func glyphs(s string, x, y float64) []pdf.Text {
	const width = 5.0
	var out []pdf.Text
	for i, r := range s {
		out = append(out, pdf.Text{
			S:        string(r),
			X:        x + float64(i)*width,
			Y:        y,
			W:        width,
			FontSize: 10,
		})
	}
	return out
}

func row(y float64, cells map[float64]string) []pdf.Text {
	var out []pdf.Text
	for x, s := range cells {
		out = append(out, glyphs(s, x, y)...)
	}
	return out
}

func TestDetectTablesAlignedColumns(t *testing.T) {
	// Three rows with word starts aligned at x=100 and x=300.
	var texts []pdf.Text
	texts = append(texts, row(700, map[float64]string{100: "Item", 300: "Amount"})...)
	texts = append(texts, row(680, map[float64]string{100: "Rent", 300: "1200"})...)
	texts = append(texts, row(660, map[float64]string{100: "Power", 300: "80"})...)

	grids := detectTables(texts)
	if len(grids) != 1 {
		t.Fatalf("detectTables = %d grids, want 1", len(grids))
	}
	want := blocks.TableGrid{
		{"Item", "Amount"},
		{"Rent", "1200"},
		{"Power", "80"},
	}
	if !reflect.DeepEqual(grids[0], want) {
		t.Errorf("grid = %v, want %v", grids[0], want)
	}
}

func TestDetectTablesProse(t *testing.T) {
	// Prose lines with ragged word starts must not form a table.
	var texts []pdf.Text
	texts = append(texts, glyphs("This", 72, 700)...)
	texts = append(texts, glyphs("lease", 110, 700)...)
	texts = append(texts, glyphs("covers", 95, 680)...)
	texts = append(texts, glyphs("the", 140, 680)...)
	texts = append(texts, glyphs("premises", 81, 660)...)

	if grids := detectTables(texts); grids != nil {
		t.Errorf("detectTables on prose = %v, want none", grids)
	}
}

func TestDetectTablesEmptyPage(t *testing.T) {
	if grids := detectTables(nil); grids != nil {
		t.Errorf("detectTables(nil) = %v, want nil", grids)
	}
}

func TestMergeWordsJoinsGlyphs(t *testing.T) {
	texts := append(glyphs("Total", 100, 700), glyphs("1200", 200, 700)...)
	words := mergeWords(texts)
	if len(words) != 2 || words[0].text != "Total" || words[1].text != "1200" {
		t.Errorf("mergeWords = %+v, want Total and 1200", words)
	}
}

package ocr

import (
	"errors"
	"reflect"
	"testing"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"docverify/internal/blocks"
)

func layoutFor(start, end int32) *documentaipb.Document_Page_Layout {
	return &documentaipb.Document_Page_Layout{
		TextAnchor: &documentaipb.Document_TextAnchor{
			TextSegments: []*documentaipb.Document_TextAnchor_TextSegment{
				{StartIndex: int64(start), EndIndex: int64(end)},
			},
		},
	}
}

func TestTextFromLayout(t *testing.T) {
	fullText := "Invoice number: INV-001"

	tests := []struct {
		name   string
		layout *documentaipb.Document_Page_Layout
		want   string
	}{
		{"nil layout", nil, ""},
		{"no anchor", &documentaipb.Document_Page_Layout{}, ""},
		{"segment", layoutFor(0, 14), "Invoice number"},
		{"clamped end", layoutFor(16, 99), "INV-001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textFromLayout(tt.layout, fullText); got != tt.want {
				t.Errorf("textFromLayout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBlocksFromDocumentLines(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "First line\nSecond line\n",
		Pages: []*documentaipb.Document_Page{{
			Lines: []*documentaipb.Document_Page_Line{
				{Layout: layoutFor(0, 10)},
				{Layout: layoutFor(11, 22)},
			},
		}},
	}

	list := blocksFromDocument(doc)
	var lines []string
	for _, b := range list {
		if b.Type == blocks.TypeLine {
			lines = append(lines, b.Text)
		}
	}
	want := []string{"First line", "Second line"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("lines = %v, want %v", lines, want)
	}
}

func TestBlocksFromDocumentTable(t *testing.T) {
	// 2x2 table: header "Item Amount", body "Rent 1200".
	doc := &documentaipb.Document{
		Text: "Item Amount Rent 1200",
		Pages: []*documentaipb.Document_Page{{
			Tables: []*documentaipb.Document_Page_Table{{
				HeaderRows: []*documentaipb.Document_Page_Table_TableRow{{
					Cells: []*documentaipb.Document_Page_Table_TableCell{
						{Layout: layoutFor(0, 4)},
						{Layout: layoutFor(5, 11)},
					},
				}},
				BodyRows: []*documentaipb.Document_Page_Table_TableRow{{
					Cells: []*documentaipb.Document_Page_Table_TableCell{
						{Layout: layoutFor(12, 16)},
						{Layout: layoutFor(17, 21)},
					},
				}},
			}},
		}},
	}

	content := blocks.ProcessBlocks(blocksFromDocument(doc))
	if len(content.Tables) != 1 {
		t.Fatalf("tables = %d, want 1", len(content.Tables))
	}
	want := blocks.TableGrid{
		{"Item", "Amount"},
		{"Rent", "1200"},
	}
	if !reflect.DeepEqual(content.Tables[0], want) {
		t.Errorf("grid = %v, want %v", content.Tables[0], want)
	}
}

func TestBlocksFromDocumentFormFields(t *testing.T) {
	doc := &documentaipb.Document{
		Text: "Due date: 2024-06-01",
		Pages: []*documentaipb.Document_Page{{
			FormFields: []*documentaipb.Document_Page_FormField{{
				FieldName:  layoutFor(0, 9),
				FieldValue: layoutFor(10, 20),
			}},
		}},
	}

	content := blocks.ProcessBlocks(blocksFromDocument(doc))
	want := []blocks.KeyValue{{Key: "Due date:", Value: "2024-06-01"}}
	if !reflect.DeepEqual(content.KeyValuePairs, want) {
		t.Errorf("pairs = %v, want %v", content.KeyValuePairs, want)
	}
}

func TestOCRErrorMatching(t *testing.T) {
	err := WrapOCRError("AnalyzePage", ErrInvalidImage, "empty page image")
	if !errors.Is(err, ErrInvalidImage) {
		t.Errorf("errors.Is failed for wrapped sentinel: %v", err)
	}

	// Wrapping twice keeps the original wrapper.
	twice := WrapOCRError("Outer", err, "again")
	if twice != err {
		t.Errorf("double wrap produced a new error: %v", twice)
	}

	if WrapOCRError("Op", nil, "x") != nil {
		t.Error("wrapping nil produced an error")
	}
}

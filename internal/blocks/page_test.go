package blocks_test

import (
	"reflect"
	"testing"

	"docverify/internal/blocks"
)

func lineBlock(id, text string) blocks.Block {
	return blocks.Block{ID: id, Type: blocks.TypeLine, Text: text}
}

func keyValuePair(keyID, keyText, valueID, valueText string) []blocks.Block {
	keyWordID := keyID + "-w"
	valueWordID := valueID + "-w"
	return []blocks.Block{
		wordBlock(keyWordID, keyText),
		wordBlock(valueWordID, valueText),
		{
			ID:          valueID,
			Type:        blocks.TypeKeyValueSet,
			EntityTypes: []string{"VALUE"},
			Relationships: []blocks.Relationship{
				{Kind: blocks.RelationChild, IDs: []string{valueWordID}},
			},
		},
		{
			ID:          keyID,
			Type:        blocks.TypeKeyValueSet,
			EntityTypes: []string{blocks.EntityKey},
			Relationships: []blocks.Relationship{
				{Kind: blocks.RelationChild, IDs: []string{keyWordID}},
				{Kind: blocks.RelationValue, IDs: []string{valueID}},
			},
		},
	}
}

func TestProcessBlocksEmpty(t *testing.T) {
	content := blocks.ProcessBlocks(nil)
	if len(content.Tables) != 0 || len(content.RawText) != 0 ||
		len(content.SectionHeaders) != 0 || len(content.KeyValuePairs) != 0 {
		t.Errorf("ProcessBlocks(nil) = %+v, want empty content", content)
	}
}

func TestProcessBlocksKeyValue(t *testing.T) {
	list := keyValuePair("k1", "Invoice Number", "v1", "INV-001")
	content := blocks.ProcessBlocks(list)

	want := []blocks.KeyValue{{Key: "Invoice Number", Value: "INV-001"}}
	if !reflect.DeepEqual(content.KeyValuePairs, want) {
		t.Errorf("KeyValuePairs = %v, want %v", content.KeyValuePairs, want)
	}
}

func TestProcessBlocksLineClassification(t *testing.T) {
	list := []blocks.Block{
		lineBlock("l1", "## Overview"),
		lineBlock("l2", "Payment Summary"),
		lineBlock("l3", "Test RESULTS for Q3"),
		lineBlock("l4", "Plain body text"),
		lineBlock("l5", "   "),
	}
	content := blocks.ProcessBlocks(list)

	wantHeaders := []string{"## Overview", "Payment Summary", "Test RESULTS for Q3"}
	if !reflect.DeepEqual(content.SectionHeaders, wantHeaders) {
		t.Errorf("SectionHeaders = %v, want %v", content.SectionHeaders, wantHeaders)
	}
	wantRaw := []string{"Plain body text"}
	if !reflect.DeepEqual(content.RawText, wantRaw) {
		t.Errorf("RawText = %v, want %v", content.RawText, wantRaw)
	}
}

func TestProcessBlocksSuppressesTableLines(t *testing.T) {
	// The LINE repeats a table cell's text and must not appear as body
	// text; the unrelated line must survive.
	list := []blocks.Block{
		wordBlock("w1", "Rent"),
		wordBlock("w2", "1200"),
		cellBlock("c1", 1, 1, "w1"),
		cellBlock("c2", 1, 2, "w2"),
		tableBlock("t1", "c1", "c2"),
		lineBlock("l1", "Rent"),
		lineBlock("l2", "Lease agreement for the premises"),
	}
	content := blocks.ProcessBlocks(list)

	if len(content.Tables) != 1 {
		t.Fatalf("Tables = %d, want 1", len(content.Tables))
	}
	want := []string{"Lease agreement for the premises"}
	if !reflect.DeepEqual(content.RawText, want) {
		t.Errorf("RawText = %v, want %v", content.RawText, want)
	}
}

func TestProcessBlocksSuppressionIsCaseInsensitive(t *testing.T) {
	list := []blocks.Block{
		wordBlock("w1", "TOTAL AMOUNT"),
		cellBlock("c1", 1, 1, "w1"),
		tableBlock("t1", "c1"),
		lineBlock("l1", "total amount"),
	}
	content := blocks.ProcessBlocks(list)

	if len(content.RawText) != 0 {
		t.Errorf("RawText = %v, want table line suppressed", content.RawText)
	}
}

func TestProcessBlocksValuelessKey(t *testing.T) {
	keyWord := wordBlock("kw", "Signature")
	key := blocks.Block{
		ID:          "k1",
		Type:        blocks.TypeKeyValueSet,
		EntityTypes: []string{blocks.EntityKey},
		Relationships: []blocks.Relationship{
			{Kind: blocks.RelationChild, IDs: []string{"kw"}},
		},
	}
	content := blocks.ProcessBlocks([]blocks.Block{keyWord, key})

	want := []blocks.KeyValue{{Key: "Signature", Value: ""}}
	if !reflect.DeepEqual(content.KeyValuePairs, want) {
		t.Errorf("KeyValuePairs = %v, want %v", content.KeyValuePairs, want)
	}
}

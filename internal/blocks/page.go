package blocks

import "strings"

// KeyValue is one resolved form-field pair.
type KeyValue struct {
	Key   string
	Value string
}

// PageContent is the structured content of one page, assembled from the
// block graph and consumed by FormatPage. Element order follows source
// block order.
type PageContent struct {
	KeyValuePairs  []KeyValue
	SectionHeaders []string
	Tables         []TableGrid
	RawText        []string
}

// ProcessBlocks reconstructs a page's content from its flat block list.
//
// The first pass builds every table grid and records the lower-cased,
// trimmed text of each non-empty cell; the second pass resolves key-value
// pairs and classifies LINE blocks, suppressing lines whose text overlaps
// any recorded table cell so table content does not bleed into body text.
func ProcessBlocks(list []Block) PageContent {
	var content PageContent
	if len(list) == 0 {
		return content
	}

	idx := NewIndex(list)
	tableTexts := make(map[string]struct{})

	for _, b := range list {
		if b.Type != TypeTable {
			continue
		}
		grid := BuildGrid(b, idx)
		if grid == nil {
			continue
		}
		content.Tables = append(content.Tables, grid)
		for _, row := range grid {
			for _, cell := range row {
				cleaned := strings.ToLower(strings.TrimSpace(cell))
				if cleaned != "" {
					tableTexts[cleaned] = struct{}{}
				}
			}
		}
	}

	for _, b := range list {
		switch b.Type {
		case TypeKeyValueSet:
			if !b.hasEntity(EntityKey) {
				continue
			}
			key := textFromChildren(b, idx)
			var value strings.Builder
			for _, id := range b.relations(RelationValue) {
				if vb, ok := idx[id]; ok {
					value.WriteString(textFromChildren(vb, idx))
					value.WriteString(" ")
				}
			}
			content.KeyValuePairs = append(content.KeyValuePairs, KeyValue{
				Key:   strings.TrimSpace(key),
				Value: strings.TrimSpace(value.String()),
			})

		case TypeLine:
			text := strings.TrimSpace(b.Text)
			if text == "" {
				continue
			}
			lower := strings.ToLower(text)
			if overlapsTableText(lower, tableTexts) {
				continue
			}
			if isSectionHeader(text, lower) {
				content.SectionHeaders = append(content.SectionHeaders, text)
			} else {
				content.RawText = append(content.RawText, text)
			}
		}
	}

	return content
}

// overlapsTableText reports whether the line text is a substring of, or
// contains, any recorded table-cell text.
func overlapsTableText(lower string, tableTexts map[string]struct{}) bool {
	for t := range tableTexts {
		if strings.Contains(t, lower) || strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// isSectionHeader applies the loose header heuristic: a markdown heading
// marker or a summary/results mention.
func isSectionHeader(text, lower string) bool {
	return strings.HasPrefix(text, "##") ||
		strings.Contains(lower, "summary") ||
		strings.Contains(lower, "results")
}

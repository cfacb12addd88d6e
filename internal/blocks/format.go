package blocks

import (
	"regexp"
	"strings"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// FormatPage merges a page's structured content into one markdown-like
// string.
//
// Output order: each section header is followed by the next unconsumed
// raw-text item and the next unconsumed table — pairing by consumption
// order, not spatial proximity. Remaining raw text comes next, then
// remaining tables, then all key-value pairs as a key line followed by a
// value line. Consumption uses forward cursors into the raw-text and
// table lists; the PageContent itself is never mutated. Runs of three or
// more blank lines collapse to a single blank line.
func FormatPage(content PageContent) string {
	var lines []string
	rawCur, tabCur := 0, 0

	for _, header := range content.SectionHeaders {
		lines = append(lines, "## "+header, "")

		if rawCur < len(content.RawText) {
			lines = append(lines, "", strings.TrimSpace(content.RawText[rawCur]), "")
			rawCur++
		}

		if tabCur < len(content.Tables) {
			md := ToMarkdown(content.Tables[tabCur])
			tabCur++
			if md != "" {
				lines = append(lines, md, "")
			}
		}
	}

	for ; rawCur < len(content.RawText); rawCur++ {
		text := strings.TrimSpace(content.RawText[rawCur])
		if text != "" {
			lines = append(lines, text, "")
		}
	}

	for ; tabCur < len(content.Tables); tabCur++ {
		if md := ToMarkdown(content.Tables[tabCur]); md != "" {
			lines = append(lines, md, "")
		}
	}

	for _, kv := range content.KeyValuePairs {
		lines = append(lines, kv.Key, kv.Value, "")
	}

	out := strings.TrimSpace(strings.Join(lines, "\n"))
	return blankRuns.ReplaceAllString(out, "\n\n")
}

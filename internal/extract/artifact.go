package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"docverify/pkg/models"
)

// The extraction artifact is JSON-shaped but not JSON: page texts are
// written between """ fences with raw newlines, so artifacts stay
// readable and diffable without escaping. WriteArtifact and ReadArtifact
// are the only code that touches this format.

// WriteArtifact persists the ordered page texts to path.
func WriteArtifact(path string, pages []models.PageText) error {
	var sb strings.Builder
	sb.WriteString("{\n")
	for i, page := range pages {
		if i > 0 {
			sb.WriteString(",\n")
		}
		fmt.Fprintf(&sb, "    \"page_%d\": \"\"\"\n%s\n\"\"\"", page.Number, page.Text)
	}
	sb.WriteString("\n}\n")

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write extraction artifact %s: %w", path, err)
	}
	return nil
}

var (
	artifactKeyRe    = regexp.MustCompile(`"page_(\d+)"\s*:\s*$`)
	artifactRepairRe = regexp.MustCompile(`(?s)"page_(\d+)"\s*:\s*"""\n?(.*?)\n?"""`)
)

// ReadArtifact parses an extraction artifact back into ordered page
// texts. It first runs the fence tokenizer; if the file does not split
// cleanly on """ fences it falls back to a standard-JSON parse (for
// artifacts written by other tools) and then to a lenient regex repair
// pass before giving up with ErrMalformedArtifact.
func ReadArtifact(path string) ([]models.PageText, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction artifact %s: %w", path, err)
	}

	pages, err := parseFenced(string(data))
	if err == nil {
		return pages, nil
	}
	if pages, ok := parseStandardJSON(data); ok {
		return pages, nil
	}
	if pages := repairParse(string(data)); len(pages) > 0 {
		return pages, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrMalformedArtifact, path)
}

// parseFenced tokenizes the artifact on """ fences. Segments alternate
// between structure (holding the page key) and verbatim page text; the
// writer frames each text with exactly one newline on either side, which
// the parser strips back off.
func parseFenced(data string) ([]models.PageText, error) {
	parts := strings.Split(data, `"""`)
	if len(parts) < 3 || len(parts)%2 == 0 {
		return nil, ErrMalformedArtifact
	}

	var pages []models.PageText
	for i := 0; i+1 < len(parts); i += 2 {
		structure := strings.TrimRight(parts[i], " \t")
		m := artifactKeyRe.FindStringSubmatch(structure)
		if m == nil {
			return nil, ErrMalformedArtifact
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, ErrMalformedArtifact
		}
		pages = append(pages, models.PageText{
			Number: num,
			Text:   unframe(parts[i+1]),
		})
	}

	sortPages(pages)
	return pages, nil
}

// parseStandardJSON accepts an artifact that was written as regular JSON
// with escaped strings instead of fenced text.
func parseStandardJSON(data []byte) ([]models.PageText, bool) {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}

	var pages []models.PageText
	for key, text := range raw {
		if !strings.HasPrefix(key, "page_") {
			return nil, false
		}
		num, err := strconv.Atoi(strings.TrimPrefix(key, "page_"))
		if err != nil {
			return nil, false
		}
		pages = append(pages, models.PageText{Number: num, Text: text})
	}
	if len(pages) == 0 {
		return nil, false
	}

	sortPages(pages)
	return pages, true
}

// repairParse scans for page entries with a single regex, recovering what
// it can from an artifact with damaged structure.
func repairParse(data string) []models.PageText {
	var pages []models.PageText
	for _, m := range artifactRepairRe.FindAllStringSubmatch(data, -1) {
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, models.PageText{Number: num, Text: m[2]})
	}
	sortPages(pages)
	return pages
}

// unframe removes the single framing newline the writer adds on each side
// of the page text.
func unframe(s string) string {
	s = strings.TrimPrefix(s, "\n")
	s = strings.TrimSuffix(s, "\n")
	return s
}

func sortPages(pages []models.PageText) {
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].Number < pages[j].Number
	})
}

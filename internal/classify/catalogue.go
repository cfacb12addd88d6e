package classify

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CatalogueSheetName is the worksheet the term catalogue is read from.
const CatalogueSheetName = "Document List"

// DocumentClass is one document class and its identification terms, in
// catalogue order.
type DocumentClass struct {
	Name  string
	Terms []string
}

// TermCatalogue is the ordered set of document classes the matcher scores
// against. Order matters: on tied confidence the earlier class wins.
type TermCatalogue struct {
	Classes []DocumentClass
}

// LoadCatalogueXLSX reads the term catalogue from the "Document List"
// sheet of an .xlsx workbook. The first column is descriptive and
// dropped; each remaining column is one document class, named by the
// header row, with its terms listed below. Blank cells are skipped.
func LoadCatalogueXLSX(path string) (*TermCatalogue, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open term catalogue %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(CatalogueSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q from %s: %w", CatalogueSheetName, path, err)
	}

	catalogue, err := buildCatalogue(rows)
	if err != nil {
		return nil, fmt.Errorf("invalid term catalogue %s: %w", path, err)
	}
	return catalogue, nil
}

// buildCatalogue turns sheet rows into the ordered catalogue. Shared by
// the xlsx and Google Sheets sources.
func buildCatalogue(rows [][]string) (*TermCatalogue, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("no document class columns after the first column")
	}

	catalogue := &TermCatalogue{}
	// Column 0 holds row labels, not a class.
	for col := 1; col < len(header); col++ {
		name := strings.TrimSpace(header[col])
		if name == "" {
			continue
		}

		class := DocumentClass{Name: name}
		for _, row := range rows[1:] {
			if col >= len(row) {
				continue
			}
			term := strings.TrimSpace(row[col])
			if term != "" {
				class.Terms = append(class.Terms, term)
			}
		}
		catalogue.Classes = append(catalogue.Classes, class)
	}

	if len(catalogue.Classes) == 0 {
		return nil, fmt.Errorf("no named document class columns")
	}
	return catalogue, nil
}

// SaveJSON writes the catalogue as a class-to-terms JSON side-file. The
// verifier removes it again when the run ends.
func (c *TermCatalogue) SaveJSON(path string) error {
	out := make(map[string][]string, len(c.Classes))
	for _, class := range c.Classes {
		out[class.Name] = class.Terms
	}

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize term catalogue: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write term catalogue side-file %s: %w", path, err)
	}
	return nil
}

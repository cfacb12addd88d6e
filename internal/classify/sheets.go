package classify

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"docverify/internal/logger"
)

// SheetsSource loads the term catalogue from a Google Sheet instead of a
// local .xlsx file. The sheet uses the same layout: a "Document List"
// tab, first column dropped, one class per remaining column.
type SheetsSource struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// NewSheetsSource creates the source for one spreadsheet URL. Credentials
// come from GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS.
func NewSheetsSource(ctx context.Context, sheetURL string) (*SheetsSource, error) {
	const op = "NewSheetsSource"

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &SheetsSource{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           logger.WithComponent("sheets"),
	}, nil
}

// LoadCatalogue reads the "Document List" tab and builds the catalogue.
func (s *SheetsSource) LoadCatalogue(ctx context.Context) (*TermCatalogue, error) {
	const op = "LoadCatalogue"

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, CatalogueSheetName).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %q: %w", op, CatalogueSheetName, err)
	}

	rows := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}

	catalogue, err := buildCatalogue(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid term sheet: %w", op, err)
	}

	s.log.Info().
		Int("classes", len(catalogue.Classes)).
		Msg("loaded term catalogue from Google Sheet")
	return catalogue, nil
}

// IsSheetURL reports whether the catalogue source is a Google Sheets URL
// rather than a local file path.
func IsSheetURL(source string) bool {
	return strings.Contains(source, "docs.google.com/spreadsheets")
}

func extractSpreadsheetID(url string) (string, error) {
	matches := spreadsheetIDRe.FindStringSubmatch(url)
	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}
	return matches[1], nil
}

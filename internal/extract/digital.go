package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"docverify/internal/blocks"
	"docverify/internal/logger"
	"docverify/pkg/models"
)

// DigitalExtractor reads the embedded text layer of a born-digital PDF.
// Detected tables are rendered as markdown and appended after the page's
// plain text.
type DigitalExtractor struct {
	log zerolog.Logger
}

// NewDigitalExtractor creates the digital extraction path.
func NewDigitalExtractor() *DigitalExtractor {
	return &DigitalExtractor{log: logger.WithComponent("digital-extract")}
}

// Extract reads every page's text layer, appends detected tables as
// markdown, and writes the artifact to outputDir.
func (e *DigitalExtractor) Extract(ctx context.Context, filePath, outputDir string) (*Result, error) {
	f, reader, err := pdf.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadablePDF, filePath, err)
	}
	defer f.Close()

	total := reader.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("%w: %s: no pages", ErrUnreadablePDF, filePath)
	}

	log := e.log.With().Str("file", filePath).Logger()
	pages := make([]models.PageText, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, models.PageText{Number: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Warn().Int("page", i).Err(err).Msg("text layer unreadable, page recorded empty")
			pages = append(pages, models.PageText{Number: i})
			continue
		}

		pages = append(pages, models.PageText{
			Number: i,
			Text:   composePage(text, detectTables(page.Content().Text)),
		})
	}

	outputFile := ArtifactPath(outputDir, filePath)
	if err := WriteArtifact(outputFile, pages); err != nil {
		return nil, err
	}

	log.Info().Int("pages", total).Str("output", outputFile).Msg("digital extraction completed")
	return &Result{Pages: pages, OutputFile: outputFile}, nil
}

// composePage joins a page's plain text with its table renditions, tables
// after text, separated by blank lines.
func composePage(text string, tables []blocks.TableGrid) string {
	parts := []string{strings.TrimSpace(text)}
	for _, grid := range tables {
		if md := blocks.ToMarkdown(grid); md != "" {
			parts = append(parts, md)
		}
	}

	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n\n")
}

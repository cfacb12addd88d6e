package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"docverify/internal/blocks"
	"docverify/internal/logger"
	"docverify/internal/ocr"
	"docverify/pkg/models"
)

// ScannedExtractor handles PDFs without a usable text layer: every page
// is rasterized to PNG, analyzed by the OCR engine, and the resulting
// block graph is reconstructed into structured page text.
type ScannedExtractor struct {
	engine ocr.Engine
	dpi    int
	log    zerolog.Logger
}

// NewScannedExtractor creates the scanned extraction path. The engine is
// owned by the caller and shared across files.
func NewScannedExtractor(engine ocr.Engine, dpi int) *ScannedExtractor {
	if dpi <= 0 {
		dpi = 150
	}
	return &ScannedExtractor{
		engine: engine,
		dpi:    dpi,
		log:    logger.WithComponent("scanned-extract"),
	}
}

// Extract rasterizes and analyzes every page, then writes the artifact to
// outputDir. A page without detectable content is recorded as empty text;
// a page that fails to rasterize or analyze fails the whole file, with no
// per-page retry.
func (e *ScannedExtractor) Extract(ctx context.Context, filePath, outputDir string) (*Result, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadablePDF, filePath, err)
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("%w: %s: no pages", ErrUnreadablePDF, filePath)
	}

	log := e.log.With().Str("file", filePath).Logger()
	pages := make([]models.PageText, 0, total)

	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImagePNG(i, float64(e.dpi))
		if err != nil {
			return nil, fmt.Errorf("failed to rasterize page %d of %s: %w", i+1, filePath, err)
		}

		list, err := e.engine.AnalyzePage(ctx, img)
		if err != nil {
			// A blank page is not a failure; it is recorded empty, like a
			// page the engine returns zero blocks for.
			if errors.Is(err, ocr.ErrEmptyPage) {
				log.Debug().Int("page", i+1).Msg("no detectable content, page recorded empty")
				pages = append(pages, models.PageText{Number: i + 1})
				continue
			}
			return nil, fmt.Errorf("OCR failed on page %d of %s: %w", i+1, filePath, err)
		}

		content := blocks.ProcessBlocks(list)
		pages = append(pages, models.PageText{
			Number: i + 1,
			Text:   blocks.FormatPage(content),
		})
		log.Debug().Int("page", i+1).Int("blocks", len(list)).Msg("page analyzed")
	}

	outputFile := ArtifactPath(outputDir, filePath)
	if err := WriteArtifact(outputFile, pages); err != nil {
		return nil, err
	}

	log.Info().Int("pages", total).Str("output", outputFile).Msg("scanned extraction completed")
	return &Result{Pages: pages, OutputFile: outputFile}, nil
}

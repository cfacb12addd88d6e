// Package extract turns one PDF into per-page text through one of two
// paths: the digital path reads the embedded text layer and detects
// tables from character positions; the scanned path rasterizes each page
// and reconstructs content from the OCR block graph. Both paths persist
// the result as the triple-quoted extraction artifact.
package extract

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"docverify/pkg/models"
)

var (
	// ErrUnreadablePDF is returned when the input file cannot be opened or
	// parsed as a PDF, or has zero pages.
	ErrUnreadablePDF = errors.New("unreadable PDF")

	// ErrMalformedArtifact is returned when an extraction artifact cannot
	// be parsed, even after the repair pass.
	ErrMalformedArtifact = errors.New("malformed extraction artifact")
)

// Result is the outcome of extracting one file: the ordered page map and
// the artifact it was persisted to.
type Result struct {
	Pages      []models.PageText
	OutputFile string
}

// Text joins all page texts with single spaces, the form consumed by the
// term matcher.
func (r *Result) Text() string {
	parts := make([]string, len(r.Pages))
	for i, p := range r.Pages {
		parts[i] = p.Text
	}
	return strings.Join(parts, " ")
}

// Extractor is one extraction path. Implementations write the artifact to
// outputDir before returning.
type Extractor interface {
	Extract(ctx context.Context, filePath, outputDir string) (*Result, error)
}

// ArtifactPath returns the artifact location for an input file:
// <outputDir>/<base-without-extension>_extracted.json.
func ArtifactPath(outputDir, inputPath string) string {
	base := filepath.Base(inputPath)
	if dot := strings.Index(base, "."); dot >= 0 {
		base = base[:dot]
	}
	return filepath.Join(outputDir, base+"_extracted.json")
}

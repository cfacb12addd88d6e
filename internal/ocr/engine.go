// Package ocr provides page-level document analysis through external
// services, normalized into the block graph consumed by internal/blocks.
//
// Two engines are available:
//   - Document AI (default): table and form-field extraction plus text
//     lines. The response proto is converted into TABLE/CELL/KEY_VALUE_SET/
//     LINE/WORD blocks with CHILD and VALUE relationships.
//   - Vision: text-only fallback producing LINE blocks. Useful when no
//     Document AI processor is provisioned; tables and key-value pairs are
//     not available on this engine.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_PROJECT_ID: Google Cloud project ID (Document AI)
//   - GOOGLE_PROCESSOR_ID: Document AI processor ID (Document AI)
//
// Engines are constructed once per batch run by the caller and must be
// closed when the run ends. One AnalyzePage call is one blocking service
// round-trip for one rasterized page; there is no batching across pages.
package ocr

import (
	"context"

	"docverify/internal/blocks"
)

// Engine analyzes one rasterized page image and returns its block graph.
type Engine interface {
	// AnalyzePage submits a PNG-encoded page image to the document-analysis
	// service and returns the normalized block list for that page.
	AnalyzePage(ctx context.Context, pageImage []byte) ([]blocks.Block, error)

	// Close releases the underlying service client.
	Close() error
}

// Engine names accepted by NewEngine.
const (
	EngineDocumentAI = "documentai"
	EngineVision     = "vision"
)

// NewEngine constructs the engine selected by name (OCR_ENGINE config).
// An empty name selects Document AI.
func NewEngine(ctx context.Context, name string) (Engine, error) {
	switch name {
	case "", EngineDocumentAI:
		return NewDocumentAIEngine(ctx)
	case EngineVision:
		return NewVisionEngine(ctx)
	default:
		return nil, WrapOCRError("NewEngine", ErrUnknownEngine, name)
	}
}

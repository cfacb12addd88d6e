// Package classify decides how each PDF is processed and what document
// class it belongs to: the page classifier routes files between the
// digital and OCR extraction paths, and the term matcher scores extracted
// text against the identification term catalogue.
package classify

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"docverify/internal/logger"
	"docverify/pkg/models"
)

// PageClassifier routes a PDF to the digital or scanned extraction path
// based on the word count of its first page's text layer. A scan with no
// text layer counts zero words and lands on the OCR path.
type PageClassifier struct {
	threshold int
	log       zerolog.Logger
}

// NewPageClassifier creates a classifier with the given word-count
// threshold. First pages at or above the threshold are treated as
// born-digital.
func NewPageClassifier(threshold int) *PageClassifier {
	return &PageClassifier{
		threshold: threshold,
		log:       logger.WithComponent("classifier"),
	}
}

// Classify reads the first page's text layer and returns the document
// type. Files that cannot be opened as PDFs return an error; the caller
// decides whether to fail the file or the run.
func (c *PageClassifier) Classify(filePath string) (models.DocumentType, error) {
	doc, err := fitz.New(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s for classification: %w", filePath, err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("failed to classify %s: no pages", filePath)
	}

	text, err := doc.Text(0)
	if err != nil {
		return "", fmt.Errorf("failed to read first page of %s: %w", filePath, err)
	}

	docType := ClassifyText(text, c.threshold)
	c.log.Debug().
		Str("file", filePath).
		Int("words", CountWords(text)).
		Str("type", string(docType)).
		Msg("page classified")
	return docType, nil
}

// ClassifyText applies the word-count rule to already-extracted first
// page text.
func ClassifyText(text string, threshold int) models.DocumentType {
	if CountWords(text) >= threshold {
		return models.DocumentTypeNormal
	}
	return models.DocumentTypeScanned
}

// CountWords counts whitespace-separated tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Package verify orchestrates one batch run: enumerate the batch folder,
// sniff out non-PDFs, classify each file, extract scanned then normal
// documents, score the text against the term catalogue, and write the
// verification report.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"docverify/internal/classify"
	"docverify/internal/extract"
	"docverify/internal/logger"
	"docverify/pkg/models"
)

// Classifier routes one file between the extraction paths.
type Classifier interface {
	Classify(filePath string) (models.DocumentType, error)
}

// BatchVerifier runs the verification pipeline over one batch folder.
// One file failing classification or extraction produces a failed record
// and never aborts the batch.
type BatchVerifier struct {
	classifier   Classifier
	digital      extract.Extractor
	scanned      extract.Extractor
	catalogue    *classify.TermCatalogue
	extractedDir string
	log          zerolog.Logger
}

// Summary is the outcome of one batch run.
type Summary struct {
	Records []models.VerificationRecord
	Skipped []string // non-PDF files found in the batch folder
}

// New creates a batch verifier. Extraction artifacts are written to
// extractedDir, which is created if missing.
func New(classifier Classifier, digital, scanned extract.Extractor, catalogue *classify.TermCatalogue, extractedDir string) *BatchVerifier {
	return &BatchVerifier{
		classifier:   classifier,
		digital:      digital,
		scanned:      scanned,
		catalogue:    catalogue,
		extractedDir: extractedDir,
		log:          logger.WithComponent("verify"),
	}
}

// Run processes every PDF in batchDir and returns the collected records.
// Scanned documents are processed before normal ones. Only an unreadable
// batch folder fails the run itself.
func (v *BatchVerifier) Run(ctx context.Context, batchDir string) (*Summary, error) {
	if err := os.MkdirAll(v.extractedDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output folder %s: %w", v.extractedDir, err)
	}

	entries, err := os.ReadDir(batchDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch folder %s: %w", batchDir, err)
	}

	summary := &Summary{}
	var scanned, normal []models.FileRecord

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(batchDir, entry.Name())

		if !isPDF(path) {
			v.log.Warn().Str("file", path).Msg("not a PDF, skipped")
			summary.Skipped = append(summary.Skipped, entry.Name())
			continue
		}

		record := models.FileRecord{Path: path, BaseName: entry.Name()}
		docType, err := v.classifier.Classify(path)
		if err != nil {
			v.log.Error().Str("file", path).Err(err).Msg("classification failed")
			summary.Records = append(summary.Records, failedRecord(record))
			continue
		}
		record.Type = docType

		if docType == models.DocumentTypeScanned {
			scanned = append(scanned, record)
		} else {
			normal = append(normal, record)
		}
	}

	v.log.Info().
		Int("scanned", len(scanned)).
		Int("normal", len(normal)).
		Int("skipped", len(summary.Skipped)).
		Msg("batch classified")

	// Scanned documents go first so OCR failures surface early.
	for _, record := range scanned {
		summary.Records = append(summary.Records, v.processFile(ctx, record, v.scanned))
	}
	for _, record := range normal {
		summary.Records = append(summary.Records, v.processFile(ctx, record, v.digital))
	}

	return summary, nil
}

// processFile extracts one file and scores it against the catalogue. Any
// failure yields a failed record for this file only.
func (v *BatchVerifier) processFile(ctx context.Context, record models.FileRecord, extractor extract.Extractor) models.VerificationRecord {
	log := logger.WithFile("verify", record.Path)

	result, err := extractor.Extract(ctx, record.Path, v.extractedDir)
	if err != nil {
		log.Error().Err(err).Str("type", string(record.Type)).Msg("extraction failed")
		return failedRecord(record)
	}

	match := classify.Match(result.Text(), v.catalogue)
	out := models.VerificationRecord{
		ClassificationStatus:   match.Matched,
		FileName:               record.BaseName,
		FileLocation:           record.Path,
		DocumentType:           record.Type,
		DocumentClass:          match.Class,
		MatchedConfidenceScore: match.Confidence,
		MatchedTerms:           match.Terms,
		ExtractedTextJSONPath:  result.OutputFile,
	}
	if out.MatchedTerms == nil {
		out.MatchedTerms = []string{}
	}

	log.Info().
		Bool("matched", match.Matched).
		Str("class", match.Class).
		Float64("confidence", match.Confidence).
		Msg("file verified")
	return out
}

// failedRecord is the terminal record for a file that could not be
// classified or extracted.
func failedRecord(record models.FileRecord) models.VerificationRecord {
	return models.VerificationRecord{
		ClassificationStatus: false,
		FileName:             record.BaseName,
		FileLocation:         record.Path,
		DocumentType:         record.Type,
		MatchedTerms:         []string{},
	}
}

var pdfMagic = []byte("%PDF")

// isPDF requires both the .pdf extension and the %PDF header, so renamed
// non-PDFs never reach the extractors.
func isPDF(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	header := make([]byte, len(pdfMagic))
	n, err := f.Read(header)
	if err != nil || n < len(pdfMagic) {
		return false
	}
	return bytes.Equal(header, pdfMagic)
}

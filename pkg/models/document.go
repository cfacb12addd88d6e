// Package models contains the shared data structures for document
// verification: batch file records, per-page extracted text, and the
// verification report entries written at the end of a run.
package models

// DocumentType distinguishes the two extraction paths.
type DocumentType string

const (
	// DocumentTypeNormal marks a PDF with a usable embedded text layer.
	DocumentTypeNormal DocumentType = "normal"

	// DocumentTypeScanned marks an image-based PDF that requires OCR.
	DocumentTypeScanned DocumentType = "scanned"
)

// FileRecord describes one file discovered in the batch folder.
// Type is set once by the page classifier and never changes afterwards.
type FileRecord struct {
	Path     string       `json:"fullPath"`
	BaseName string       `json:"name"`
	Type     DocumentType `json:"type"`
}

// PageText is one page of extracted text. Pages are 1-based and kept in
// page order; the artifact writer emits them as page_1, page_2, ...
type PageText struct {
	Number int
	Text   string
}

// VerificationRecord is the terminal artifact for one input file.
//
// The JSON field names match the verification output consumed downstream,
// including the historical "classficationStatus" spelling.
type VerificationRecord struct {
	ClassificationStatus  bool         `json:"classficationStatus"`
	FileName              string       `json:"fileName"`
	FileLocation          string       `json:"fileLocation"`
	DocumentType          DocumentType `json:"documentType"`
	DocumentClass         string       `json:"documentClass"`
	MatchedConfidenceScore float64     `json:"matchedConfidenceScore"`
	MatchedTerms          []string     `json:"matchedTerms"`
	ExtractedTextJSONPath string       `json:"extractedTextJsonPath"`
	Watermark             string       `json:"watermark"`
	PercentHandwritten    float64      `json:"percentHandwritten"`
	PercentTyped          float64      `json:"percentTyped"`
}

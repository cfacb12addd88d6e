package ocr

import (
	"errors"
	"fmt"
)

// Common OCR engine errors
var (
	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidImage is returned when the page image payload is empty or unusable.
	ErrInvalidImage = errors.New("invalid or empty page image")

	// ErrAnalyzeFailed is returned when the document-analysis service fails to
	// process the page.
	ErrAnalyzeFailed = errors.New("document analysis failed")

	// ErrEmptyPage is returned when the service found no content on the page.
	ErrEmptyPage = errors.New("page contains no detectable content")

	// ErrContextCanceled is returned when the context is canceled during analysis.
	ErrContextCanceled = errors.New("page analysis was canceled")

	// ErrUnknownEngine is returned for an unrecognized OCR_ENGINE setting.
	ErrUnknownEngine = errors.New("unknown OCR engine")
)

// OCRError wraps errors with additional context about the analysis failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "AnalyzePage", "NewDocumentAIEngine").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err // Already wrapped
	}

	return NewOCRError(op, err, details)
}

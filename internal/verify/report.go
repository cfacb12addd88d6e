package verify

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"docverify/pkg/models"
)

// ValidateRecords checks every record carries the fields downstream
// consumers rely on. Failed records are valid; records with no file
// identity are not.
func ValidateRecords(records []models.VerificationRecord) error {
	for i, r := range records {
		if r.FileName == "" {
			return fmt.Errorf("record %d: fileName is empty", i)
		}
		if r.FileLocation == "" {
			return fmt.Errorf("record %d (%s): fileLocation is empty", i, r.FileName)
		}
		if r.ClassificationStatus && r.DocumentClass == "" {
			return fmt.Errorf("record %d (%s): classified without a document class", i, r.FileName)
		}
	}
	return nil
}

// WriteReport atomically writes the verification report: the records are
// marshaled to a temp file in the target directory and renamed into
// place, so a crash mid-write never leaves a truncated report.
func WriteReport(path string, records []models.VerificationRecord) error {
	if err := ValidateRecords(records); err != nil {
		return fmt.Errorf("invalid verification records: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize verification report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create report folder %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".verification-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp report file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close report: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

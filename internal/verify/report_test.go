package verify_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docverify/internal/verify"
	"docverify/pkg/models"
)

func validRecord(name string) models.VerificationRecord {
	return models.VerificationRecord{
		ClassificationStatus:   true,
		FileName:               name,
		FileLocation:           "/batch/" + name,
		DocumentType:           models.DocumentTypeNormal,
		DocumentClass:          "Invoice",
		MatchedConfidenceScore: 0.5,
		MatchedTerms:           []string{"invoice number"},
		ExtractedTextJSONPath:  "/out/" + name + "_extracted.json",
	}
}

func TestValidateRecords(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.VerificationRecord)
		wantErr bool
	}{
		{"valid", func(r *models.VerificationRecord) {}, false},
		{"failed record is valid", func(r *models.VerificationRecord) {
			r.ClassificationStatus = false
			r.DocumentClass = ""
		}, false},
		{"missing file name", func(r *models.VerificationRecord) { r.FileName = "" }, true},
		{"missing location", func(r *models.VerificationRecord) { r.FileLocation = "" }, true},
		{"classified without class", func(r *models.VerificationRecord) { r.DocumentClass = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord("a.pdf")
			tt.mutate(&r)
			err := verify.ValidateRecords([]models.VerificationRecord{r})
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRecords error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "verification.json")
	records := []models.VerificationRecord{validRecord("a.pdf"), validRecord("b.pdf")}

	if err := verify.WriteReport(path, records); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []models.VerificationRecord
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if len(got) != 2 || got[0].FileName != "a.pdf" || got[1].FileName != "b.pdf" {
		t.Errorf("report records = %+v", got)
	}

	// The historical field spelling is part of the report contract.
	if !strings.Contains(string(data), `"classficationStatus"`) {
		t.Errorf("report missing classficationStatus field: %s", data)
	}

	// No temp file left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("report folder has %d entries, want 1", len(entries))
	}
}

func TestWriteReportCreatesFolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "verification.json")
	if err := verify.WriteReport(path, []models.VerificationRecord{validRecord("a.pdf")}); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("report not written: %v", err)
	}
}

func TestWriteReportRejectsInvalidRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verification.json")
	bad := validRecord("a.pdf")
	bad.FileName = ""

	if err := verify.WriteReport(path, []models.VerificationRecord{bad}); err == nil {
		t.Error("WriteReport accepted an invalid record")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid report was written anyway")
	}
}

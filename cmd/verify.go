package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docverify/internal/classify"
	"docverify/internal/config"
	"docverify/internal/extract"
	"docverify/internal/logger"
	"docverify/internal/ocr"
	"docverify/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a batch folder of PDF documents",
	Long: `Process every PDF in the configured batch folder.

Each file is classified by its first page's word count: files at or above
the threshold use the embedded text layer, files below it are rasterized
and sent through the OCR engine. Extracted text is scored against the
identification term catalogue and a verification report is written.

Required environment variables:
  BATCH_FOLDER - Folder containing the input PDFs
  IDENTIFICATION_TERMS_LIST_FILE - .xlsx term catalogue, OR
  IDENTIFICATION_TERMS_SHEET_URL - Google Sheet with the same layout

For scanned documents (Document AI engine):
  GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
  GOOGLE_PROJECT_ID, GOOGLE_PROCESSOR_ID`,
	Example: `  # Verify the configured batch folder
  docverify verify

  # Override the batch folder and threshold
  docverify verify --batch ./invoices --threshold 80

  # Use the text-only Vision engine for scanned documents
  docverify verify --engine vision`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().String("batch", "", "Batch folder (overrides BATCH_FOLDER)")
	verifyCmd.Flags().String("terms", "", "Term catalogue .xlsx file (overrides IDENTIFICATION_TERMS_LIST_FILE)")
	verifyCmd.Flags().String("engine", "", "OCR engine: documentai or vision (overrides OCR_ENGINE)")
	verifyCmd.Flags().Int("threshold", 0, "First-page word count threshold (overrides COUNT_THRESHOLD)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("verify-cmd")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if batch, _ := cmd.Flags().GetString("batch"); batch != "" {
		cfg.BatchFolder = batch
	}
	if terms, _ := cmd.Flags().GetString("terms"); terms != "" {
		cfg.TermsFile = terms
	}
	if engine, _ := cmd.Flags().GetString("engine"); engine != "" {
		cfg.OCREngine = engine
	}
	if threshold, _ := cmd.Flags().GetInt("threshold"); threshold > 0 {
		cfg.CountThreshold = threshold
	}

	ctx, cancel := signalContext()
	defer cancel()

	catalogue, err := loadCatalogue(ctx, cfg)
	if err != nil {
		return err
	}

	// The catalogue side-file only exists for the duration of the run.
	sidecar := cfg.TermsSidecarPath()
	if err := os.MkdirAll(cfg.OutputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}
	if err := catalogue.SaveJSON(sidecar); err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(sidecar); err != nil {
			log.Warn().Err(err).Str("file", sidecar).Msg("failed to remove term side-file")
		}
	}()

	engine, err := ocr.NewEngine(ctx, cfg.OCREngine)
	if err != nil {
		return fmt.Errorf("failed to create OCR engine: %w", err)
	}
	defer engine.Close()

	verifier := verify.New(
		classify.NewPageClassifier(cfg.CountThreshold),
		extract.NewDigitalExtractor(),
		extract.NewScannedExtractor(engine, cfg.RasterDPI),
		catalogue,
		cfg.ExtractedDir(),
	)

	log.Info().
		Str("batch", cfg.BatchDir()).
		Str("engine", cfg.OCREngine).
		Int("threshold", cfg.CountThreshold).
		Msg("Starting batch verification")

	summary, err := verifier.Run(ctx, cfg.BatchDir())
	if err != nil {
		return err
	}

	reportPath := cfg.VerificationPath()
	if err := verify.WriteReport(reportPath, summary.Records); err != nil {
		return err
	}

	matched := 0
	for _, r := range summary.Records {
		if r.ClassificationStatus {
			matched++
		}
	}
	log.Info().
		Int("files", len(summary.Records)).
		Int("matched", matched).
		Int("skipped", len(summary.Skipped)).
		Str("report", reportPath).
		Msg("Batch verification completed")

	fmt.Printf("Verified %d files (%d matched, %d skipped), report: %s\n",
		len(summary.Records), matched, len(summary.Skipped), reportPath)
	return nil
}

// loadCatalogue reads the term catalogue from the configured source,
// preferring the local .xlsx file over the Google Sheet.
func loadCatalogue(ctx context.Context, cfg *config.Config) (*classify.TermCatalogue, error) {
	if cfg.TermsFile != "" {
		return classify.LoadCatalogueXLSX(cfg.TermsFile)
	}

	source, err := classify.NewSheetsSource(ctx, cfg.TermsSheetURL)
	if err != nil {
		return nil, err
	}
	return source.LoadCatalogue(ctx)
}

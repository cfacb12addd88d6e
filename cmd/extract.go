package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docverify/internal/classify"
	"docverify/internal/config"
	"docverify/internal/extract"
	"docverify/internal/logger"
	"docverify/internal/ocr"
	"docverify/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract one PDF's text to an extraction artifact",
	Long: `Classify a single PDF and run the matching extraction path.

Born-digital files are read from their embedded text layer with table
detection; scanned files are rasterized and analyzed by the OCR engine.
The result is written as a per-page extraction artifact next to the
batch output.`,
	Example: `  # Extract a single file
  docverify extract invoice.pdf

  # Force the scanned path regardless of classification
  docverify extract scan.pdf --type scanned

  # Write the artifact into a specific folder
  docverify extract invoice.pdf -o ./extracted`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Artifact output folder (default: configured extracted folder)")
	extractCmd.Flags().String("type", "", "Force extraction path: normal or scanned")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract-cmd")
	filePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		// Single-file extraction does not need the batch settings.
		cfg = &config.Config{
			OutputPath:      "output",
			ExtractedFolder: "extracted",
			CountThreshold:  50,
			RasterDPI:       150,
			OCREngine:       ocr.EngineDocumentAI,
		}
		log.Debug().Err(err).Msg("batch config unavailable, using defaults")
	}

	outputDir, _ := cmd.Flags().GetString("output")
	if outputDir == "" {
		outputDir = cfg.ExtractedDir()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output folder %s: %w", outputDir, err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	docType := models.DocumentType("")
	if forced, _ := cmd.Flags().GetString("type"); forced != "" {
		docType = models.DocumentType(forced)
		if docType != models.DocumentTypeNormal && docType != models.DocumentTypeScanned {
			return fmt.Errorf("invalid --type %q: expected normal or scanned", forced)
		}
	} else {
		docType, err = classify.NewPageClassifier(cfg.CountThreshold).Classify(filePath)
		if err != nil {
			return err
		}
	}

	var extractor extract.Extractor
	if docType == models.DocumentTypeScanned {
		engine, err := ocr.NewEngine(ctx, cfg.OCREngine)
		if err != nil {
			return fmt.Errorf("failed to create OCR engine: %w", err)
		}
		defer engine.Close()
		extractor = extract.NewScannedExtractor(engine, cfg.RasterDPI)
	} else {
		extractor = extract.NewDigitalExtractor()
	}

	log.Info().
		Str("file", filePath).
		Str("type", string(docType)).
		Msg("Starting extraction")

	result, err := extractor.Extract(ctx, filePath, outputDir)
	if err != nil {
		return err
	}

	fmt.Printf("Extracted %d pages (%s) to %s\n", len(result.Pages), docType, result.OutputFile)
	return nil
}

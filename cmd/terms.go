package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"docverify/internal/classify"
	"docverify/internal/logger"
)

var termsCmd = &cobra.Command{
	Use:   "terms [xlsx-file-or-sheet-url]",
	Short: "Inspect an identification term catalogue",
	Long: `Load a term catalogue and print its document classes and term counts.

The catalogue is read from the "Document List" sheet: the first column is
descriptive and dropped, each remaining column is one document class with
its identification terms listed below the header. The argument is either
a local .xlsx file or a Google Sheets URL.`,
	Example: `  # Inspect a local catalogue
  docverify terms ./terms.xlsx

  # Inspect a Google Sheet catalogue
  docverify terms https://docs.google.com/spreadsheets/d/SHEET_ID/edit

  # Write the catalogue as JSON
  docverify terms ./terms.xlsx -o terms.json`,
	Args: cobra.ExactArgs(1),
	RunE: runTerms,
}

func init() {
	rootCmd.AddCommand(termsCmd)

	termsCmd.Flags().StringP("output", "o", "", "Write the catalogue as JSON to this path")
}

func runTerms(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("terms-cmd")
	source := args[0]

	ctx, cancel := signalContext()
	defer cancel()

	catalogue, err := loadCatalogueSource(ctx, source)
	if err != nil {
		return err
	}

	log.Info().Int("classes", len(catalogue.Classes)).Msg("term catalogue loaded")
	for _, class := range catalogue.Classes {
		fmt.Printf("%s: %d terms\n", class.Name, len(class.Terms))
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := catalogue.SaveJSON(output); err != nil {
			return err
		}
		fmt.Printf("Catalogue written to %s\n", output)
	}
	return nil
}

// loadCatalogueSource reads the catalogue from a Google Sheets URL or a
// local .xlsx path.
func loadCatalogueSource(ctx context.Context, source string) (*classify.TermCatalogue, error) {
	if classify.IsSheetURL(source) {
		sheetsSource, err := classify.NewSheetsSource(ctx, source)
		if err != nil {
			return nil, err
		}
		return sheetsSource.LoadCatalogue(ctx)
	}
	return classify.LoadCatalogueXLSX(source)
}

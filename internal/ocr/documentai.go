package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docverify/internal/blocks"
	"docverify/internal/logger"
)

const (
	// MaxPageImageBytes is the maximum page image size for synchronous
	// processing (20MB, Document AI limit).
	MaxPageImageBytes = 20 * 1024 * 1024

	// defaultAnalyzeTimeout bounds one page round-trip.
	defaultAnalyzeTimeout = 60 * time.Second
)

// DocumentAIConfig holds configuration for the Document AI engine.
type DocumentAIConfig struct {
	ProjectID        string
	Location         string
	ProcessorID      string
	ProcessorVersion string
	Timeout          time.Duration
}

// DocumentAIEngine implements Engine using Google Document AI with TABLE
// and FORM feature extraction.
type DocumentAIEngine struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
	log    zerolog.Logger
}

// NewDocumentAIEngine creates the engine with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
// Requires: GOOGLE_PROJECT_ID, GOOGLE_PROCESSOR_ID
// Optional: GOOGLE_LOCATION (e.g., "us" or "eu"), GOOGLE_PROCESSOR_VERSION
func NewDocumentAIEngine(ctx context.Context) (Engine, error) {
	const op = "NewDocumentAIEngine"

	config := DocumentAIConfig{
		ProjectID:        getEnvVar("GOOGLE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT"),
		Location:         getEnvVar("GOOGLE_LOCATION", "GOOGLE_CLOUD_LOCATION"),
		ProcessorID:      getEnvVar("GOOGLE_PROCESSOR_ID", "DOCUMENT_AI_PROCESSOR_ID"),
		ProcessorVersion: os.Getenv("GOOGLE_PROCESSOR_VERSION"),
		Timeout:          defaultAnalyzeTimeout,
	}

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, ErrMissingCredentials, "GOOGLE_PROJECT_ID or GOOGLE_CLOUD_PROJECT is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}

	var clientOptions []option.ClientOption

	// Regional endpoint for anything outside the default US multi-region.
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIEngine{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}, nil
}

// NewDocumentAIEngineWithConfig creates the engine with explicit config and
// client (for testing).
func NewDocumentAIEngineWithConfig(config DocumentAIConfig, client *documentai.DocumentProcessorClient) Engine {
	if config.Timeout == 0 {
		config.Timeout = defaultAnalyzeTimeout
	}
	return &DocumentAIEngine{
		client: client,
		config: config,
		log:    logger.WithComponent("document-ai"),
	}
}

// AnalyzePage submits one PNG page image and returns its block graph.
func (e *DocumentAIEngine) AnalyzePage(ctx context.Context, pageImage []byte) ([]blocks.Block, error) {
	const op = "AnalyzePage"

	if len(pageImage) == 0 {
		return nil, WrapOCRError(op, ErrInvalidImage, "empty page image")
	}
	if len(pageImage) > MaxPageImageBytes {
		return nil, WrapOCRError(op, ErrInvalidImage, fmt.Sprintf("image size: %d bytes", len(pageImage)))
	}

	processCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: e.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pageImage,
				MimeType: "image/png",
			},
		},
	}

	resp, err := e.client.ProcessDocument(processCtx, req)
	if err != nil {
		return nil, e.handleProcessingError(op, err)
	}
	if resp.Document == nil {
		return nil, WrapOCRError(op, ErrAnalyzeFailed, "no document in response")
	}

	list := blocksFromDocument(resp.Document)
	e.log.Debug().
		Int("blocks", len(list)).
		Msg("Document AI page analysis completed")
	return list, nil
}

// processorName constructs the full processor resource name.
func (e *DocumentAIEngine) processorName() string {
	if e.config.ProcessorVersion != "" {
		return fmt.Sprintf("projects/%s/locations/%s/processors/%s/processorVersions/%s",
			e.config.ProjectID, e.config.Location, e.config.ProcessorID, e.config.ProcessorVersion)
	}
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s",
		e.config.ProjectID, e.config.Location, e.config.ProcessorID)
}

// handleProcessingError converts Document AI errors to engine errors.
func (e *DocumentAIEngine) handleProcessingError(op string, err error) error {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return WrapOCRError(op, ErrMissingCredentials, "insufficient permissions for Document AI")
	case strings.Contains(errStr, "NOT_FOUND"):
		return WrapOCRError(op, ErrAnalyzeFailed, fmt.Sprintf("processor not found: %s", e.config.ProcessorID))
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return WrapOCRError(op, ErrInvalidImage, "image format not supported or corrupted")
	case strings.Contains(errStr, "DeadlineExceeded") || strings.Contains(errStr, "context deadline exceeded"):
		return WrapOCRError(op, context.DeadlineExceeded, "analysis timeout")
	case strings.Contains(errStr, "Canceled") || strings.Contains(errStr, "context canceled"):
		return WrapOCRError(op, ErrContextCanceled, "analysis was canceled")
	default:
		return WrapOCRError(op, ErrAnalyzeFailed, fmt.Sprintf("Document AI error: %v", err))
	}
}

// Close closes the underlying Document AI client.
func (e *DocumentAIEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// blocksFromDocument normalizes a Document AI response into the block
// graph: one LINE block per text line, one TABLE block per table with
// CELL children (row/column indices are 1-based, synthesized from the
// header/body row order), and a KEY/VALUE pair of KEY_VALUE_SET blocks
// per form field. Cell and form-field text is attached through WORD
// children so resolution follows CHILD edges uniformly.
func blocksFromDocument(doc *documentaipb.Document) []blocks.Block {
	var list []blocks.Block
	id := newIDAllocator()

	for p, page := range doc.Pages {
		for _, line := range page.Lines {
			text := strings.TrimSpace(textFromLayout(line.Layout, doc.Text))
			if text == "" {
				continue
			}
			list = append(list, blocks.Block{
				ID:   id.next(p, "line"),
				Type: blocks.TypeLine,
				Text: text,
			})
		}

		for _, table := range page.Tables {
			tableID := id.next(p, "table")
			var cellIDs []string
			row := 0

			addRow := func(tr *documentaipb.Document_Page_Table_TableRow) {
				row++
				col := 0
				for _, cell := range tr.Cells {
					col++
					text := strings.TrimSpace(textFromLayout(cell.Layout, doc.Text))
					wordID := id.next(p, "word")
					cellID := id.next(p, "cell")
					list = append(list,
						blocks.Block{
							ID:   wordID,
							Type: blocks.TypeWord,
							Text: text,
						},
						blocks.Block{
							ID:          cellID,
							Type:        blocks.TypeCell,
							RowIndex:    row,
							ColumnIndex: col,
							Relationships: []blocks.Relationship{
								{Kind: blocks.RelationChild, IDs: []string{wordID}},
							},
						},
					)
					cellIDs = append(cellIDs, cellID)
					// Spanned cells occupy extra columns.
					if cell.ColSpan > 1 {
						col += int(cell.ColSpan) - 1
					}
				}
			}

			for _, tr := range table.HeaderRows {
				addRow(tr)
			}
			for _, tr := range table.BodyRows {
				addRow(tr)
			}

			list = append(list, blocks.Block{
				ID:   tableID,
				Type: blocks.TypeTable,
				Relationships: []blocks.Relationship{
					{Kind: blocks.RelationChild, IDs: cellIDs},
				},
			})
		}

		for _, field := range page.FormFields {
			keyText := strings.TrimSpace(textFromLayout(field.FieldName, doc.Text))
			valueText := strings.TrimSpace(textFromLayout(field.FieldValue, doc.Text))
			if keyText == "" {
				continue
			}

			keyWordID := id.next(p, "word")
			valueWordID := id.next(p, "word")
			valueID := id.next(p, "kv")
			keyID := id.next(p, "kv")

			list = append(list,
				blocks.Block{ID: keyWordID, Type: blocks.TypeWord, Text: keyText},
				blocks.Block{ID: valueWordID, Type: blocks.TypeWord, Text: valueText},
				blocks.Block{
					ID:          valueID,
					Type:        blocks.TypeKeyValueSet,
					EntityTypes: []string{"VALUE"},
					Relationships: []blocks.Relationship{
						{Kind: blocks.RelationChild, IDs: []string{valueWordID}},
					},
				},
				blocks.Block{
					ID:          keyID,
					Type:        blocks.TypeKeyValueSet,
					EntityTypes: []string{blocks.EntityKey},
					Relationships: []blocks.Relationship{
						{Kind: blocks.RelationChild, IDs: []string{keyWordID}},
						{Kind: blocks.RelationValue, IDs: []string{valueID}},
					},
				},
			)
		}
	}

	return list
}

// textFromLayout extracts text from a layout's text anchor segments.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	total := len(runes)
	var sb strings.Builder

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > total {
			end = total
		}
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}

// idAllocator hands out deterministic block IDs within one response.
type idAllocator struct {
	n int
}

func newIDAllocator() *idAllocator {
	return &idAllocator{}
}

func (a *idAllocator) next(page int, kind string) string {
	a.n++
	return fmt.Sprintf("p%d-%s-%d", page+1, kind, a.n)
}

// getEnvVar tries multiple environment variable names and returns the
// first non-empty value.
func getEnvVar(names ...string) string {
	for _, name := range names {
		if value := os.Getenv(name); value != "" {
			return value
		}
	}
	return ""
}

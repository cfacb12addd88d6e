package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"docverify/internal/blocks"
	"docverify/internal/logger"
)

// VisionEngine implements Engine using Google Cloud Vision document text
// detection. It is a text-only engine: the response is normalized into
// LINE blocks, one per detected text line. Tables and key-value pairs are
// never produced, so scanned pages analyzed with this engine format as
// plain body text.
type VisionEngine struct {
	client *vision.ImageAnnotatorClient
	log    zerolog.Logger
}

// NewVisionEngine creates the engine with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or
// GOOGLE_CREDENTIALS JSON in env.
func NewVisionEngine(ctx context.Context) (Engine, error) {
	const op = "NewVisionEngine"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &VisionEngine{
		client: client,
		log:    logger.WithComponent("vision"),
	}, nil
}

// NewVisionEngineWithClient creates the engine with an explicit client
// (for testing).
func NewVisionEngineWithClient(client *vision.ImageAnnotatorClient) Engine {
	return &VisionEngine{
		client: client,
		log:    logger.WithComponent("vision"),
	}
}

// AnalyzePage submits one PNG page image and returns LINE blocks for each
// detected text line.
func (e *VisionEngine) AnalyzePage(ctx context.Context, pageImage []byte) ([]blocks.Block, error) {
	const op = "AnalyzePage"

	if len(pageImage) == 0 {
		return nil, WrapOCRError(op, ErrInvalidImage, "empty page image")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: pageImage},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
			},
		},
	}

	resp, err := e.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrAnalyzeFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return nil, WrapOCRError(op, ErrAnalyzeFailed, "no response from Vision API")
	}

	imageResp := resp.Responses[0]
	if imageResp.Error != nil {
		return nil, WrapOCRError(op, ErrAnalyzeFailed, fmt.Sprintf("Vision API error: %s", imageResp.Error.Message))
	}
	if imageResp.FullTextAnnotation == nil || strings.TrimSpace(imageResp.FullTextAnnotation.Text) == "" {
		return nil, WrapOCRError(op, ErrEmptyPage, "no text annotation in response")
	}

	var list []blocks.Block
	id := newIDAllocator()
	for _, line := range strings.Split(imageResp.FullTextAnnotation.Text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		list = append(list, blocks.Block{
			ID:   id.next(0, "line"),
			Type: blocks.TypeLine,
			Text: line,
		})
	}

	e.log.Debug().
		Int("lines", len(list)).
		Msg("Vision page analysis completed")
	return list, nil
}

// Close closes the underlying Vision client.
func (e *VisionEngine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

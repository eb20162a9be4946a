// Package gdocai provides an OCR engine backed by Google Document AI.
//
// The image is sent to a Document AI OCR processor and the response is
// converted into hOCR: blocks become ocr_carea, paragraphs ocr_par, lines
// ocr_line and tokens ocrx_word. Normalized vertices are scaled to the page
// dimension and token confidence (0-1) is scaled to x_wconf (0-100).
//
// The raw response of the last call stays available through
// Engine.Response for debug dumps and form field extraction.
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS environment variable
package gdocai

import (
	"context"
	"fmt"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/img2html/pkg/hocr"
)

// Config identifies the Document AI processor
type Config struct {
	ProjectID   string
	Location    string
	ProcessorID string
}

type processFunc func(ctx context.Context, content []byte, mimeType string, cfg *Config) (*documentaipb.Document, error)

// Engine runs OCR through Document AI. It keeps the last response and is
// not safe for concurrent use.
type Engine struct {
	cfg     Config
	process processFunc
	last    *documentaipb.Document
}

// New returns an engine for the processor described by cfg
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, process: processRaw}
}

func (e *Engine) Name() string { return "gdocai" }

// Recognize sends the PNG image to Document AI and converts the response to hOCR
func (e *Engine) Recognize(ctx context.Context, png []byte) (*hocr.HOCR, error) {
	doc, err := e.process(ctx, png, "image/png", &e.cfg)
	if err != nil {
		return nil, err
	}
	e.last = doc

	result, err := CreateHOCRStruct(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert Document AI response: %w", err)
	}
	return result, nil
}

// Response returns the raw Document AI response of the last Recognize call
func (e *Engine) Response() *documentaipb.Document {
	return e.last
}

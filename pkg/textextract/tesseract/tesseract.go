// Package tesseract provides the default OCR engine, backed by the Tesseract
// library through gosseract.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/gardar/img2html/pkg/hocr"
)

// Engine runs Tesseract with a single-uniform-block page layout and the
// default OCR engine mode
type Engine struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract engine. Languages are Tesseract traineddata
// names ("eng", "deu"); none means Tesseract's own default.
func New(languages ...string) *Engine {
	return &Engine{languages: languages, clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR over a PNG image and returns the parsed hOCR output
func (e *Engine) Recognize(ctx context.Context, png []byte) (*hocr.HOCR, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := e.clientFactory()
	defer c.Close()

	if len(e.languages) > 0 {
		if err := c.SetLanguage(e.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := c.SetImageFromBytes(png); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	out, err := c.HOCRText()
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	doc, err := hocr.ParseHOCR([]byte(out))
	if err != nil {
		return nil, fmt.Errorf("parse tesseract hOCR: %w", err)
	}
	if doc.Metadata["ocr-system"] == "" {
		doc.Metadata["ocr-system"] = "tesseract " + gosseract.Version()
	}
	return &doc, nil
}

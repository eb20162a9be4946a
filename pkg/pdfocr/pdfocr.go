// Package pdfocr builds searchable PDFs from an image and its recognized text.
//
// The PDF has a single page the size of the image, with the image drawn
// full-page and the recognized words placed over it on an optional content
// layer. The text is transparent, so the page looks like the image but is
// searchable and selectable, and the layer can be toggled in readers that
// support it.
//
// Main Functions:
//
// - AssembleWithOCR: Creates a PDF from an image with an OCR text layer
// - CheckExistingOCRLayers: Reports the OCR layers present in a PDF
package pdfocr

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gardar/img2html/pkg/textextract"
)

// AssembleWithOCR creates a one-page PDF from imageData and overlays the
// text of elements at their bounding boxes.
func AssembleWithOCR(
	imageData []byte,
	elements []textextract.TextElement,
	config OCRConfig,
) ([]byte, error) {
	if len(imageData) == 0 {
		return nil, fmt.Errorf("no image data provided")
	}
	if config.LayerName == "" {
		return nil, fmt.Errorf("layer name is required")
	}

	img, err := prepareImage(imageData)
	if err != nil {
		return nil, fmt.Errorf("image has invalid format: %w", err)
	}
	getLogger(config).WithFields(logrus.Fields{
		"type":   img.imageType,
		"width":  img.width,
		"height": img.height,
	}).Debug("Assembling searchable PDF")

	finalPDF, err := createPDFFromImage(img, elements, config.Debug, config.LayerName, config.Font)
	if err != nil {
		return nil, fmt.Errorf("error creating PDF from image: %w", err)
	}
	return finalPDF, nil
}
